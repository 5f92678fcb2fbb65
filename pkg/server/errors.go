package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/footrule/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status and wire code.
func statusFor(err error) (int, errors.Code) {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errors.ErrCodeTimeout
	case stderrors.Is(err, context.Canceled):
		// Client went away; the status is never seen.
		return 499, errors.ErrCodeTimeout
	}

	code := errors.GetCode(err)
	switch code {
	case "":
		return http.StatusInternalServerError, errors.ErrCodeInternal
	case errors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge, code
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeRunNotFound:
		return http.StatusNotFound, code
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway, code
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	}
	if errors.IsInvalid(err) {
		return http.StatusBadRequest, code
	}
	return http.StatusInternalServerError, code
}

// writeErr writes err in the error envelope. Internal errors are reported
// without their cause.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeError(w, status, string(code), msg)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
