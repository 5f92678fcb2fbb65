package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/history"
	"github.com/matzehuels/footrule/pkg/pipeline"
	"github.com/matzehuels/footrule/pkg/rank"
)

// AggregateRequest is the body of POST /v1/aggregate.
type AggregateRequest struct {
	Rankings []rank.Ranking `json:"rankings"`
	Method   string         `json:"method,omitempty"`
	Refresh  bool           `json:"refresh,omitempty"`
}

// AggregateResponse is the body of a successful POST /v1/aggregate.
type AggregateResponse struct {
	ID       string       `json:"id,omitempty"`
	Ranking  rank.Ranking `json:"ranking"`
	Distance float64      `json:"distance"`
	Method   string       `json:"method"`
	Rounds   int          `json:"rounds"`
	Cached   bool         `json:"cached"`
}

// RunList is the body of GET /v1/runs.
type RunList struct {
	Runs []*history.Run `json:"runs"`
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			s.writeErr(w, r, errors.New(errors.ErrCodeTooLarge, "request body exceeds %d bytes", maxErr.Limit))
			return
		}
		s.writeErr(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, pipeline.Options{
		Rankings: req.Rankings,
		Method:   aggregate.Method(req.Method),
		MaxItems: s.cfg.MaxItems,
		Refresh:  req.Refresh,
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	agg := res.Aggregate
	writeJSON(w, http.StatusOK, AggregateResponse{
		ID:       res.RunID,
		Ranking:  agg.Ranking,
		Distance: agg.Distance,
		Method:   string(agg.Method),
		Rounds:   agg.Rounds,
		Cached:   res.CacheInfo.SolveHit,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}

	runs, err := s.runner.History.List(r.Context(), limit)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if runs == nil {
		runs = []*history.Run{}
	}
	writeJSON(w, http.StatusOK, RunList{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.runner.History.Get(r.Context(), id)
	if stderrors.Is(err, history.ErrInvalidID) {
		s.writeErr(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "run id %q", id))
		return
	}
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if run == nil {
		s.writeErr(w, r, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// pinger is implemented by backends that can check their connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	backends := map[string]any{
		"cache":   s.runner.Cache,
		"history": s.runner.History,
	}
	for name, b := range backends {
		p, ok := b.(pinger)
		if !ok {
			continue
		}
		if err := p.Ping(r.Context()); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}
