package io

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/rank"
)

// maxTokenSize bounds the scanner buffer; it is a little above
// errors.MaxItemLength so overlong items reach validation.
const maxTokenSize = 64 * 1024

// ReadRanking decodes whitespace-separated items from r in order.
//
// ReadRanking returns an INVALID_RANKING error if an item repeats or fails
// [errors.ValidateItem]. An empty input yields an empty, non-nil ranking.
// ReadRanking does not close r.
func ReadRanking(r io.Reader) (rank.Ranking, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxTokenSize)
	sc.Split(bufio.ScanWords)

	out := rank.Ranking{}
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		if stderrors.Is(err, bufio.ErrTooLong) {
			return nil, errors.Wrap(errors.ErrCodeInvalidRanking, err, "item %d exceeds %d bytes", len(out)+1, maxTokenSize)
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	if err := errors.ValidateRanking(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportRanking reads the ranking file at path.
//
// A missing file yields FILE_NOT_FOUND; other open failures yield
// INVALID_INPUT. Decoding errors from [ReadRanking] are wrapped with the path.
func ImportRanking(path string) (rank.Ranking, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "ranking file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	r, err := ReadRanking(f)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidInput
		}
		return nil, errors.Wrap(code, err, "read %s", path)
	}
	return r, nil
}

// ImportRankings reads every file in paths, in order. It stops at the first
// failure.
func ImportRankings(paths ...string) ([]rank.Ranking, error) {
	out := make([]rank.Ranking, 0, len(paths))
	for _, p := range paths {
		r, err := ImportRanking(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
