package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/cache"
	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/history"
	"github.com/matzehuels/footrule/pkg/hungarian"
	pkgio "github.com/matzehuels/footrule/pkg/io"
	"github.com/matzehuels/footrule/pkg/rank"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func writeRanking(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Rankings: []rank.Ranking{{"a"}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Method != DefaultMethod || opts.MaxItems != DefaultMaxItems ||
		opts.Format != DefaultFormat || opts.Distance != DefaultDistance || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateOptions(t *testing.T) {
	one := []rank.Ranking{{"a"}}
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no source", Options{}, errors.ErrCodeInvalidInput},
		{"both sources", Options{Inputs: []string{"a.txt"}, Rankings: one}, errors.ErrCodeInvalidInput},
		{"empty path", Options{Inputs: []string{""}}, errors.ErrCodeInvalidInput},
		{"bad method", Options{Rankings: one, Method: "greedy"}, errors.ErrCodeInvalidMethod},
		{"negative max items", Options{Rankings: one, MaxItems: -1}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Rankings: one, Format: "pdf"}, errors.ErrCodeInvalidFormat},
		{"bad placement", Options{Rankings: one, Distance: "middle"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteFromFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeRanking(t, dir, "a.txt", "A\nB\nC\n")
	b := writeRanking(t, dir, "b.txt", "C B A")

	store, err := history.NewFileStore(filepath.Join(dir, "runs"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, store, quietLogger())
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Inputs: []string{a, b}})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(res.Output)), "\n")
	if len(lines) != 4 || lines[0] != "1.333333" || lines[2] != "B" {
		t.Errorf("output = %q", res.Output)
	}
	if res.Stats.Rankings != 2 || res.Stats.Items != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}

	run, err := store.Get(context.Background(), res.RunID)
	if err != nil || run == nil {
		t.Fatalf("run %q not recorded: %v", res.RunID, err)
	}
	if len(run.Inputs) != 2 || run.Ranking[1] != "B" {
		t.Errorf("recorded run = %+v", run)
	}
}

func TestExecuteSkipHistory(t *testing.T) {
	store, _ := history.NewFileStore(t.TempDir())
	r := NewRunner(nil, nil, store, quietLogger())

	res, err := r.Execute(context.Background(), Options{
		Rankings:    []rank.Ranking{{"a", "b"}},
		SkipHistory: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID != "" {
		t.Errorf("RunID = %q, want empty", res.RunID)
	}
	if runs, _ := store.List(context.Background(), 0); len(runs) != 0 {
		t.Errorf("%d runs recorded", len(runs))
	}
}

func TestExecuteMissingFile(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), Options{
		Inputs: []string{filepath.Join(t.TempDir(), "nope.txt")},
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestSolveUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil, quietLogger())
	rankings := []rank.Ranking{{"x", "y", "z"}, {"y", "x"}}

	first, hit, err := r.SolveWithCacheInfo(ctx, rankings, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first solve should miss")
	}

	second, hit, err := r.SolveWithCacheInfo(ctx, rankings, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second solve should hit")
	}
	if second.Distance != first.Distance || strings.Join(second.Ranking, ",") != strings.Join(first.Ranking, ",") {
		t.Errorf("cached %v (%v), computed %v (%v)", second.Ranking, second.Distance, first.Ranking, first.Distance)
	}
	if second.Universe.Len() != 3 {
		t.Errorf("cached result universe has %d items", second.Universe.Len())
	}

	// Refresh bypasses the cache.
	if _, hit, _ := r.SolveWithCacheInfo(ctx, rankings, Options{Refresh: true}); hit {
		t.Error("refresh should not hit")
	}

	// The method is part of the key.
	if _, hit, _ := r.SolveWithCacheInfo(ctx, rankings, Options{Method: aggregate.MethodBruteForce}); hit {
		t.Error("different method should miss")
	}
}

func TestSolveMaxItems(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	_, _, err := r.SolveWithCacheInfo(context.Background(),
		[]rank.Ranking{{"a", "b", "c"}}, Options{MaxItems: 2})
	if !errors.Is(err, errors.ErrCodeTooLarge) {
		t.Errorf("err = %v, want TOO_LARGE", err)
	}
}

func TestSolveTracesAtDebugLevel(t *testing.T) {
	var buf strings.Builder
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := NewRunner(nil, nil, nil, logger)

	if _, err := r.Solve(context.Background(), []rank.Ranking{{"a", "b", "c"}, {"c", "b", "a"}}, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "state=assigned") {
		t.Errorf("debug log missing solver transitions:\n%s", buf.String())
	}
}

func TestRenderFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())
	res := &aggregate.Result{Ranking: rank.Ranking{"a", "b"}, Distance: 0.5}

	text, err := r.Render(res, Options{Distance: pkgio.PlaceLast})
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "a\nb\n0.500000\n" {
		t.Errorf("text = %q", text)
	}

	dot, err := r.Render(res, Options{Format: pkgio.FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph G {") {
		t.Errorf("dot = %q", dot)
	}
}

func TestSolveReportsProgress(t *testing.T) {
	r := NewRunner(nil, nil, nil, quietLogger())

	var events []hungarian.Event
	opts := Options{Progress: func(e hungarian.Event) { events = append(events, e) }}
	if _, err := r.Solve(context.Background(), []rank.Ranking{{"a", "b", "c"}, {"c", "b", "a"}}, opts); err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 || events[len(events)-1].State != hungarian.StateAssigned {
		t.Errorf("progress events = %v, want transitions ending in assigned", events)
	}
}
