// Package pipeline provides the load → aggregate → render pipeline shared by
// the CLI and the HTTP API.
//
// By centralizing this logic, every entry point applies the same defaults,
// bounds, cache keys and history records.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read ranking files (or take inline rankings)
//  2. Solve: compute the consensus ranking, consulting the result cache
//  3. Render: encode the result as text, JSON, DOT or SVG
//
// A successful run is recorded in the history store unless disabled.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs: []string{"a.txt", "b.txt"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/hungarian"
	pkgio "github.com/matzehuels/footrule/pkg/io"
	"github.com/matzehuels/footrule/pkg/rank"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMethod is the default assignment solver.
	DefaultMethod = aggregate.MethodHungarian

	// DefaultMaxItems bounds the merged universe. The solver itself is
	// unbounded; cost grows as n² memory and roughly n³ time.
	DefaultMaxItems = 1000

	// DefaultFormat is the default output format.
	DefaultFormat = pkgio.FormatText

	// DefaultDistance is where text output prints the total distance.
	DefaultDistance = pkgio.PlaceFirst
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Inputs   []string       `json:"inputs,omitempty"`
	Rankings []rank.Ranking `json:"rankings,omitempty"`

	// Solve options
	Method   aggregate.Method `json:"method,omitempty"`
	MaxItems int              `json:"max_items,omitempty"`
	Refresh  bool             `json:"refresh,omitempty"`

	// Render options
	Format   pkgio.Format    `json:"format,omitempty"`
	Distance pkgio.Placement `json:"distance,omitempty"`

	// SkipHistory disables recording the run.
	SkipHistory bool `json:"skip_history,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, receives every solver transition of a
	// non-cached Hungarian solve.
	Progress func(hungarian.Event) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID is the history ID of the run, empty when not recorded.
	RunID string

	// Rankings are the loaded input rankings.
	Rankings []rank.Ranking

	// Aggregate is the consensus ranking and its distance.
	Aggregate *aggregate.Result

	// Output is the rendered result in the requested format.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the solve hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rankings   int
	Items      int
	LoadTime   time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	SolveHit bool // Whether the consensus ranking came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one ranking source is set.
func (o *Options) ValidateForLoad() error {
	if len(o.Inputs) > 0 && len(o.Rankings) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "inputs and rankings are mutually exclusive")
	}
	if len(o.Inputs) == 0 && len(o.Rankings) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one ranking is required")
	}
	for _, p := range o.Inputs {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForSolve validates and sets defaults for solving.
func (o *Options) ValidateForSolve() error {
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	if _, err := aggregate.ParseMethod(string(o.Method)); err != nil {
		return err
	}
	if o.MaxItems < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_items must be positive, got %d", o.MaxItems)
	}
	if o.MaxItems == 0 {
		o.MaxItems = DefaultMaxItems
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Distance == "" {
		o.Distance = DefaultDistance
	}
	if _, err := pkgio.ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if _, err := pkgio.ParsePlacement(string(o.Distance)); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// RenderOptions returns the export options for this run.
func (o *Options) RenderOptions() pkgio.Options {
	return pkgio.Options{Format: o.Format, Distance: o.Distance}
}
