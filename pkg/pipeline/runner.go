package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/cache"
	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/history"
	"github.com/matzehuels/footrule/pkg/hungarian"
	pkgio "github.com/matzehuels/footrule/pkg/io"
	"github.com/matzehuels/footrule/pkg/observability"
	"github.com/matzehuels/footrule/pkg/rank"
)

// keyTypeResult labels result cache events.
const keyTypeResult = "result"

// Runner encapsulates pipeline execution with caching and history.
// Both CLI and API use it to avoid duplicating that logic.
//
// The Runner is stateless except for its backends - it doesn't store
// pipeline results itself. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	History history.Store
	Logger  *log.Logger

	// TTL is how long solved results stay cached.
	TTL time.Duration
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If store is nil, a NullStore is used (history disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, store history.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = history.NullStore{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		History: store,
		Logger:  logger,
		TTL:     cache.TTLResult,
	}
}

// Execute runs the complete load → solve → render pipeline and records the
// run in the history store.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	rankings, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Rankings = rankings
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rankings = len(rankings)

	r.Logger.Debug("loaded rankings",
		"rankings", len(rankings),
		"duration", result.Stats.LoadTime)

	// Stage 2: Solve
	solveStart := time.Now()
	res, hit, err := r.SolveWithCacheInfo(ctx, rankings, opts)
	if err != nil {
		return nil, err
	}
	result.Aggregate = res
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.Items = res.Len()
	result.CacheInfo.SolveHit = hit

	r.Logger.Info("aggregated rankings",
		"items", res.Len(),
		"rankings", len(rankings),
		"distance", res.Distance,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	out, err := r.Render(res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(renderStart)

	if !opts.SkipHistory {
		run := history.NewRun(opts.Inputs, rankings, res)
		run.Cached = hit
		run.Duration = result.Stats.SolveTime
		if err := r.History.Put(ctx, run); err != nil {
			r.Logger.Warn("failed to record run", "error", err)
		} else {
			result.RunID = run.ID
		}
	}

	return result, nil
}

// Load returns the inline rankings of opts, or reads its input files.
func (r *Runner) Load(ctx context.Context, opts Options) ([]rank.Ranking, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if len(opts.Rankings) > 0 {
		return opts.Rankings, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pkgio.ImportRankings(opts.Inputs...)
}

// SolveWithCacheInfo computes the consensus ranking with caching and returns
// cache hit info.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, rankings []rank.Ranking, opts Options) (*aggregate.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	u := rank.Merge(rankings...)
	if u.Len() > opts.MaxItems {
		return nil, false, errors.New(errors.ErrCodeTooLarge, "%d distinct items exceed the limit of %d", u.Len(), opts.MaxItems)
	}

	cacheKey := r.Keyer.ResultKey(cache.HashRankings(rankings), cache.ResultKeyOpts{
		Method: string(opts.Method),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached aggregate.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeResult)
				cached.Universe = u
				return &cached, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
	}

	res, err := r.Solve(ctx, rankings, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
		}
	}

	return res, false, nil
}

// Solve computes the consensus ranking without consulting the cache. Solver
// transitions are logged at debug level.
func (r *Runner) Solve(ctx context.Context, rankings []rank.Ranking, opts Options) (*aggregate.Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}

	aggOpts := aggregate.Options{Method: opts.Method}
	debug := opts.Logger.GetLevel() <= log.DebugLevel
	if debug || opts.Progress != nil {
		logger, progress := opts.Logger, opts.Progress
		aggOpts.Trace = func(e hungarian.Event) {
			if debug {
				logger.Debug("solver",
					"state", e.State,
					"round", e.Round,
					"assigned", e.Assigned,
					"lines", e.Lines,
					"delta", e.Delta)
			}
			if progress != nil {
				progress(e)
			}
		}
	}

	items := rank.Merge(rankings...).Len()
	method := string(opts.Method)
	observability.Solver().OnSolveStart(ctx, method, items, len(rankings))
	start := time.Now()

	res, err := aggregate.Aggregate(ctx, rankings, aggOpts)

	rounds := 0
	if res != nil {
		rounds = res.Rounds
	}
	observability.Solver().OnSolveComplete(ctx, method, items, rounds, time.Since(start), err)
	return res, err
}

// Render encodes res in the format selected by opts.
func (r *Runner) Render(res *aggregate.Result, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pkgio.Write(res, &buf, opts.RenderOptions()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var cacheErr, historyErr error
	if r.Cache != nil {
		cacheErr = r.Cache.Close()
	}
	if r.History != nil {
		historyErr = r.History.Close()
	}
	if cacheErr != nil {
		return cacheErr
	}
	return historyErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
