// Package aggregate merges several rankings into the consensus ranking that
// minimizes the total scaled footrule distance to them.
//
// The pipeline is:
//
//	rankings → rank.Merge → CostMatrix → solver → Project → Result
//
// The solver is either the Hungarian state machine ([MethodHungarian], the
// default) or an exhaustive search over all permutations
// ([MethodBruteForce]) that is only accepted for small universes.
package aggregate

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/hungarian"
	"github.com/matzehuels/footrule/pkg/matrix"
	"github.com/matzehuels/footrule/pkg/rank"
)

// Method selects the assignment solver.
type Method string

const (
	MethodHungarian  Method = "hungarian"
	MethodBruteForce Method = "brute"
)

// MaxBruteForce is the largest universe MethodBruteForce accepts (10! orders).
const MaxBruteForce = 10

// Methods lists the accepted solver methods.
var Methods = []Method{MethodHungarian, MethodBruteForce}

// ParseMethod converts s to a Method. The empty string selects MethodHungarian.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return MethodHungarian, nil
	}
	m := Method(s)
	if !slices.Contains(Methods, m) {
		return "", errors.New(errors.ErrCodeInvalidMethod, "unknown method %q (want hungarian or brute)", s)
	}
	return m, nil
}

// Options configures Aggregate.
type Options struct {
	Method Method
	// Trace, when set, receives every Hungarian solver transition.
	Trace func(hungarian.Event)
}

// Result is a consensus ranking and its total distance to the inputs.
type Result struct {
	Ranking    rank.Ranking         `json:"ranking"`
	Distance   float64              `json:"distance"`
	Method     Method               `json:"method"`
	Rounds     int                  `json:"rounds"`
	Assignment hungarian.Assignment `json:"assignment,omitempty"`
	Universe   rank.Universe        `json:"-"`
}

// Len returns the number of items in the consensus ranking.
func (r *Result) Len() int { return len(r.Ranking) }

// Aggregate computes the consensus ranking of rankings.
//
// Every ranking must be duplicate-free. An empty universe (no rankings, or
// only empty ones) succeeds with an empty ranking and distance 0. When several
// orders are optimal, which one is returned is unspecified.
func Aggregate(ctx context.Context, rankings []rank.Ranking, opts Options) (*Result, error) {
	method, err := ParseMethod(string(opts.Method))
	if err != nil {
		return nil, err
	}
	for i, r := range rankings {
		if err := errors.ValidateRanking(r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRanking, err, "ranking %d", i+1)
		}
	}

	u := rank.Merge(rankings...)
	if u.Empty() {
		return &Result{Ranking: rank.Ranking{}, Method: method, Universe: u}, nil
	}
	if method == MethodBruteForce && u.Len() > MaxBruteForce {
		return nil, errors.New(errors.ErrCodeTooLarge, "brute force accepts at most %d items, got %d", MaxBruteForce, u.Len())
	}

	cost, err := CostMatrix(u, rankings)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		a      hungarian.Assignment
		rounds int
	)
	switch method {
	case MethodBruteForce:
		if a, err = bruteForce(ctx, cost); err != nil {
			return nil, fmt.Errorf("brute force %d items: %w", u.Len(), err)
		}
	default:
		var solverOpts []hungarian.Option
		if opts.Trace != nil {
			solverOpts = append(solverOpts, hungarian.WithTrace(opts.Trace))
		}
		s, err := hungarian.New(cost, solverOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "prepare solver")
		}
		if a, err = s.RunContext(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("solve %d items: %w", u.Len(), ctxErr)
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "solve %d items", u.Len())
		}
		rounds = s.Rounds()
	}

	res, err := Project(u, a, cost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "project assignment")
	}
	res.Method = method
	res.Rounds = rounds
	return res, nil
}

// CostMatrix builds the n×n matrix whose entry (i, j) is the total scaled
// footrule of placing item i of u at output position j+1.
func CostMatrix(u rank.Universe, rankings []rank.Ranking) (*matrix.Dense, error) {
	n := u.Len()
	cost, err := matrix.NewSquare(n)
	if err != nil {
		return nil, fmt.Errorf("cost matrix: %w", err)
	}

	// positions[k][i] is the 1-indexed position of item i in ranking k, or 0.
	positions := make([][]int, len(rankings))
	for k, r := range rankings {
		pos := make([]int, n)
		for q, item := range r {
			if i, ok := u.IndexOf(item); ok {
				pos[i] = q + 1
			}
		}
		positions[k] = pos
	}

	for i := 0; i < n; i++ {
		row := cost.Row(i)
		for j := range row {
			var sum float64
			for k, r := range rankings {
				if q := positions[k][i]; q > 0 {
					sum += rank.Penalty(q, r.Len(), j+1, n)
				}
			}
			row[j] = sum
		}
	}
	return cost, nil
}

// Project turns a complete assignment into a Result: the item of row i is
// placed at slot col, and the distance is the sum of the original costs of
// the committed pairs.
func Project(u rank.Universe, a hungarian.Assignment, cost *matrix.Dense) (*Result, error) {
	cols, err := a.Columns(u.Len())
	if err != nil {
		return nil, err
	}
	ranking := make(rank.Ranking, u.Len())
	for i, j := range cols {
		ranking[j] = u.Item(i)
	}
	return &Result{
		Ranking:    ranking,
		Distance:   a.Cost(cost),
		Assignment: a,
		Universe:   u,
	}, nil
}
