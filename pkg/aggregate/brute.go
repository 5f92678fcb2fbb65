package aggregate

import (
	"context"
	"slices"

	"github.com/matzehuels/footrule/pkg/hungarian"
	"github.com/matzehuels/footrule/pkg/matrix"
	"github.com/matzehuels/footrule/pkg/perm"
)

// ctxCheckEvery is how many permutations bruteForce visits between
// cancellation checks.
const ctxCheckEvery = 1 << 12

// bruteForce returns the cheapest assignment of cost by visiting all n!
// permutations. The first minimum in Heap's order wins.
func bruteForce(ctx context.Context, cost *matrix.Dense) (hungarian.Assignment, error) {
	var (
		best     []int
		bestCost float64
		visited  int
		err      error
	)
	perm.Each(cost.Rows(), func(p []int) bool {
		if visited++; visited%ctxCheckEvery == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		var sum float64
		for i, j := range p {
			sum += cost.Row(i)[j]
		}
		if best == nil || sum < bestCost {
			best, bestCost = slices.Clone(p), sum
		}
		return true
	})

	if err != nil {
		return nil, err
	}

	a := make(hungarian.Assignment, len(best))
	for i, j := range best {
		a[i] = hungarian.Pair{Row: i, Col: j}
	}
	return a, nil
}
