package hungarian

import (
	"errors"
	"fmt"

	"github.com/matzehuels/footrule/pkg/matrix"
)

// ErrNotBijection is returned when an assignment does not pair every row
// with exactly one column.
var ErrNotBijection = errors.New("hungarian: assignment is not a bijection")

// Pair commits row Row to column Col.
type Pair struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Assignment is a set of committed pairs. A complete assignment over n rows
// is a bijection: every row and every column appears exactly once.
type Assignment []Pair

// Columns returns cols where cols[row] is the column assigned to row.
// It fails unless a is a bijection over n rows.
func (a Assignment) Columns(n int) ([]int, error) {
	if len(a) != n {
		return nil, fmt.Errorf("%w: %d pairs for %d rows", ErrNotBijection, len(a), n)
	}
	cols := make([]int, n)
	for i := range cols {
		cols[i] = -1
	}
	used := make([]bool, n)
	for _, p := range a {
		if p.Row < 0 || p.Row >= n || p.Col < 0 || p.Col >= n {
			return nil, fmt.Errorf("%w: pair (%d,%d) out of range", ErrNotBijection, p.Row, p.Col)
		}
		if cols[p.Row] >= 0 || used[p.Col] {
			return nil, fmt.Errorf("%w: duplicate pair (%d,%d)", ErrNotBijection, p.Row, p.Col)
		}
		cols[p.Row] = p.Col
		used[p.Col] = true
	}
	return cols, nil
}

// Cost sums m over the pairs of a.
func (a Assignment) Cost(m *matrix.Dense) float64 {
	var sum float64
	for _, p := range a {
		sum += m.Row(p.Row)[p.Col]
	}
	return sum
}
