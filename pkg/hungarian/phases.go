package hungarian

import (
	"fmt"
	"math"

	"github.com/matzehuels/footrule/pkg/matrix"
)

func isZero(v float64) bool { return math.Abs(v) <= Epsilon }

func snap(v float64) float64 {
	if isZero(v) {
		return 0
	}
	return v
}

// Reduce subtracts each row's minimum from that row, then each column's
// minimum from that column. Afterwards every entry is >= 0 and every row and
// column contains an exact zero. Relative costs of complete assignments are
// unchanged.
func Reduce(m *matrix.Dense) {
	for i := 0; i < m.Rows(); i++ {
		lo := m.RowMin(i)
		row := m.Row(i)
		for j := range row {
			row[j] = snap(row[j] - lo)
		}
	}
	for j := 0; j < m.Cols(); j++ {
		lo := m.ColMin(j)
		if lo == 0 {
			continue
		}
		for i := 0; i < m.Rows(); i++ {
			row := m.Row(i)
			row[j] = snap(row[j] - lo)
		}
	}
}

// Cover draws lines through rows and columns of mask until every zero of m
// lies on a line, and returns the number of lines on mask. Each step picks
// the row or column holding the most zeros not yet covered; rows win ties.
// Lines already on mask are respected.
func Cover(m *matrix.Dense, mask *matrix.Mask) int {
	n := m.Rows()
	rowZeros := make([]int, n)
	colZeros := make([]int, n)
	remaining := 0
	for i := 0; i < n; i++ {
		for j, v := range m.Row(i) {
			if isZero(v) && mask.At(i, j) == 0 {
				rowZeros[i]++
				colZeros[j]++
				remaining++
			}
		}
	}

	for remaining > 0 {
		best, count, isRow := -1, 0, true
		for i, c := range rowZeros {
			if c > count {
				best, count, isRow = i, c, true
			}
		}
		for j, c := range colZeros {
			if c > count {
				best, count, isRow = j, c, false
			}
		}

		if isRow {
			for j, v := range m.Row(best) {
				if isZero(v) && mask.At(best, j) == 0 {
					colZeros[j]--
				}
			}
			rowZeros[best] = 0
			mask.CoverRow(best)
		} else {
			for i := 0; i < n; i++ {
				if isZero(m.Row(i)[best]) && mask.At(i, best) == 0 {
					rowZeros[i]--
				}
			}
			colZeros[best] = 0
			mask.CoverCol(best)
		}
		remaining -= count
	}
	return mask.Lines()
}

// coverFromMatching draws the König cover induced by a maximum zero matching:
// starting from unmatched rows, alternate along zeros to matched rows, then
// cover every unreached row and every reached column. The line count equals
// the matching size.
func coverFromMatching(m *matrix.Dense, a Assignment, mask *matrix.Mask) int {
	n := m.Rows()
	rowOf := make([]int, n)
	for j := range rowOf {
		rowOf[j] = -1
	}
	matched := make([]bool, n)
	for _, p := range a {
		rowOf[p.Col] = p.Row
		matched[p.Row] = true
	}

	markedRow := make([]bool, n)
	markedCol := make([]bool, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !matched[i] {
			markedRow[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for j, v := range m.Row(i) {
			if !isZero(v) || markedCol[j] {
				continue
			}
			markedCol[j] = true
			if r := rowOf[j]; r >= 0 && !markedRow[r] {
				markedRow[r] = true
				queue = append(queue, r)
			}
		}
	}

	for i := 0; i < n; i++ {
		if !markedRow[i] {
			mask.CoverRow(i)
		}
		if markedCol[i] {
			mask.CoverCol(i)
		}
	}
	return mask.Lines()
}

// Adjust finds the smallest value k among cells of m not covered by mask,
// subtracts k from every uncovered cell and adds k to every cell covered
// twice. Singly covered cells are unchanged. It returns k.
func Adjust(m *matrix.Dense, mask *matrix.Mask) (float64, error) {
	k := math.Inf(1)
	for i := 0; i < m.Rows(); i++ {
		cover := mask.Row(i)
		for j, v := range m.Row(i) {
			if cover[j] == 0 && v < k {
				k = v
			}
		}
	}
	if math.IsInf(k, 1) {
		return 0, fmt.Errorf("hungarian: adjust with every cell covered: %w", ErrNoProgress)
	}

	for i := 0; i < m.Rows(); i++ {
		cover := mask.Row(i)
		row := m.Row(i)
		for j := range row {
			switch cover[j] {
			case 0:
				row[j] = snap(row[j] - k)
			case 2:
				row[j] += k
			}
		}
	}
	return k, nil
}
