package matrix

import "fmt"

// Mask is an n×n grid of small counters recording how many covering lines
// (a row line, a column line, or both) pass through each cell.
// A cell holds 0 (uncovered), 1 (covered once) or 2 (covered by a row and a
// column line).
type Mask struct {
	n    int
	data []uint8
	rows []bool
	cols []bool
}

// NewMask creates an n×n mask with every cell uncovered.
func NewMask(n int) (*Mask, error) {
	if n <= 0 {
		return nil, fmt.Errorf("NewMask(%d): %w", n, ErrBadShape)
	}
	return &Mask{
		n:    n,
		data: make([]uint8, n*n),
		rows: make([]bool, n),
		cols: make([]bool, n),
	}, nil
}

// Size returns n.
func (k *Mask) Size() int { return k.n }

// At returns the coverage count of cell (i, j).
func (k *Mask) At(i, j int) uint8 { return k.data[i*k.n+j] }

// Row returns row i of the mask as a view into the backing buffer.
func (k *Mask) Row(i int) []uint8 {
	off := i * k.n
	return k.data[off : off+k.n : off+k.n]
}

// CoverRow draws a line through row i.
func (k *Mask) CoverRow(i int) {
	row := k.Row(i)
	for j := range row {
		row[j]++
	}
	k.rows[i] = true
}

// CoverCol draws a line through column j.
func (k *Mask) CoverCol(j int) {
	for i := 0; i < k.n; i++ {
		k.data[i*k.n+j]++
	}
	k.cols[j] = true
}

// RowCovered reports whether a line was drawn through row i.
func (k *Mask) RowCovered(i int) bool { return k.rows[i] }

// ColCovered reports whether a line was drawn through column j.
func (k *Mask) ColCovered(j int) bool { return k.cols[j] }

// Lines returns the number of lines drawn since the last reset.
func (k *Mask) Lines() int {
	lines := 0
	for i := 0; i < k.n; i++ {
		if k.rows[i] {
			lines++
		}
		if k.cols[i] {
			lines++
		}
	}
	return lines
}

// Reset clears every line.
func (k *Mask) Reset() {
	clear(k.data)
	clear(k.rows)
	clear(k.cols)
}
