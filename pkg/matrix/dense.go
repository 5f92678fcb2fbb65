// Package matrix provides the flat, row-major buffers the assignment solver
// works on.
//
// [Dense] stores an r×c matrix of float64 values in a single slice with an
// explicit row stride, so a row is a contiguous sub-slice and cloning is one
// copy. [Mask] is the same layout for small uint8 counters and records how
// many covering lines pass through each cell.
//
// Checked accessors ([Dense.At], [Dense.Set]) return sentinel errors and never
// panic on user input. Hot loops use [Dense.Row], which returns a view into
// the backing buffer.
package matrix

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrBadShape is returned when requested dimensions are not positive or
	// input rows are ragged.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)

// Dense is a row-major matrix of float64 values.
// data holds r*c elements; element (i, j) lives at data[i*stride+j].
type Dense struct {
	r, c   int
	stride int
	data   []float64
}

// NewDense creates an r×c matrix initialized to zeros.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}
	return &Dense{r: rows, c: cols, stride: cols, data: make([]float64, rows*cols)}, nil
}

// NewSquare creates an n×n matrix initialized to zeros.
func NewSquare(n int) (*Dense, error) {
	return NewDense(n, n)
}

// FromRows builds a matrix from a slice of equal-length rows.
// Every value must be finite.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("FromRows: %w", ErrBadShape)
	}
	m, err := NewDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.c {
			return nil, fmt.Errorf("FromRows: row %d has %d columns, want %d: %w", i, len(row), m.c, ErrBadShape)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("FromRows(%d,%d): %w", i, j, ErrNaNInf)
			}
		}
		copy(m.Row(i), row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// IsSquare reports whether the matrix has as many rows as columns.
func (m *Dense) IsSquare() bool { return m.r == m.c }

func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, ErrOutOfRange)
	}
	return row*m.stride + col, nil
}

// At returns the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns v at (row, col). Non-finite values are rejected.
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("Dense.Set(%d,%d): %w", row, col, ErrNaNInf)
	}
	m.data[idx] = v
	return nil
}

// Row returns row i as a view into the backing buffer. Writes through the
// returned slice modify the matrix. Row panics if i is out of range.
func (m *Dense) Row(i int) []float64 {
	off := i * m.stride
	return m.data[off : off+m.c : off+m.c]
}

// RowMin returns the smallest value in row i.
func (m *Dense) RowMin(i int) float64 {
	row := m.Row(i)
	lo := row[0]
	for _, v := range row[1:] {
		if v < lo {
			lo = v
		}
	}
	return lo
}

// ColMin returns the smallest value in column j.
func (m *Dense) ColMin(j int) float64 {
	lo := m.data[j]
	for i := 1; i < m.r; i++ {
		if v := m.data[i*m.stride+j]; v < lo {
			lo = v
		}
	}
	return lo
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Dense{r: m.r, c: m.c, stride: m.stride, data: data}
}

// String renders one bracketed row per line.
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteByte('[')
		for j, v := range m.Row(i) {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", v)
		}
		b.WriteString("]\n")
	}
	return b.String()
}
