// SPDX-License-Identifier: MIT
// Package matrix provides core linear algebra primitives for array-based computations.
// Dense is a concrete, row-major implementation of the Matrix interface,
// storing elements in a flat slice for performance and cache friendliness.
package matrix

import (
	"fmt"
	"strings"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure rows and cols > 0.
// Stage 2 (Prepare): allocate flat backing slice.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFromRows copies a slice of equal-length rows into a fresh Dense.
// Stage 1 (Validate): at least one row, at least one column, no ragged rows.
// Stage 2 (Execute): copy each row into its row-major slot.
// Complexity: O(r*c).
//
// Errors: ErrInvalidDimensions for empty input, ErrRaggedRows when row
// lengths differ.
func NewDenseFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	r, c := len(rows), len(rows[0])
	m := &Dense{r: r, c: c, data: make([]float64, r*c)}
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("NewDenseFromRows: row %d has %d values, want %d: %w", i, len(row), c, ErrRaggedRows)
		}
		copy(m.data[i*c:(i+1)*c], row)
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Row returns a copy of row i.
// Complexity: O(c).
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf("Row", i, 0, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// Clone returns a deep copy of the Dense matrix.
// Complexity: O(r*c) time and memory for copy.
func (m *Dense) Clone() Matrix {
	copyData := make([]float64, len(m.data))
	copy(copyData, m.data)

	return &Dense{r: m.r, c: m.c, data: copyData}
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(r*c) for string construction.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// toDense returns m itself when it already is a *Dense, otherwise a Dense
// copy read through At. Kernels that mutate a working copy always Clone first.
func toDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}
