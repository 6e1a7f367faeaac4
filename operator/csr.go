// SPDX-License-Identifier: MIT
// Package operator: compressed sparse row storage.
//
// CSR is the materialized sparse kind consumed by the sparse LU backend. The
// structure (RowPtr/ColIdx) is what the symbolic phase of that backend pins;
// PatternEqual is the canonical structural comparison used to diagnose a
// violated reuse assumption.

package operator

// CSR is a rows-by-cols sparse matrix in compressed sparse row form.
//
// Invariants enforced at construction:
//   - len(rowPtr) == rows+1, rowPtr[0] == 0, rowPtr monotone non-decreasing,
//     rowPtr[rows] == len(colIdx) == len(values);
//   - within each row, column indices are strictly increasing and in range.
//
// The backing slices are shared, not copied. Mutating values in place is the
// supported cheap-update path (same pattern, new coefficients); mutating the
// structure of a bound operator is undefined behavior.
type CSR struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	values     []float64
}

// NewCSR validates and wraps a CSR structure.
//
// Implementation:
//   - Stage 1: shape and slice-length checks (ErrBadShape).
//   - Stage 2: one pass over rowPtr and per-row column scans enforcing the
//     structural invariants (ErrBadPattern).
//
// Complexity: O(nnz).
func NewCSR(rows, cols int, rowPtr, colIdx []int, values []float64) (*CSR, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadShape
	}
	if len(rowPtr) != rows+1 || len(colIdx) != len(values) {
		return nil, ErrBadShape
	}
	if rowPtr[0] != 0 || rowPtr[rows] != len(colIdx) {
		return nil, ErrBadPattern
	}
	for i := 0; i < rows; i++ {
		if rowPtr[i] > rowPtr[i+1] {
			return nil, ErrBadPattern
		}
		prev := -1
		for p := rowPtr[i]; p < rowPtr[i+1]; p++ {
			j := colIdx[p]
			if j < 0 || j >= cols || j <= prev {
				return nil, ErrBadPattern
			}
			prev = j
		}
	}

	return &CSR{rows: rows, cols: cols, rowPtr: rowPtr, colIdx: colIdx, values: values}, nil
}

// CSRFromTriplets assembles a CSR matrix from coordinate triplets.
// Duplicate (i,j) entries are summed; rows and columns out of range surface
// ErrOutOfRange. Deterministic: output columns are sorted ascending per row
// regardless of input order.
//
// Complexity: O(nnz log nnz) dominated by per-row ordering.
func CSRFromTriplets(rows, cols int, is, js []int, vs []float64) (*CSR, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadShape
	}
	if len(is) != len(js) || len(js) != len(vs) {
		return nil, ErrBadShape
	}

	// Accumulate per row into column maps; duplicates sum.
	rowsAcc := make([]map[int]float64, rows)
	for k := range is {
		i, j := is[k], js[k]
		if i < 0 || i >= rows || j < 0 || j >= cols {
			return nil, ErrOutOfRange
		}
		if rowsAcc[i] == nil {
			rowsAcc[i] = make(map[int]float64)
		}
		rowsAcc[i][j] += vs[k]
	}

	// Lay out CSR with sorted columns per row (insertion sort keeps the
	// common small-row case allocation-free beyond the output slices).
	nnz := 0
	for i := range rowsAcc {
		nnz += len(rowsAcc[i])
	}
	rowPtr := make([]int, rows+1)
	colIdx := make([]int, 0, nnz)
	values := make([]float64, 0, nnz)
	for i := 0; i < rows; i++ {
		start := len(colIdx)
		for j := range rowsAcc[i] {
			// insert j keeping colIdx[start:] sorted
			pos := len(colIdx)
			for pos > start && colIdx[pos-1] > j {
				pos--
			}
			colIdx = append(colIdx, 0)
			values = append(values, 0)
			copy(colIdx[pos+1:], colIdx[pos:])
			copy(values[pos+1:], values[pos:])
			colIdx[pos] = j
			values[pos] = rowsAcc[i][j]
		}
		rowPtr[i+1] = len(colIdx)
	}

	return &CSR{rows: rows, cols: cols, rowPtr: rowPtr, colIdx: colIdx, values: values}, nil
}

// Dims returns the shape.
func (c *CSR) Dims() (rows, cols int) { return c.rows, c.cols }

// Kind reports KindSparse.
func (c *CSR) Kind() Kind { return KindSparse }

// NNZ returns the number of stored entries.
func (c *CSR) NNZ() int { return len(c.values) }

// Raw exposes the backing structure (rowPtr, colIdx, values) for sparse
// backends. The structure slices must be treated as read-only.
func (c *CSR) Raw() (rowPtr, colIdx []int, values []float64) {
	return c.rowPtr, c.colIdx, c.values
}

// At returns the entry at (i, j); absent positions read as zero.
// Errors: ErrOutOfRange on invalid indices.
// Complexity: O(row nnz).
func (c *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= c.rows || j < 0 || j >= c.cols {
		return 0, ErrOutOfRange
	}
	for p := c.rowPtr[i]; p < c.rowPtr[i+1]; p++ {
		if c.colIdx[p] == j {
			return c.values[p], nil
		}
	}

	return 0, nil
}

// SetValue overwrites the stored entry at (i, j).
// This is the same-pattern mutation path: it never creates a new entry.
// Errors: ErrOutOfRange on invalid indices, ErrBadPattern when (i, j) is not
// part of the stored pattern.
func (c *CSR) SetValue(i, j int, v float64) error {
	if i < 0 || i >= c.rows || j < 0 || j >= c.cols {
		return ErrOutOfRange
	}
	for p := c.rowPtr[i]; p < c.rowPtr[i+1]; p++ {
		if c.colIdx[p] == j {
			c.values[p] = v

			return nil
		}
	}

	return ErrBadPattern
}

// PatternEqual reports whether other has the identical nonzero structure
// (shape, row pointers and column indices). Values are ignored.
// Complexity: O(nnz).
func (c *CSR) PatternEqual(other *CSR) bool {
	if other == nil || c.rows != other.rows || c.cols != other.cols {
		return false
	}
	if len(c.colIdx) != len(other.colIdx) {
		return false
	}
	for i := 0; i <= c.rows; i++ {
		if c.rowPtr[i] != other.rowPtr[i] {
			return false
		}
	}
	for p := range c.colIdx {
		if c.colIdx[p] != other.colIdx[p] {
			return false
		}
	}

	return true
}

// MulVec computes dst = A*x over stored entries only. Complexity: O(nnz).
func (c *CSR) MulVec(dst, x []float64) error {
	if err := ValidateMulVec(dst, x, c.rows, c.cols); err != nil {
		return err
	}
	for i := 0; i < c.rows; i++ {
		acc := 0.0
		for p := c.rowPtr[i]; p < c.rowPtr[i+1]; p++ {
			acc += c.values[p] * x[c.colIdx[p]]
		}
		dst[i] = acc
	}

	return nil
}
