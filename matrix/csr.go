package matrix

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// CSR is a read-only sparse matrix in compressed row layout backed by a
// sparse.CSR. The column indices of row i are indices[indptr[i]:indptr[i+1]]
// and the matching values are data[indptr[i]:indptr[i+1]]. Documents are
// rows and features are columns.
type CSR struct {
	raw     *sparse.CSR
	nrow    int
	ncol    int
	indptr  []int
	indices []int
	data    []float64
}

func wrap(r, c int, raw *sparse.CSR) *CSR {
	rm := raw.RawMatrix()
	return &CSR{
		raw:     raw,
		nrow:    r,
		ncol:    c,
		indptr:  rm.Indptr,
		indices: rm.Ind,
		data:    rm.Data,
	}
}

// NewCSR creates a CSR matrix with r rows and c columns from raw compressed
// row arrays. The arrays are used as the underlying storage and must not be
// modified afterwards. Column indices within a row must be strictly
// increasing and explicit zeros are not allowed.
func NewCSR(r, c int, indptr, indices []int, data []float64) (*CSR, error) {
	if r <= 0 || c <= 0 {
		return nil, ErrBadShape
	}
	if len(indptr) != r+1 || indptr[0] != 0 || len(indices) != len(data) || indptr[r] != len(data) {
		return nil, fmt.Errorf("%w: indptr %d, indices %d, data %d for %d rows",
			ErrBadLength, len(indptr), len(indices), len(data), r)
	}
	for i := 0; i < r; i += 1 {
		lo, hi := indptr[i], indptr[i+1]
		if lo > hi {
			return nil, fmt.Errorf("%w: row %d has decreasing offsets", ErrBadLength, i)
		}
		for p := lo; p < hi; p += 1 {
			j := indices[p]
			if j < 0 || j >= c {
				return nil, fmt.Errorf("%w: row %d column %d", ErrIndexOutOfRange, i, j)
			}
			if p > lo && j <= indices[p-1] {
				return nil, fmt.Errorf("%w: row %d columns not strictly increasing", ErrIndexOutOfRange, i)
			}
			if data[p] == 0 || math.IsNaN(data[p]) || math.IsInf(data[p], 0) {
				return nil, fmt.Errorf("matrix: row %d column %d holds invalid value %v", i, j, data[p])
			}
		}
	}
	return wrap(r, c, sparse.NewCSR(r, c, indptr, indices, data)), nil
}

// Matrix returns m as a gonum matrix sharing its storage.
func (m *CSR) Matrix() mat.Matrix {
	return m.raw
}

// get the shape of the matrix
func (m *CSR) Dims() (int, int) {
	return m.nrow, m.ncol
}

// number of stored nonzero entries
func (m *CSR) NNZ() int {
	return len(m.data)
}

// Row returns a view of the r-th row. The view shares storage with m.
func (m *CSR) Row(r int) SparseRow {
	if r < 0 || r >= m.nrow {
		panic(ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[r], m.indptr[r+1]
	return SparseRow{
		Indices: m.indices[lo:hi],
		Values:  m.data[lo:hi],
	}
}

// get the [r, c]-th element of the matrix
func (m *CSR) At(r, c int) float64 {
	if r < 0 || r >= m.nrow || c < 0 || c >= m.ncol {
		panic(ErrIndexOutOfRange)
	}
	return m.raw.At(r, c)
}

// WeightedColumnSums stores in dst, for every column j, the sum over rows
// of w[i] * m[i, j]. The cost is proportional to the number of nonzeros.
// If dst is nil a new slice is allocated.
func (m *CSR) WeightedColumnSums(dst, w []float64) []float64 {
	dst = m.prepareColumnSums(dst, w)
	for i := 0; i < m.nrow; i += 1 {
		wi := w[i]
		if wi == 0 {
			continue
		}
		for p := m.indptr[i]; p < m.indptr[i+1]; p += 1 {
			dst[m.indices[p]] += wi * m.data[p]
		}
	}
	return dst
}

// WeightedSquareColumnSums is WeightedColumnSums applied to the element-wise
// square of m, without materializing the squared matrix.
func (m *CSR) WeightedSquareColumnSums(dst, w []float64) []float64 {
	dst = m.prepareColumnSums(dst, w)
	for i := 0; i < m.nrow; i += 1 {
		wi := w[i]
		if wi == 0 {
			continue
		}
		for p := m.indptr[i]; p < m.indptr[i+1]; p += 1 {
			v := m.data[p]
			dst[m.indices[p]] += wi * v * v
		}
	}
	return dst
}

func (m *CSR) prepareColumnSums(dst, w []float64) []float64 {
	if len(w) != m.nrow {
		panic(ErrBadLength)
	}
	if dst == nil {
		return make([]float64, m.ncol)
	}
	if len(dst) != m.ncol {
		panic(ErrBadLength)
	}
	for j := range dst {
		dst[j] = 0
	}
	return dst
}

// NormalizeRows returns a copy of m whose rows have unit Euclidean norm.
// Rows without nonzero entries are kept empty.
func (m *CSR) NormalizeRows() *CSR {
	data := make([]float64, len(m.data))
	for i := 0; i < m.nrow; i += 1 {
		lo, hi := m.indptr[i], m.indptr[i+1]
		norm := m.Row(i).Norm()
		for p := lo; p < hi; p += 1 {
			data[p] = m.data[p] / norm
		}
	}
	return wrap(m.nrow, m.ncol, sparse.NewCSR(m.nrow, m.ncol, m.indptr, m.indices, data))
}

// Dense expands m into row major dense rows. It is meant for small matrices
// only, e.g. for checking sparse results against a dense computation.
func (m *CSR) Dense() [][]float64 {
	rows := make([][]float64, m.nrow)
	for i := range rows {
		rows[i] = make([]float64, m.ncol)
		row := m.Row(i)
		for p, j := range row.Indices {
			rows[i][j] = row.Values[p]
		}
	}
	return rows
}
