package matrix

import "math"

// SparseRow is a sparse vector stored as parallel index/value slices with
// strictly increasing indices.
type SparseRow struct {
	Indices []int
	Values  []float64
}

// number of nonzero entries
func (r SparseRow) Nnz() int {
	return len(r.Indices)
}

// Dot computes sum_j r[j] * dense[j] over the nonzero entries of r.
func (r SparseRow) Dot(dense []float64) float64 {
	sum := 0.0
	for p, j := range r.Indices {
		sum += r.Values[p] * dense[j]
	}
	return sum
}

// SquareDot computes sum_j r[j]^2 * dense[j] over the nonzero entries of r.
func (r SparseRow) SquareDot(dense []float64) float64 {
	sum := 0.0
	for p, j := range r.Indices {
		v := r.Values[p]
		sum += v * v * dense[j]
	}
	return sum
}

// Euclidean norm of the row
func (r SparseRow) Norm() float64 {
	sum := 0.0
	for _, v := range r.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}
