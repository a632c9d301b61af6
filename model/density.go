package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/bobonovski/gomm/matrix"
)

var log2Pi = math.Log(2 * math.Pi)

// clusterTerms holds the per-cluster quantities the sparse log-density
// needs. They depend on the parameters only and are rebuilt once per
// iteration.
//
// For a diagonal Gaussian the log-density of x splits into the value it
// would have if every x_j were zero,
//
//	zero[k] = -1/2 sum_j (mu_kj^2 / var_kj + log(2 pi var_kj))
//
// plus a correction over the nonzero dimensions of x only,
//
//	-1/2 sum_j x_j^2 / var_kj + sum_j x_j mu_kj / var_kj
//
// so a document costs O(nnz) per cluster instead of O(M).
type clusterTerms struct {
	zero        []float64
	invVar      [][]float64
	meanOverVar [][]float64
}

func (em *EM) precompute(p *Params) (*clusterTerms, error) {
	k := p.K()
	t := &clusterTerms{
		zero:        make([]float64, k),
		invVar:      make([][]float64, k),
		meanOverVar: make([][]float64, k),
	}
	err := em.pool.run(k, k, func(_, lo, hi int) {
		for c := lo; c < hi; c += 1 {
			mean, variance := p.Means[c], p.Variances[c]
			inv := make([]float64, len(mean))
			mov := make([]float64, len(mean))
			zero := 0.0
			for j, mu := range mean {
				inv[j] = 1 / variance[j]
				mov[j] = mu * inv[j]
				zero += mu*mov[j] + log2Pi + math.Log(variance[j])
			}
			t.zero[c] = -0.5 * zero
			t.invVar[c] = inv
			t.meanOverVar[c] = mov
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// log N(x; mu_k, diag(var_k)) for a single document
func (t *clusterTerms) logDensity(row matrix.SparseRow, k int) float64 {
	return t.zero[k] - 0.5*row.SquareDot(t.invVar[k]) + row.Dot(t.meanOverVar[k])
}

// LogDensity returns the N x K matrix whose [i, k]-th element is the log
// of the diagonal Gaussian density of cluster k at document i.
func (em *EM) LogDensity(x *matrix.CSR, p *Params) (*mat.Dense, error) {
	n, m := x.Dims()
	if err := p.Validate(m); err != nil {
		return nil, err
	}
	t, err := em.precompute(p)
	if err != nil {
		return nil, err
	}

	k := p.K()
	out := mat.NewDense(n, k, nil)
	err = em.pool.run(n, em.pool.chunks(n), func(_, lo, hi int) {
		for i := lo; i < hi; i += 1 {
			row := x.Row(i)
			dst := out.RawRowView(i)
			for c := 0; c < k; c += 1 {
				dst[c] = t.logDensity(row, c)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
