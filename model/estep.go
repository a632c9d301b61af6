package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/bobonovski/gomm/matrix"
)

// EStep computes the N x K responsibility matrix for the current
// parameters together with the total data log-likelihood. Each row of the
// responsibility matrix sums to one.
func (em *EM) EStep(x *matrix.CSR, p *Params) (*mat.Dense, float64, error) {
	_, m := x.Dims()
	if err := p.Validate(m); err != nil {
		return nil, 0, err
	}
	return em.estep(x, p)
}

// estep skips validation, the driver has validated p once up front.
func (em *EM) estep(x *matrix.CSR, p *Params) (*mat.Dense, float64, error) {
	t, err := em.precompute(p)
	if err != nil {
		return nil, 0, err
	}

	n, _ := x.Dims()
	k := p.K()
	logWeights := make([]float64, k)
	for c, w := range p.Weights {
		logWeights[c] = math.Log(w)
	}

	resp := mat.NewDense(n, k, nil)
	chunks := em.pool.chunks(n)
	partial := make([]float64, chunks)
	err = em.pool.run(n, chunks, func(c, lo, hi int) {
		ll := 0.0
		for i := lo; i < hi; i += 1 {
			row := x.Row(i)
			dst := resp.RawRowView(i)
			for k := range dst {
				dst[k] = logWeights[k] + t.logDensity(row, k)
			}
			// log-sum-exp subtracts the row maximum before exponentiating
			lse := floats.LogSumExp(dst)
			for k := range dst {
				dst[k] = math.Exp(dst[k] - lse)
			}
			ll += lse
		}
		partial[c] = ll
	})
	if err != nil {
		return nil, 0, err
	}

	// partials are summed in range order so the result does not depend on
	// goroutine scheduling
	ll := floats.Sum(partial)
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		return nil, 0, fmt.Errorf("%w: log-likelihood is %v", ErrNumericalAnomaly, ll)
	}
	return resp, ll, nil
}

// Predict returns the responsibilities of a fitted parameter set for the
// documents in x.
func (em *EM) Predict(x *matrix.CSR, p *Params) (*mat.Dense, error) {
	resp, _, err := em.EStep(x, p)
	return resp, err
}

// Assignments returns the most responsible cluster of every document.
func Assignments(resp mat.Matrix) []int {
	n, k := resp.Dims()
	out := make([]int, n)
	row := make([]float64, k)
	for i := 0; i < n; i += 1 {
		mat.Row(row, i, resp)
		out[i] = floats.MaxIdx(row)
	}
	return out
}
