package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/bobonovski/gomm/matrix"
)

// MStep re-estimates the weights, means and variances of p in place from
// the responsibility matrix resp. Variances below the configured floor are
// replaced by the floor. A cluster whose soft count is below minSoftCount
// keeps its mean and variance and gets weight zero.
func (em *EM) MStep(x *matrix.CSR, resp *mat.Dense, p *Params) error {
	n, m := x.Dims()
	if err := p.Validate(m); err != nil {
		return err
	}
	if rn, rk := resp.Dims(); rn != n || rk != p.K() {
		return fmt.Errorf("%w: responsibilities are %dx%d, want %dx%d",
			ErrShapeMismatch, rn, rk, n, p.K())
	}
	return em.mstep(x, resp, p)
}

// soft counts below this are treated as an empty cluster
const minSoftCount = 1e-12

func (em *EM) mstep(x *matrix.CSR, resp *mat.Dense, p *Params) error {
	n, m := x.Dims()
	k := p.K()
	floor := em.cfg.VarianceFloor

	counts := make([]float64, k)
	err := em.pool.run(k, k, func(_, lo, hi int) {
		w := make([]float64, n)
		s1 := make([]float64, m)
		s2 := make([]float64, m)
		for c := lo; c < hi; c += 1 {
			mat.Col(w, c, resp)
			nk := floats.Sum(w)
			if !(nk >= minSoftCount) {
				continue
			}
			counts[c] = nk

			x.WeightedColumnSums(s1, w)
			x.WeightedSquareColumnSums(s2, w)

			// E[(x-mu)^2] = E[x^2] - 2 mu E[x] + mu^2, so rows are never centered
			mean, variance := p.Means[c], p.Variances[c]
			for j := range mean {
				mu := s1[j] / nk
				v := (s2[j]-2*mu*s1[j])/nk + mu*mu
				if !(v >= floor) {
					v = floor
				}
				mean[j] = mu
				variance[j] = v
			}
		}
	})
	if err != nil {
		return err
	}

	total := floats.Sum(counts)
	for c := range counts {
		p.Weights[c] = counts[c] / total
	}
	return nil
}
