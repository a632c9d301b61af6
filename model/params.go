package model

import (
	"fmt"
	"math"
)

// Params is the parameter set of a diagonal Gaussian mixture with K
// clusters over M dimensions.
type Params struct {
	// mixture weights, length K
	Weights []float64
	// cluster means, K vectors of length M
	Means [][]float64
	// diagonal covariance entries, K vectors of length M
	Variances [][]float64
}

// number of clusters
func (p *Params) K() int {
	return len(p.Weights)
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	c := &Params{
		Weights:   append([]float64(nil), p.Weights...),
		Means:     make([][]float64, len(p.Means)),
		Variances: make([][]float64, len(p.Variances)),
	}
	for k := range p.Means {
		c.Means[k] = append([]float64(nil), p.Means[k]...)
	}
	for k := range p.Variances {
		c.Variances[k] = append([]float64(nil), p.Variances[k]...)
	}
	return c
}

// Validate checks that p describes at least one cluster, that the three
// parameter lists agree on K, that every vector has length dim and that
// every variance is strictly positive.
func (p *Params) Validate(dim int) error {
	if p == nil {
		return fmt.Errorf("%w: nil parameters", ErrShapeMismatch)
	}
	k := len(p.Weights)
	if k == 0 {
		return fmt.Errorf("%w: no clusters", ErrShapeMismatch)
	}
	if len(p.Means) != k || len(p.Variances) != k {
		return fmt.Errorf("%w: %d weights, %d means, %d variances",
			ErrShapeMismatch, k, len(p.Means), len(p.Variances))
	}
	for c := 0; c < k; c += 1 {
		if len(p.Means[c]) != dim {
			return fmt.Errorf("%w: mean %d has length %d, want %d",
				ErrShapeMismatch, c, len(p.Means[c]), dim)
		}
		if len(p.Variances[c]) != dim {
			return fmt.Errorf("%w: variance %d has length %d, want %d",
				ErrShapeMismatch, c, len(p.Variances[c]), dim)
		}
		for j, v := range p.Variances[c] {
			if !(v > 0) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: cluster %d dimension %d has %v",
					ErrNonPositiveVariance, c, j, v)
			}
		}
	}
	return nil
}

// raise every variance below floor to floor
func (p *Params) applyFloor(floor float64) {
	for _, variance := range p.Variances {
		for j, v := range variance {
			if !(v >= floor) {
				variance[j] = floor
			}
		}
	}
}
