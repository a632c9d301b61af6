package model

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/bobonovski/gomm/matrix"
)

const (
	// documents used as means already sit on the data, so the floor can be tight
	sampleFloor = 1e-10
	randomFloor = 1e-5
)

func init() {
	Register("sample", Initializer{Init: SampleInit, Floor: sampleFloor})
	Register("random", Initializer{Init: RandomInit, Floor: randomFloor})
}

// SampleInit seeds the means with k distinct documents picked at random,
// every variance with the corpus variance of its dimension and uniform
// weights.
func SampleInit(x *matrix.CSR, k int, seed uint64) (*Params, error) {
	n, m := x.Dims()
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: %d clusters for %d documents", ErrShapeMismatch, k, n)
	}
	rng := rand.New(rand.NewSource(seed))

	p := uniformParams(x, k, sampleFloor)
	for c, doc := range rng.Perm(n)[:k] {
		row := x.Row(doc)
		mean := make([]float64, m)
		for q, j := range row.Indices {
			mean[j] = row.Values[q]
		}
		p.Means[c] = mean
	}
	return p, nil
}

// RandomInit seeds the means with random non-negative unit vectors, every
// variance with the corpus variance of its dimension and uniform weights.
func RandomInit(x *matrix.CSR, k int, seed uint64) (*Params, error) {
	_, m := x.Dims()
	if k < 1 {
		return nil, fmt.Errorf("%w: %d clusters", ErrShapeMismatch, k)
	}
	rng := rand.New(rand.NewSource(seed))

	p := uniformParams(x, k, randomFloor)
	for c := range p.Means {
		mean := make([]float64, m)
		for j := range mean {
			mean[j] = rng.Float64()
		}
		floats.Scale(1/floats.Norm(mean, 2), mean)
		p.Means[c] = mean
	}
	return p, nil
}

// uniformParams returns uniform weights and the corpus variance, bounded
// below by floor, for every cluster. Means are left for the caller.
func uniformParams(x *matrix.CSR, k int, floor float64) *Params {
	n, _ := x.Dims()
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	mean := x.WeightedColumnSums(nil, w)
	variance := x.WeightedSquareColumnSums(nil, w)
	for j, mu := range mean {
		variance[j] -= mu * mu
		if !(variance[j] >= floor) {
			variance[j] = floor
		}
	}

	p := &Params{
		Weights:   make([]float64, k),
		Means:     make([][]float64, k),
		Variances: make([][]float64, k),
	}
	for c := 0; c < k; c += 1 {
		p.Weights[c] = 1 / float64(k)
		p.Variances[c] = append([]float64(nil), variance...)
	}
	return p
}
