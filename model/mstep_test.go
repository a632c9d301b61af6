package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestMStepMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cfg := testConfig()
	em := newTestEM(t, cfg)

	x := randomSparse(t, rng, 20, 6, 0.5)
	p := randomParams(rng, 3, 6)
	resp, _, err := em.EStep(x, p)
	require.NoError(t, err)

	require.NoError(t, em.MStep(x, resp, p))

	assert.InDelta(t, 1.0, floats.Sum(p.Weights), 1e-9)
	dense := x.Dense()
	for k := 0; k < 3; k += 1 {
		nk := 0.0
		mean := make([]float64, 6)
		for i, doc := range dense {
			r := resp.At(i, k)
			nk += r
			for j, v := range doc {
				mean[j] += r * v
			}
		}
		floats.Scale(1/nk, mean)

		variance := make([]float64, 6)
		for i, doc := range dense {
			r := resp.At(i, k)
			for j, v := range doc {
				variance[j] += r * (v - mean[j]) * (v - mean[j])
			}
		}
		floats.Scale(1/nk, variance)
		for j := range variance {
			if variance[j] < cfg.VarianceFloor {
				variance[j] = cfg.VarianceFloor
			}
		}

		assert.InDelta(t, nk/20, p.Weights[k], 1e-12)
		assert.InDeltaSlice(t, mean, p.Means[k], 1e-12)
		assert.InDeltaSlice(t, variance, p.Variances[k], 1e-12)
	}
}

func TestMStepAppliesFloor(t *testing.T) {
	cfg := testConfig()
	cfg.VarianceFloor = 1e-5
	em := newTestEM(t, cfg)

	// column 2 never appears and column 1 is constant
	x := buildCSR(t, 3, [][]float64{{0.5, 1, 0}, {0.25, 1, 0}})
	p := constParams([][]float64{{0, 0, 0}}, 1)
	resp := mat.NewDense(2, 1, []float64{1, 1})

	require.NoError(t, em.MStep(x, resp, p))

	assert.Equal(t, []float64{1}, p.Weights)
	assert.InDeltaSlice(t, []float64{0.375, 1, 0}, p.Means[0], 1e-12)
	assert.InDelta(t, 0.015625, p.Variances[0][0], 1e-12)
	assert.Equal(t, 1e-5, p.Variances[0][1])
	assert.Equal(t, 1e-5, p.Variances[0][2])
}

func TestMStepEmptyCluster(t *testing.T) {
	em := newTestEM(t, testConfig())
	x := buildCSR(t, 2, [][]float64{{1, 0}, {0.9, 0.1}})
	p := constParams([][]float64{{1, 0}, {0, 1}}, 0.5)
	resp := mat.NewDense(2, 2, []float64{1, 0, 1, 0})

	require.NoError(t, em.MStep(x, resp, p))

	assert.Equal(t, []float64{1, 0}, p.Weights)
	// the cluster without responsibility keeps its parameters
	assert.Equal(t, []float64{0, 1}, p.Means[1])
	assert.Equal(t, []float64{0.5, 0.5}, p.Variances[1])
	assert.InDeltaSlice(t, []float64{0.95, 0.05}, p.Means[0], 1e-12)
}

func TestMStepUnderflowedCluster(t *testing.T) {
	em := newTestEM(t, testConfig())
	x := buildCSR(t, 2, [][]float64{{1, 0}, {0.9, 0.1}})
	p := constParams([][]float64{{1, 0}, {0, 1}}, 0.5)
	// the second soft count is denormal
	resp := mat.NewDense(2, 2, []float64{1, 1e-310, 1, 1e-310})

	require.NoError(t, em.MStep(x, resp, p))

	assert.Equal(t, []float64{1, 0}, p.Weights)
	assert.Equal(t, []float64{0, 1}, p.Means[1])
	assert.Equal(t, []float64{0.5, 0.5}, p.Variances[1])
}

func TestMStepShapeMismatch(t *testing.T) {
	em := newTestEM(t, testConfig())
	x := buildCSR(t, 2, [][]float64{{1, 0}, {0, 1}})
	p := constParams([][]float64{{1, 0}, {0, 1}}, 0.5)

	err := em.MStep(x, mat.NewDense(3, 2, nil), p)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	err = em.MStep(x, mat.NewDense(2, 1, nil), p)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
