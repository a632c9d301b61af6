package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bobonovski/gomm/matrix"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	cfg.StrictMonotonic = true
	return cfg
}

func newTestEM(t *testing.T, cfg Config) *EM {
	em, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(em.Close)
	return em
}

func buildCSR(t *testing.T, m int, rows [][]float64) *matrix.CSR {
	b := matrix.NewBuilder(m)
	for _, row := range rows {
		var (
			cols []int
			vals []float64
		)
		for j, v := range row {
			if v != 0 {
				cols = append(cols, j)
				vals = append(vals, v)
			}
		}
		b.AddRow(cols, vals)
	}
	x, err := b.Build()
	require.NoError(t, err)
	return x
}

// n x m non-negative rows where each entry is nonzero with probability density
func randomSparse(t *testing.T, rng *rand.Rand, n, m int, density float64) *matrix.CSR {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, m)
		for j := range rows[i] {
			if rng.Float64() < density {
				rows[i][j] = 0.05 + rng.Float64()
			}
		}
	}
	return buildCSR(t, m, rows)
}

// documents drawn from isotropic Gaussians around means, counts[c] of
// them from cluster c, in cluster order
func mixtureData(t *testing.T, rng *rand.Rand, counts []int, means [][]float64, sd float64) *matrix.CSR {
	var rows [][]float64
	for c, cnt := range counts {
		for i := 0; i < cnt; i += 1 {
			row := make([]float64, len(means[c]))
			for j, mu := range means[c] {
				row[j] = mu + sd*rng.NormFloat64()
			}
			rows = append(rows, row)
		}
	}
	return buildCSR(t, len(means[0]), rows)
}

func randomParams(rng *rand.Rand, k, m int) *Params {
	p := &Params{
		Weights:   make([]float64, k),
		Means:     make([][]float64, k),
		Variances: make([][]float64, k),
	}
	for c := 0; c < k; c += 1 {
		p.Weights[c] = 1 / float64(k)
		p.Means[c] = make([]float64, m)
		p.Variances[c] = make([]float64, m)
		for j := 0; j < m; j += 1 {
			p.Means[c][j] = rng.Float64()
			p.Variances[c][j] = 0.5 + 1.5*rng.Float64()
		}
	}
	return p
}

func constParams(means [][]float64, variance float64) *Params {
	k := len(means)
	p := &Params{
		Weights:   make([]float64, k),
		Means:     make([][]float64, k),
		Variances: make([][]float64, k),
	}
	for c := range means {
		p.Weights[c] = 1 / float64(k)
		p.Means[c] = append([]float64(nil), means[c]...)
		p.Variances[c] = make([]float64, len(means[c]))
		for j := range p.Variances[c] {
			p.Variances[c][j] = variance
		}
	}
	return p
}

// dense reference of the diagonal Gaussian log-density
func denseLogDensity(x, mean, variance []float64) float64 {
	ld := 0.0
	for j := range x {
		ld += distuv.Normal{Mu: mean[j], Sigma: math.Sqrt(variance[j])}.LogProb(x[j])
	}
	return ld
}

func euclidean(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += (a[i] - b[i]) * (a[i] - b[i])
	}
	return math.Sqrt(s)
}
