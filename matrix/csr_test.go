package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// 3x4 matrix
//
//	[1 0 2 0]
//	[0 0 0 3]
//	[4 5 0 0]
func testMatrix(t *testing.T) *CSR {
	m, err := NewCSR(3, 4,
		[]int{0, 2, 3, 5},
		[]int{0, 2, 3, 0, 1},
		[]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	return m
}

func TestCSRShape(t *testing.T) {
	m := testMatrix(t)

	r, c := m.Dims()

	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 5, m.NNZ())
}

func TestCSRAt(t *testing.T) {
	m := testMatrix(t)

	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 2.0, m.At(0, 2))
	assert.Equal(t, 3.0, m.At(1, 3))
	assert.Equal(t, 5.0, m.At(2, 1))
	assert.Equal(t, 0.0, m.At(2, 3))
	assert.Panics(t, func() { m.At(3, 0) })
}

func TestCSRMatrix(t *testing.T) {
	m := testMatrix(t)

	g := m.Matrix()
	r, c := g.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, []float64{1, 0, 4}, mat.Col(nil, 0, g))
	assert.Equal(t, []float64{4, 5, 0, 0}, mat.Row(nil, 2, g))
}

func TestNewCSRRejectsBadInput(t *testing.T) {
	_, err := NewCSR(0, 4, []int{0}, nil, nil)
	assert.ErrorIs(t, err, ErrBadShape)

	_, err = NewCSR(1, 4, []int{0, 2}, []int{0}, []float64{1})
	assert.ErrorIs(t, err, ErrBadLength)

	_, err = NewCSR(1, 4, []int{0, 1}, []int{4}, []float64{1})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = NewCSR(1, 4, []int{0, 2}, []int{2, 1}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = NewCSR(1, 4, []int{0, 1}, []int{1}, []float64{0})
	assert.Error(t, err)
}

func TestWeightedColumnSums(t *testing.T) {
	m := testMatrix(t)
	w := []float64{0.5, 2, 1}

	sums := m.WeightedColumnSums(nil, w)
	assert.InDeltaSlice(t, []float64{0.5 + 4, 5, 1, 6}, sums, 1e-12)

	sq := m.WeightedSquareColumnSums(nil, w)
	assert.InDeltaSlice(t, []float64{0.5 + 16, 25, 2, 18}, sq, 1e-12)

	// dst is reset before accumulating
	dst := []float64{9, 9, 9, 9}
	m.WeightedColumnSums(dst, w)
	assert.InDeltaSlice(t, sums, dst, 1e-12)

	assert.Panics(t, func() { m.WeightedColumnSums(nil, []float64{1}) })
}

func TestWeightedColumnSumsMatchesDense(t *testing.T) {
	m := testMatrix(t)
	w := []float64{0.1, 0.7, 0.2}

	dense := m.Dense()
	want := make([]float64, 4)
	for i, row := range dense {
		for j, v := range row {
			want[j] += w[i] * v
		}
	}

	assert.InDeltaSlice(t, want, m.WeightedColumnSums(nil, w), 1e-12)
}

func TestNormalizeRows(t *testing.T) {
	m := testMatrix(t)

	n := m.NormalizeRows()
	for i := 0; i < 3; i += 1 {
		assert.InDelta(t, 1.0, n.Row(i).Norm(), 1e-12)
	}
	// original is untouched
	assert.Equal(t, 4.0, m.At(2, 0))
	assert.InDelta(t, 4/math.Sqrt(41), n.At(2, 0), 1e-12)
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(0)
	b.AddRow([]int{2, 0, 2}, []float64{1, 1, 1})
	b.AddRow([]int{3}, []float64{0})
	b.AddRow([]int{1, 1}, []float64{2, -2})
	b.AddRow([]int{5, 4}, []float64{1, 2})

	m, err := b.Build()
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 6, c)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 2.0, m.At(0, 2))
	assert.Equal(t, 0, m.Row(1).Nnz())
	assert.Equal(t, 0, m.Row(2).Nnz())
	assert.Equal(t, []int{4, 5}, m.Row(3).Indices)
	assert.Equal(t, []float64{2, 1}, m.Row(3).Values)
}
