package matrix

import "sort"

// Builder accumulates rows from (column, value) pairs and produces a CSR
// matrix. Pairs may be added in any column order; duplicated columns in a
// row are summed and zero values are dropped.
type Builder struct {
	ncol    int
	indptr  []int
	indices []int
	data    []float64
}

// NewBuilder creates a builder for a matrix with c columns. c may be zero
// in which case the number of columns is inferred from the largest column
// index seen.
func NewBuilder(c int) *Builder {
	return &Builder{
		ncol:   c,
		indptr: []int{0},
	}
}

// AddRow appends a row. cols and vals must have the same length.
func (b *Builder) AddRow(cols []int, vals []float64) {
	if len(cols) != len(vals) {
		panic(ErrBadLength)
	}
	order := make([]int, len(cols))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return cols[order[x]] < cols[order[y]]
	})

	start := len(b.indices)
	for _, o := range order {
		j, v := cols[o], vals[o]
		if j < 0 {
			panic(ErrIndexOutOfRange)
		}
		if n := len(b.indices); n > start && b.indices[n-1] == j {
			b.data[n-1] += v
			continue
		}
		b.indices = append(b.indices, j)
		b.data = append(b.data, v)
	}

	// drop zeros, including the ones produced by summing duplicates
	w := start
	for p := start; p < len(b.indices); p += 1 {
		if b.data[p] != 0 {
			b.indices[w] = b.indices[p]
			b.data[w] = b.data[p]
			w += 1
		}
	}
	b.indices = b.indices[:w]
	b.data = b.data[:w]
	b.indptr = append(b.indptr, w)
}

// SetCols fixes the number of columns of the built matrix.
func (b *Builder) SetCols(c int) {
	b.ncol = c
}

// number of rows added so far
func (b *Builder) Rows() int {
	return len(b.indptr) - 1
}

// Build validates the accumulated rows and returns the matrix.
func (b *Builder) Build() (*CSR, error) {
	c := b.ncol
	if c == 0 {
		for _, j := range b.indices {
			if j+1 > c {
				c = j + 1
			}
		}
	}
	return NewCSR(b.Rows(), c, b.indptr, b.indices, b.data)
}
