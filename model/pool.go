package model

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// workerPool runs contiguous index ranges on a bounded set of goroutines.
// Every run call is a barrier: it returns once all ranges are done.
type workerPool struct {
	size int
	pool *ants.Pool
}

func newWorkerPool(size int) (*workerPool, error) {
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &workerPool{
		size: size,
		pool: pool,
	}, nil
}

func (p *workerPool) release() {
	p.pool.Release()
}

// chunks returns how many ranges a run over n items is split into.
func (p *workerPool) chunks(n int) int {
	c := p.size * 4
	if c > n {
		c = n
	}
	if c < 1 {
		c = 1
	}
	return c
}

// run splits [0, n) into at most chunks contiguous ranges and calls fn for
// each of them concurrently. fn receives the range number, which callers
// use to index per-range partial results.
func (p *workerPool) run(n, chunks int, fn func(c, lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	if chunks < 1 {
		chunks = 1
	}
	step := (n + chunks - 1) / chunks

	var (
		wg   sync.WaitGroup
		once sync.Once
		err  error
	)
	fail := func(e error) {
		once.Do(func() { err = e })
	}

	for c := 0; c*step < n; c += 1 {
		c, lo, hi := c, c*step, (c+1)*step
		if hi > n {
			hi = n
		}
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("model: worker panicked on range [%d, %d): %v", lo, hi, r))
				}
			}()
			fn(c, lo, hi)
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
		}
	}
	wg.Wait()

	return err
}
