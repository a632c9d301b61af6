package model

import (
	"context"
	"fmt"
	"math"
	"runtime"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/mat"

	"github.com/bobonovski/gomm/matrix"
)

// Config controls the EM iteration.
type Config struct {
	// Iteration stops once the absolute or the relative change of the
	// log-likelihood between two consecutive iterations is below Tolerance.
	Tolerance float64
	// maximum number of M-steps
	MaxIter int
	// lower bound applied to every variance after initialization and after
	// every M-step
	VarianceFloor float64
	// number of goroutines working on document and cluster ranges
	Workers int
	// StrictMonotonic turns a decrease of the log-likelihood into an
	// ErrNumericalAnomaly error instead of a recorded anomaly.
	StrictMonotonic bool
	// relative decrease of the log-likelihood tolerated as rounding noise
	AnomalyTolerance float64
}

func DefaultConfig() Config {
	return Config{
		Tolerance:        1e-6,
		MaxIter:          100,
		VarianceFloor:    1e-10,
		Workers:          runtime.NumCPU(),
		AnomalyTolerance: 1e-6,
	}
}

func (c Config) validate() error {
	if c.MaxIter < 1 {
		return ErrZeroIterations
	}
	if !(c.VarianceFloor > 0) || math.IsInf(c.VarianceFloor, 0) {
		return fmt.Errorf("%w: %v", ErrBadFloor, c.VarianceFloor)
	}
	if !(c.Tolerance >= 0) || !(c.AnomalyTolerance >= 0) {
		return fmt.Errorf("%w: tolerance %v, anomaly tolerance %v",
			ErrBadTolerance, c.Tolerance, c.AnomalyTolerance)
	}
	return nil
}

// State of an EM run. Converged and MaxIterReached are both normal
// terminal states and carry the same result.
type State int

const (
	Initialized State = iota
	Iterating
	Converged
	MaxIterReached
	Canceled
	// stopped in strict mode because the log-likelihood decreased
	Anomalous
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterReached:
		return "max iterations reached"
	case Canceled:
		return "canceled"
	case Anomalous:
		return "anomalous"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Result is the outcome of a fit. The parameters correspond to the last
// entry of LogLikelihood.
type Result struct {
	Params
	// LogLikelihood[0] belongs to the initial parameters and
	// LogLikelihood[t] to the parameters after the t-th M-step.
	LogLikelihood []float64
	// number of M-steps applied
	Iterations int
	State      State
	// indices into LogLikelihood where the value decreased
	Anomalies []int
}

// EM fits diagonal Gaussian mixtures to sparse document matrices. An EM
// holds a worker pool and should be closed after use. Calls must not be
// made concurrently on the same EM.
type EM struct {
	cfg  Config
	pool *workerPool
	// M-step used by Fit, em.mstep unless replaced in tests
	update func(x *matrix.CSR, resp *mat.Dense, p *Params) error
}

func New(cfg Config) (*EM, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	pool, err := newWorkerPool(cfg.Workers)
	if err != nil {
		return nil, err
	}
	em := &EM{
		cfg:  cfg,
		pool: pool,
	}
	em.update = em.mstep
	return em, nil
}

// Close releases the worker pool.
func (em *EM) Close() {
	em.pool.release()
}

// Fit runs EM on x starting from start and returns the fitted parameters.
// start is never modified. Invalid input is reported before any
// computation. The loop always applies at least one M-step; the context is
// only checked between iterations, and when it is done Fit returns the last
// completed parameters together with the context error. In strict mode a
// decreasing log-likelihood also returns the partial result with an error
// wrapping ErrNumericalAnomaly.
func (em *EM) Fit(ctx context.Context, x *matrix.CSR, start *Params) (*Result, error) {
	if x == nil {
		return nil, ErrEmptyCorpus
	}
	_, m := x.Dims()
	if err := start.Validate(m); err != nil {
		return nil, err
	}

	p := start.Clone()
	p.applyFloor(em.cfg.VarianceFloor)

	res := &Result{
		LogLikelihood: make([]float64, 0, em.cfg.MaxIter+1),
		State:         Iterating,
	}
	for iter := 0; ; iter += 1 {
		resp, ll, err := em.estep(x, p)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}
		res.LogLikelihood = append(res.LogLikelihood, ll)
		if iter%10 == 0 {
			log.Infof("iter %5d, likelihood %f", iter, ll)
		} else {
			log.V(1).Infof("iter %5d, likelihood %f", iter, ll)
		}

		if iter > 0 {
			prev := res.LogLikelihood[iter-1]
			if ll < prev-em.cfg.AnomalyTolerance*math.Max(1, math.Abs(prev)) {
				res.Anomalies = append(res.Anomalies, iter)
				log.Warningf("iter %5d, likelihood decreased by %g", iter, prev-ll)
				if em.cfg.StrictMonotonic {
					res.finish(p, Anomalous)
					return res, fmt.Errorf("%w: likelihood decreased from %v to %v at iteration %d",
						ErrNumericalAnomaly, prev, ll, iter)
				}
			}
			if converged(prev, ll, em.cfg.Tolerance) {
				res.finish(p, Converged)
				break
			}
		}
		if iter == em.cfg.MaxIter {
			res.finish(p, MaxIterReached)
			break
		}
		if iter > 0 {
			if err := ctx.Err(); err != nil {
				res.finish(p, Canceled)
				log.Infof("canceled after %d iterations, likelihood %f", res.Iterations, ll)
				return res, err
			}
		}

		if err := em.update(x, resp, p); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}
		res.Iterations = iter + 1
	}

	log.Infof("%s after %d iterations, likelihood %f",
		res.State, res.Iterations, res.LogLikelihood[len(res.LogLikelihood)-1])
	return res, nil
}

func (r *Result) finish(p *Params, state State) {
	r.Params = *p
	r.State = state
}

func converged(prev, cur, tol float64) bool {
	delta := math.Abs(cur - prev)
	return delta <= tol || delta <= tol*math.Abs(prev)
}

// Fit is a shortcut creating an EM with cfg, fitting x and closing it.
func Fit(ctx context.Context, x *matrix.CSR, start *Params, cfg Config) (*Result, error) {
	em, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer em.Close()
	return em.Fit(ctx, x, start)
}
