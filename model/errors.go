package model

import "errors"

var (
	ErrEmptyCorpus         = errors.New("model: empty document matrix")
	ErrShapeMismatch       = errors.New("model: parameter shape mismatch")
	ErrNonPositiveVariance = errors.New("model: initial variance must be strictly positive")
	ErrNumericalAnomaly    = errors.New("model: numerical anomaly")
	ErrZeroIterations      = errors.New("model: number of iterations cannot be less than 1")
	ErrBadFloor            = errors.New("model: variance floor must be strictly positive")
	ErrBadTolerance        = errors.New("model: tolerance cannot be negative")
	ErrUnknownInitializer  = errors.New("model: initializer not registered")
)
