package model

import (
	"fmt"
	"sort"

	"github.com/bobonovski/gomm/matrix"
)

var initializers = make(map[string]Initializer)

// Initializer produces the starting parameter triple for a fit. Floor is
// the variance floor that suits parameters produced this way.
type Initializer struct {
	Init  InitFunc
	Floor float64
}

// InitFunc builds k clusters for the documents in x. The same seed must
// give the same parameters.
type InitFunc func(x *matrix.CSR, k int, seed uint64) (*Params, error)

// new initialization strategies should register themselves using this function
func Register(name string, ini Initializer) {
	initializers[name] = ini
}

func GetInitializer(name string) (Initializer, error) {
	ini, ok := initializers[name]
	if !ok {
		return Initializer{}, fmt.Errorf("%w: %s", ErrUnknownInitializer, name)
	}
	return ini, nil
}

// names of the registered initializers in sorted order
func Initializers() []string {
	names := make([]string, 0, len(initializers))
	for name := range initializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
