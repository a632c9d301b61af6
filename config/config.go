package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

var ErrMissingInput = errors.New("config: input file not set")

// Config describes a command line fitting run.
type Config struct {
	// corpus file, see corpus.Load for the format
	Input string `toml:"input"`
	// prefix of the result files, empty disables writing
	Output string `toml:"output"`
	// scale documents to unit length while loading
	Normalize bool `toml:"normalize"`

	K    int    `toml:"k"`
	Init string `toml:"init"`
	Seed uint64 `toml:"seed"`

	Tolerance float64 `toml:"tolerance"`
	MaxIter   int     `toml:"max_iter"`
	// zero selects the default floor of the initializer
	VarianceFloor float64 `toml:"variance_floor"`
	Workers       int     `toml:"workers"`
}

func Default() Config {
	return Config{
		Normalize: true,
		K:         20,
		Init:      "sample",
		Seed:      1,
		Tolerance: 1e-6,
		MaxIter:   100,
	}
}

// Load decodes the TOML file fn on top of the defaults.
func Load(fn string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(fn, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config: unknown keys %v in %s", undecoded, fn)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Input == "" {
		return ErrMissingInput
	}
	if c.K < 1 {
		return fmt.Errorf("config: k must be positive, got %d", c.K)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("config: max_iter must be positive, got %d", c.MaxIter)
	}
	if c.Tolerance < 0 || c.VarianceFloor < 0 {
		return fmt.Errorf("config: tolerance %v and variance_floor %v cannot be negative",
			c.Tolerance, c.VarianceFloor)
	}
	return nil
}
