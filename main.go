package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"

	log "github.com/golang/glog"

	"github.com/bobonovski/gomm/config"
	"github.com/bobonovski/gomm/corpus"
	"github.com/bobonovski/gomm/model"
	"github.com/bobonovski/gomm/sstable"
)

var (
	configFile = flag.String("config", "", "TOML configuration file, flags set explicitly override it")
	input      = flag.String("input_file", "", "input training file")
	output     = flag.String("output", "", "prefix of the result files")
	normalize  = flag.Bool("normalize", true, "scale documents to unit length")
	clusterNum = flag.Int("k", 20, "number of clusters")
	initName   = flag.String("init", "sample", "initialization strategy")
	seed       = flag.Uint64("seed", 1, "random seed of the initialization")
	tolerance  = flag.Float64("tol", 1e-6, "convergence tolerance on the log-likelihood change")
	iteration  = flag.Int("iter", 100, "maximum number of iterations")
	floor      = flag.Float64("floor", 0, "variance floor, 0 uses the default of the initialization strategy")
	workers    = flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
)

func main() {
	flag.Parse()
	defer log.Flush()

	cfg, err := loadConfig()
	if err != nil {
		log.Exitf("bad configuration: %v", err)
	}

	// read training data
	data, err := corpus.Load(cfg.Input, cfg.Normalize)
	if err != nil {
		log.Exitf("loading %s: %v", cfg.Input, err)
	}

	// init model
	ini, err := model.GetInitializer(cfg.Init)
	if err != nil {
		log.Exitf("%v, available: %v", err, model.Initializers())
	}
	start, err := ini.Init(data.Matrix, cfg.K, cfg.Seed)
	if err != nil {
		log.Exitf("initializing %d clusters: %v", cfg.K, err)
	}

	mcfg := model.DefaultConfig()
	mcfg.Tolerance = cfg.Tolerance
	mcfg.MaxIter = cfg.MaxIter
	mcfg.VarianceFloor = ini.Floor
	if cfg.VarianceFloor > 0 {
		mcfg.VarianceFloor = cfg.VarianceFloor
	}
	if cfg.Workers > 0 {
		mcfg.Workers = cfg.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := model.Fit(ctx, data.Matrix, start, mcfg)
	if err != nil && res == nil {
		log.Exitf("fitting: %v", err)
	}
	if err != nil {
		log.Warningf("fitting stopped early: %v", err)
	}
	if len(res.Anomalies) > 0 {
		log.Warningf("likelihood decreased at iterations %v", res.Anomalies)
	}
	for k, w := range res.Weights {
		log.Infof("cluster %3d, weight %f", k, w)
	}

	if cfg.Output != "" {
		if err := sstable.WriteResult(cfg.Output, res); err != nil {
			log.Exitf("writing results: %v", err)
		}
	}
}

// loadConfig reads the optional configuration file and applies the flags
// given on the command line on top of it.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	cfg.Workers = *workers
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input_file":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "normalize":
			cfg.Normalize = *normalize
		case "k":
			cfg.K = *clusterNum
		case "init":
			cfg.Init = *initName
		case "seed":
			cfg.Seed = *seed
		case "tol":
			cfg.Tolerance = *tolerance
		case "iter":
			cfg.MaxIter = *iteration
		case "floor":
			cfg.VarianceFloor = *floor
		case "workers":
			cfg.Workers = *workers
		}
	})

	return cfg, cfg.Validate()
}
