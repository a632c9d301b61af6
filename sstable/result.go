package sstable

import (
	log "github.com/golang/glog"

	"github.com/bobonovski/gomm/model"
)

// WriteResult serializes a fitted model next to prefix: cluster means to
// prefix.means, variances to prefix.vars, the weights as a single row to
// prefix.weights and the log-likelihood trajectory as a single row to
// prefix.llf.
func WriteResult(prefix string, res *model.Result) error {
	files := []struct {
		suffix string
		data   [][]float64
	}{
		{".means", res.Means},
		{".vars", res.Variances},
		{".weights", [][]float64{res.Weights}},
		{".llf", [][]float64{res.LogLikelihood}},
	}
	for _, f := range files {
		if err := Float64Serialize(f.data, prefix+f.suffix); err != nil {
			return err
		}
		log.Infof("wrote %s", prefix+f.suffix)
	}
	return nil
}
