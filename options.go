package crossval

import (
	"runtime"

	"github.com/aouyang1/go-crossval/models"
)

// Options configures a cross-validation run. The presentation flags only
// gate which report views are rendered; metrics and coefficients are always
// computed.
type Options struct {
	OLS *models.OLSOptions

	// Parallelization caps how many folds fit concurrently.
	Parallelization int

	// preprocessing applied to the engine's private copy of the dataset
	FillNA    bool
	Normalize bool

	// report view gates
	Stats        bool
	Coefficients bool
	Plots        bool
	AdvStats     bool
	Deficiency   bool
}

func NewDefaultOptions() *Options {
	return &Options{
		OLS:             models.NewDefaultOLSOptions(),
		Parallelization: runtime.NumCPU(),
		Stats:           true,
		Coefficients:    true,
	}
}

// Validate normalizes zero values returning a new copy of options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	opt := *o

	olsOpt, err := opt.OLS.Validate()
	if err != nil {
		return nil, err
	}
	opt.OLS = olsOpt

	if opt.Parallelization < 1 {
		opt.Parallelization = 1
	}
	if opt.Parallelization > runtime.NumCPU() {
		opt.Parallelization = runtime.NumCPU()
	}
	return &opt, nil
}
