package crossval

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-crossval/models"
	"github.com/aouyang1/go-crossval/scores"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoFoldResults  = errors.New("no fold results")
	ErrFoldOutOfRange = errors.New("fold number out of range")
	ErrNoSuchFeature  = errors.New("feature not present in coefficient table")
)

// FoldResult is one fold's output: the fitted model, its held-out scores, and
// the out-of-fold predictions in source row order. A fold that failed
// numerically carries the error instead, with nil model and scores.
type FoldResult struct {
	Fold   int
	Model  *models.OLSRegression
	Scores *scores.Scores

	Predicted []float64
	Actual    []float64

	Err error
}

// Failed reports whether the fold's fit or scoring failed.
func (r *FoldResult) Failed() bool {
	return r.Err != nil
}

// CoefficientTable is a read-only feature by fold matrix of fitted weights
// with per-feature mean and sample standard deviation across folds. Feature
// row order matches the dataset's column order. Folds that failed contribute
// a NaN column, so a failure shows up as NaN in the per-feature summaries.
// The intercept, when fitted, lives on each fold's model and is not a row
// here, keeping the feature-name correspondence exact.
type CoefficientTable struct {
	features []string
	weights  *mat.Dense // P x F
	mean     []float64
	stddev   []float64
}

func newCoefficientTable(features []string, results []*FoldResult) (*CoefficientTable, error) {
	if len(results) == 0 {
		return nil, ErrNoFoldResults
	}

	p := len(features)
	weights := mat.NewDense(p, len(results), nil)
	for j, r := range results {
		if r == nil || r.Failed() {
			for i := 0; i < p; i++ {
				weights.Set(i, j, math.NaN())
			}
			continue
		}
		coef := r.Model.Coef()
		if len(coef) != p {
			return nil, fmt.Errorf("fold %d has %d coefficients for %d features, %w", j, len(coef), p, models.ErrFeatureLenMismatch)
		}
		weights.SetCol(j, coef)
	}

	mean := make([]float64, p)
	stddev := make([]float64, p)
	for i := 0; i < p; i++ {
		mean[i], stddev[i] = stat.MeanStdDev(mat.Row(nil, i, weights), nil)
	}

	return &CoefficientTable{
		features: features,
		weights:  weights,
		mean:     mean,
		stddev:   stddev,
	}, nil
}

// Features returns the feature names in dataset column order.
func (ct *CoefficientTable) Features() []string {
	names := make([]string, len(ct.features))
	copy(names, ct.features)
	return names
}

func (ct *CoefficientTable) NumFolds() int {
	_, f := ct.weights.Dims()
	return f
}

// FoldWeights returns the coefficient vector fitted on the given fold.
func (ct *CoefficientTable) FoldWeights(foldNum int) ([]float64, error) {
	_, f := ct.weights.Dims()
	if foldNum < 0 || foldNum >= f {
		return nil, fmt.Errorf("fold %d with %d folds, %w", foldNum, f, ErrFoldOutOfRange)
	}
	return mat.Col(nil, foldNum, ct.weights), nil
}

// FeatureWeights returns the named feature's weight across every fold.
func (ct *CoefficientTable) FeatureWeights(name string) ([]float64, error) {
	for i, feature := range ct.features {
		if feature == name {
			return mat.Row(nil, i, ct.weights), nil
		}
	}
	return nil, fmt.Errorf("%q, %w", name, ErrNoSuchFeature)
}

// Mean returns the per-feature coefficient mean across folds.
func (ct *CoefficientTable) Mean() []float64 {
	mean := make([]float64, len(ct.mean))
	copy(mean, ct.mean)
	return mean
}

// StdDev returns the per-feature sample standard deviation across folds.
func (ct *CoefficientTable) StdDev() []float64 {
	stddev := make([]float64, len(ct.stddev))
	copy(stddev, ct.stddev)
	return stddev
}
