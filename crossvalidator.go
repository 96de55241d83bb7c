// Package crossval runs k-fold cross-validated ordinary least squares
// regression over a tabular dataset, producing per-fold fitted models,
// out-of-fold accuracy statistics, and a coefficient stability table.
package crossval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/aouyang1/go-crossval/dataset"
	"github.com/aouyang1/go-crossval/fold"
	"github.com/aouyang1/go-crossval/models"
	"github.com/aouyang1/go-crossval/scores"
	"github.com/aouyang1/go-crossval/stats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyDataset     = errors.New("no dataset or uninitialized")
	ErrAllFoldsFailed   = errors.New("every fold failed to fit")
	ErrUntrainedRun     = errors.New("cross validation has not been run yet")
	ErrDeficiencyNotRun = errors.New("condition number pre-check was not enabled for this run")
)

// CrossValidator fits one OLS model per fold of a supplied partition and
// aggregates out-of-fold scores and coefficients. Folds fit concurrently;
// the dataset and label vector are shared read-only and every result lands
// in a slot indexed by fold number so reporting order matches fold order.
type CrossValidator struct {
	opt *Options

	fitTable  *dataset.Table
	fitLabels []float64
	folds     []fold.Fold

	x        *mat.Dense
	features []string

	results         []*FoldResult
	summary         *scores.Summary
	coefficients    *CoefficientTable
	conditionNumber float64
	fitted          bool
}

// New creates a new instance of a CrossValidator using the provided options.
// If no options are provided a default is used.
func New(opt *Options) (*CrossValidator, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to validate options, %w", err)
	}
	return &CrossValidator{
		opt: opt,
	}, nil
}

// Fit runs the full cross-validation pass: validate inputs, preprocess a
// private copy of the table, fit and score every fold, then aggregate. Shape
// and bounds problems abort before any fold runs; a numerical failure inside
// one fold is recorded on that fold's result and does not abort the run.
// Cancelling ctx discards all partial results.
func (c *CrossValidator) Fit(ctx context.Context, table *dataset.Table, labels []float64, folds []fold.Fold) error {
	if table == nil || table.Cols() == 0 {
		return ErrEmptyDataset
	}
	if len(labels) != table.Rows() {
		return fmt.Errorf("%d labels for %d rows, %w", len(labels), table.Rows(), fold.ErrLabelLenMismatch)
	}
	if len(folds) == 0 {
		return fold.ErrNoFolds
	}
	for i, f := range folds {
		if err := f.Validate(table.Rows()); err != nil {
			return fmt.Errorf("fold %d, %w", i, err)
		}
	}

	tbl := table.Copy()
	if c.opt.FillNA {
		tbl.FillNA()
	}
	if c.opt.Normalize {
		tbl.Normalize()
	}

	x, err := tbl.Matrix()
	if err != nil {
		return fmt.Errorf("unable to assemble design matrix, %w", err)
	}

	y := make([]float64, len(labels))
	copy(y, labels)

	condNumber := math.NaN()
	if c.opt.Deficiency {
		// one pre-check over the full dataset, never per fold
		condNumber, err = stats.ConditionNumber(x)
		if err != nil {
			return fmt.Errorf("unable to compute condition number, %w", err)
		}
	}

	results := make([]*FoldResult, len(folds))
	sem := make(chan struct{}, c.opt.Parallelization)
	var wg sync.WaitGroup
	for i, heldOut := range folds {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)

		go c.runFold(i, heldOut, x, y, results, &wg, sem)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	perFold := make([]*scores.Scores, len(results))
	var failures int
	for i, r := range results {
		if r.Failed() {
			failures++
			continue
		}
		perFold[i] = r.Scores
	}
	if failures == len(results) {
		return ErrAllFoldsFailed
	}

	summary, err := scores.NewSummary(perFold)
	if err != nil {
		return fmt.Errorf("unable to summarize fold scores, %w", err)
	}
	coefficients, err := newCoefficientTable(tbl.Names(), results)
	if err != nil {
		return fmt.Errorf("unable to assemble coefficient table, %w", err)
	}

	c.fitTable = tbl
	c.fitLabels = y
	c.folds = folds
	c.x = x
	c.features = tbl.Names()
	c.results = results
	c.summary = summary
	c.coefficients = coefficients
	c.conditionNumber = condNumber
	c.fitted = true
	return nil
}

func (c *CrossValidator) runFold(i int, heldOut fold.Fold, x *mat.Dense, y []float64, results []*FoldResult, wg *sync.WaitGroup, sem chan struct{}) {
	defer func() {
		wg.Done()
		<-sem
	}()

	res := &FoldResult{Fold: i}
	results[i] = res

	ds, err := fold.Split(x, y, heldOut)
	if err != nil {
		slog.Error("unable to extract fold data", "fold", i, "error", err.Error())
		res.Err = err
		return
	}

	model, err := models.NewOLSRegression(c.opt.OLS)
	if err != nil {
		slog.Error("unable to initialize ols regression", "fold", i, "error", err.Error())
		res.Err = err
		return
	}

	trainY := mat.NewDense(len(ds.TrainY), 1, ds.TrainY)
	if err := model.Fit(ds.TrainX, trainY); err != nil {
		slog.Error("unable to fit fold", "fold", i, "error", err.Error())
		res.Err = err
		return
	}

	predicted, err := model.Predict(ds.TestX)
	if err != nil {
		slog.Error("unable to predict held-out rows", "fold", i, "error", err.Error())
		res.Err = err
		return
	}

	s, err := scores.NewScores(predicted, ds.TestY)
	if err != nil {
		slog.Error("unable to score held-out rows", "fold", i, "error", err.Error())
		res.Err = err
		return
	}

	res.Model = model
	res.Scores = s
	res.Predicted = predicted
	res.Actual = ds.TestY
}

// FoldResults returns the per-fold outputs in fold order.
func (c *CrossValidator) FoldResults() ([]*FoldResult, error) {
	if !c.fitted {
		return nil, ErrUntrainedRun
	}
	return c.results, nil
}

// Summary returns the cross-fold mean and standard deviation per statistic.
func (c *CrossValidator) Summary() (*scores.Summary, error) {
	if !c.fitted {
		return nil, ErrUntrainedRun
	}
	return c.summary, nil
}

// CoefficientTable returns the feature by fold coefficient matrix with
// per-feature summaries.
func (c *CrossValidator) CoefficientTable() (*CoefficientTable, error) {
	if !c.fitted {
		return nil, ErrUntrainedRun
	}
	return c.coefficients, nil
}

// ConditionNumber returns the full-dataset condition number computed before
// fitting when the Deficiency flag was set.
func (c *CrossValidator) ConditionNumber() (float64, error) {
	if !c.fitted {
		return 0, ErrUntrainedRun
	}
	if !c.opt.Deficiency {
		return 0, ErrDeficiencyNotRun
	}
	return c.conditionNumber, nil
}

// TrainingData returns the preprocessed copy of the dataset the folds were
// fit against.
func (c *CrossValidator) TrainingData() *dataset.Table {
	return c.fitTable
}

// residuals pools out-of-fold residuals across folds in fold order, skipping
// failed folds.
func (c *CrossValidator) residuals() []float64 {
	var res []float64
	for _, r := range c.results {
		if r.Failed() {
			continue
		}
		for i := range r.Actual {
			res = append(res, r.Actual[i]-r.Predicted[i])
		}
	}
	return res
}
