package crossval

import (
	"errors"
	"math"
	"testing"

	"github.com/aouyang1/go-crossval/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func fittedFoldResult(t *testing.T, foldNum int, x [][]float64, y []float64) *FoldResult {
	t.Helper()

	m := len(x)
	n := len(x[0])
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}

	model, err := models.NewOLSRegression(&models.OLSOptions{FitIntercept: false})
	require.Nil(t, err)
	require.Nil(t, model.Fit(mat.NewDense(m, n, data), mat.NewDense(m, 1, y)))

	return &FoldResult{
		Fold:  foldNum,
		Model: model,
	}
}

func TestNewCoefficientTable(t *testing.T) {
	// two folds fit on data with known weights 2 and -1
	x := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}
	r0 := fittedFoldResult(t, 0, x, []float64{2, -1, 1})
	r1 := fittedFoldResult(t, 1, x, []float64{2, -1, 1})

	ct, err := newCoefficientTable([]string{"a", "b"}, []*FoldResult{r0, r1})
	require.Nil(t, err)

	assert.Equal(t, []string{"a", "b"}, ct.Features())
	assert.Equal(t, 2, ct.NumFolds())

	tol := 1e-10
	aWeights, err := ct.FeatureWeights("a")
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{2, 2}, aWeights, tol)

	foldWeights, err := ct.FoldWeights(1)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{2, -1}, foldWeights, tol)

	assert.InDelta(t, 2.0, ct.Mean()[0], tol)
	assert.InDelta(t, -1.0, ct.Mean()[1], tol)
	assert.InDelta(t, 0.0, ct.StdDev()[0], tol, "identical folds have zero spread")

	_, err = ct.FeatureWeights("missing")
	require.ErrorIs(t, err, ErrNoSuchFeature)
	_, err = ct.FoldWeights(2)
	require.ErrorIs(t, err, ErrFoldOutOfRange)
	_, err = ct.FoldWeights(-1)
	require.ErrorIs(t, err, ErrFoldOutOfRange)
}

func TestNewCoefficientTableFailedFold(t *testing.T) {
	x := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}
	ok := fittedFoldResult(t, 0, x, []float64{2, -1, 1})
	failed := &FoldResult{Fold: 1, Err: errors.New("fit blew up")}

	ct, err := newCoefficientTable([]string{"a", "b"}, []*FoldResult{ok, failed})
	require.Nil(t, err)

	weights, err := ct.FoldWeights(1)
	require.Nil(t, err)
	for i, w := range weights {
		assert.True(t, math.IsNaN(w), "feature %d", i)
	}

	for i := range ct.Features() {
		assert.True(t, math.IsNaN(ct.Mean()[i]), "NaN column poisons the mean")
		assert.True(t, math.IsNaN(ct.StdDev()[i]))
	}
}

func TestNewCoefficientTableErrors(t *testing.T) {
	_, err := newCoefficientTable([]string{"a"}, nil)
	require.ErrorIs(t, err, ErrNoFoldResults)

	x := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}
	r := fittedFoldResult(t, 0, x, []float64{2, -1, 1})
	_, err = newCoefficientTable([]string{"a", "b", "c"}, []*FoldResult{r})
	require.ErrorIs(t, err, models.ErrFeatureLenMismatch)
}
