package stats

import (
	"math"
	"testing"

	mat_ "github.com/aouyang1/go-crossval/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDetectOutliers(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		lower    float64
		upper    float64
		tukey    float64
		expected []int
	}{
		"single spike": {
			y:        []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100},
			lower:    0.1,
			upper:    0.8,
			tukey:    1.0,
			expected: []int{9},
		},
		"symmetric spikes": {
			y:        []float64{-50, 1, 2, 3, 4, 5, 6, 7, 8, 50},
			lower:    0.2,
			upper:    0.8,
			tukey:    1.0,
			expected: []int{0, 9},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, DetectOutliers(td.y, td.lower, td.upper, td.tukey))
		})
	}
}

func TestConditionNumber(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		x := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
		cond, err := ConditionNumber(x)
		require.Nil(t, err)
		assert.InDelta(t, 1.0, cond, 1e-12)
	})

	t.Run("duplicated column is singular", func(t *testing.T) {
		x, err := mat_.NewDenseFromArray([][]float64{
			{1, 1},
			{2, 2},
			{3, 3},
		})
		require.Nil(t, err)

		cond, err := ConditionNumber(x)
		require.Nil(t, err)
		assert.True(t, math.IsInf(cond, 1) || cond > 1e12, "near-singular condition number, got %f", cond)
	})

	t.Run("nil matrix", func(t *testing.T) {
		_, err := ConditionNumber(nil)
		require.ErrorIs(t, err, ErrNoDesignMatrix)
	})
}

func TestVarianceInflationFactors(t *testing.T) {
	t.Run("independent features", func(t *testing.T) {
		x, err := mat_.NewDenseFromArray([][]float64{
			{1, 8},
			{2, 3},
			{3, 9},
			{4, 1},
			{5, 7},
		})
		require.Nil(t, err)

		vif, err := VarianceInflationFactors(x, []string{"a", "b"})
		require.Nil(t, err)
		require.Len(t, vif, 2)
		assert.Less(t, vif["a"], 5.0)
		assert.Less(t, vif["b"], 5.0)
		assert.GreaterOrEqual(t, vif["a"], 1.0)
		assert.GreaterOrEqual(t, vif["b"], 1.0)
	})

	t.Run("collinear features inflate", func(t *testing.T) {
		x, err := mat_.NewDenseFromArray([][]float64{
			{1, 2},
			{2, 4},
			{3, 6},
			{4, 8},
		})
		require.Nil(t, err)

		vif, err := VarianceInflationFactors(x, []string{"a", "b"})
		require.Nil(t, err)
		assert.True(t, math.IsInf(vif["a"], 1) || vif["a"] > 1e6, "got %f", vif["a"])
	})

	t.Run("single feature", func(t *testing.T) {
		x := mat.NewDense(3, 1, []float64{1, 2, 3})
		_, err := VarianceInflationFactors(x, []string{"a"})
		require.ErrorIs(t, err, ErrMinimumFeatures)
	})

	t.Run("name count mismatch", func(t *testing.T) {
		x := mat.NewDense(3, 2, nil)
		_, err := VarianceInflationFactors(x, []string{"a"})
		require.ErrorIs(t, err, ErrFeatureLenMismatch)
	})
}
