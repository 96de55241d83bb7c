package fold

import (
	"testing"

	mat_ "github.com/aouyang1/go-crossval/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFoldValidate(t *testing.T) {
	testData := map[string]struct {
		fold Fold
		n    int
		err  error
	}{
		"valid":        {Fold{0, 2}, 3, nil},
		"empty":        {Fold{}, 3, ErrNoHeldOutRows},
		"negative":     {Fold{-1}, 3, ErrIndexOutOfRange},
		"past end":     {Fold{3}, 3, ErrIndexOutOfRange},
		"mixed bounds": {Fold{0, 1, 9}, 3, ErrIndexOutOfRange},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := td.fold.Validate(td.n)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
		})
	}
}

func TestSplit(t *testing.T) {
	x, err := mat_.NewDenseFromArray([][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
		{5, 50},
	})
	require.Nil(t, err)
	y := []float64{100, 200, 300, 400, 500}

	testData := map[string]struct {
		heldOut Fold
		trainY  []float64
		testY   []float64
		err     error
	}{
		"middle rows held out": {
			heldOut: Fold{1, 3},
			trainY:  []float64{100, 300, 500},
			testY:   []float64{200, 400},
		},
		"unsorted fold preserves source order": {
			heldOut: Fold{4, 0},
			trainY:  []float64{200, 300, 400},
			testY:   []float64{100, 500},
		},
		"duplicate index collapses": {
			heldOut: Fold{2, 2},
			trainY:  []float64{100, 200, 400, 500},
			testY:   []float64{300},
		},
		"out of range": {
			heldOut: Fold{5},
			err:     ErrIndexOutOfRange,
		},
		"empty fold": {
			heldOut: Fold{},
			err:     ErrNoHeldOutRows,
		},
		"all rows held out": {
			heldOut: Fold{0, 1, 2, 3, 4},
			err:     ErrNoTrainingRows,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := Split(x, y, td.heldOut)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			assert.Equal(t, td.trainY, ds.TrainY, "train labels")
			assert.Equal(t, td.testY, ds.TestY, "test labels")

			trainRows, _ := ds.TrainX.Dims()
			testRows, _ := ds.TestX.Dims()
			assert.Equal(t, 5, trainRows+testRows, "partition covers all rows")
		})
	}
}

func TestSplitLabelLenMismatch(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, err := Split(x, []float64{1, 2}, Fold{0})
	require.ErrorIs(t, err, ErrLabelLenMismatch)
}

func TestSplitNoAliasing(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{10, 20, 30}

	ds, err := Split(x, y, Fold{1})
	require.Nil(t, err)

	ds.TrainX.Set(0, 0, -1)
	ds.TrainY[0] = -1
	ds.TestX.Set(0, 0, -1)
	ds.TestY[0] = -1

	assert.Equal(t, []float64{1, 2, 3}, x.RawMatrix().Data, "source matrix untouched")
	assert.Equal(t, []float64{10, 20, 30}, y, "source labels untouched")
}

func TestKFold(t *testing.T) {
	testData := map[string]struct {
		n        int
		nFold    int
		expected []Fold
		err      error
	}{
		"even split": {
			n: 4, nFold: 2,
			expected: []Fold{{0, 1}, {2, 3}},
		},
		"uneven split front loads remainder": {
			n: 5, nFold: 3,
			expected: []Fold{{0, 1}, {2, 3}, {4}},
		},
		"single fold": {
			n: 3, nFold: 1,
			expected: []Fold{{0, 1, 2}},
		},
		"zero folds": {
			n: 3, nFold: 0,
			err: ErrNoFolds,
		},
		"more folds than samples": {
			n: 2, nFold: 3,
			err: ErrInsufficientSamples,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			folds, err := KFold(td.n, td.nFold)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, folds)

			// folds must partition [0, n)
			seen := make(map[int]int)
			for _, f := range folds {
				for _, idx := range f {
					seen[idx]++
				}
			}
			assert.Len(t, seen, td.n, "covers every row")
			for idx, cnt := range seen {
				assert.Equal(t, 1, cnt, "row %d appears once", idx)
			}
		})
	}
}
