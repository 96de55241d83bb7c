// Package fold consumes externally supplied cross-validation partitions and
// extracts per-fold training and testing slices of a dataset.
package fold

import (
	"errors"
	"fmt"

	mat_ "github.com/aouyang1/go-crossval/mat"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrIndexOutOfRange           = errors.New("fold references a row index out of range")
	ErrNoHeldOutRows             = errors.New("fold holds out no rows")
	ErrNoTrainingRows            = errors.New("fold holds out every row")
	ErrLabelLenMismatch          = errors.New("label vector length does not match dataset row count")
	ErrInsufficientSamples       = errors.New("insufficient samples for the determined folds")
	ErrNoFolds                   = errors.New("no folds provided")
	ErrInconsistentSampleLengths = errors.New("features or targets do not have the same number of samples")
)

// Fold is a set of row indices to hold out from training. The complement of
// the set is the held-in training partition. Coverage and disjointness across
// folds are the supplier's responsibility and are not checked here.
type Fold []int

// Validate bounds-checks every held-out index against a dataset of n rows.
func (f Fold) Validate(n int) error {
	if len(f) == 0 {
		return ErrNoHeldOutRows
	}
	for _, idx := range f {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d with %d rows, %w", idx, n, ErrIndexOutOfRange)
		}
	}
	return nil
}

// Dataset is one fold's view of the source data. The train partition holds
// every row not named by the fold and the test partition the rows that are,
// both in source row order. All four fields are fresh copies with no aliasing
// back to the source.
type Dataset struct {
	TrainX *mat.Dense
	TrainY []float64

	TestX *mat.Dense
	TestY []float64
}

// Split partitions x and y by the held-out fold. Duplicate indices within the
// fold collapse to a single held-out row since membership is a set test.
func Split(x mat.Matrix, y []float64, heldOut Fold) (*Dataset, error) {
	m, _ := x.Dims()
	if len(y) != m {
		return nil, fmt.Errorf("%d labels for %d rows, %w", len(y), m, ErrLabelLenMismatch)
	}
	if err := heldOut.Validate(m); err != nil {
		return nil, err
	}

	heldOutSet := make(map[int]struct{}, len(heldOut))
	for _, idx := range heldOut {
		heldOutSet[idx] = struct{}{}
	}
	if len(heldOutSet) == m {
		return nil, ErrNoTrainingRows
	}

	trainIdxs := make([]int, 0, m-len(heldOutSet))
	testIdxs := make([]int, 0, len(heldOutSet))
	for i := 0; i < m; i++ {
		if _, exists := heldOutSet[i]; exists {
			testIdxs = append(testIdxs, i)
			continue
		}
		trainIdxs = append(trainIdxs, i)
	}

	trainX, err := mat_.SelectRows(x, trainIdxs)
	if err != nil {
		return nil, fmt.Errorf("unable to extract training rows, %w", err)
	}
	trainY, err := mat_.SelectElems(y, trainIdxs)
	if err != nil {
		return nil, fmt.Errorf("unable to extract training labels, %w", err)
	}
	testX, err := mat_.SelectRows(x, testIdxs)
	if err != nil {
		return nil, fmt.Errorf("unable to extract testing rows, %w", err)
	}
	testY, err := mat_.SelectElems(y, testIdxs)
	if err != nil {
		return nil, fmt.Errorf("unable to extract testing labels, %w", err)
	}

	return &Dataset{
		TrainX: trainX,
		TrainY: trainY,
		TestX:  testX,
		TestY:  testY,
	}, nil
}

// KFold builds a contiguous partition of n rows into nFold disjoint held-out
// sets covering every row, for callers that do not bring their own partition.
func KFold(n, nFold int) ([]Fold, error) {
	if nFold < 1 {
		return nil, ErrNoFolds
	}
	if n < nFold {
		return nil, fmt.Errorf("%d samples for %d folds, %w", n, nFold, ErrInsufficientSamples)
	}

	folds := make([]Fold, 0, nFold)
	foldSamp := n / nFold
	rem := n % nFold
	var start int
	for i := 0; i < nFold; i++ {
		size := foldSamp
		if i < rem {
			size++
		}
		f := make(Fold, 0, size)
		for j := start; j < start+size; j++ {
			f = append(f, j)
		}
		folds = append(folds, f)
		start += size
	}
	return folds, nil
}
