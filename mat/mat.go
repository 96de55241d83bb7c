package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNegativeDim        = errors.New("negative dimensions not allowed")
	ErrColMismatch        = errors.New("column size mismatch")
	ErrRowMismatch        = errors.New("row size mismatch")
	ErrUninitializedArray = errors.New("uninitialized array")
	ErrRowOutOfBounds     = errors.New("row is out of bounds")
	ErrColOutOfBounds     = errors.New("column is out of bounds")
)

func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// SelectRows copies the requested rows of x, in the order provided, into a
// fresh dense matrix. The source storage is never aliased.
func SelectRows(x mat.Matrix, rows []int) (*mat.Dense, error) {
	m, n := x.Dims()
	if len(rows) == 0 {
		return nil, ErrUninitializedArray
	}

	out := mat.NewDense(len(rows), n, nil)
	for i, r := range rows {
		if r < 0 || r >= m {
			return nil, fmt.Errorf("row %d with %d rows, %w", r, m, ErrRowOutOfBounds)
		}
		for j := 0; j < n; j++ {
			out.Set(i, j, x.At(r, j))
		}
	}
	return out, nil
}

// SelectElems copies the requested elements of y, in the order provided.
func SelectElems(y []float64, idxs []int) ([]float64, error) {
	out := make([]float64, 0, len(idxs))
	for _, r := range idxs {
		if r < 0 || r >= len(y) {
			return nil, fmt.Errorf("element %d with %d elements, %w", r, len(y), ErrRowOutOfBounds)
		}
		out = append(out, y[r])
	}
	return out, nil
}
