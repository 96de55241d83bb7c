// Package dataset stores tabular numeric training data as ordered named
// columns along with the optional preprocessing ahead of a cross-validation
// run.
package dataset

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoColumns      = errors.New("no feature columns")
	ErrColLenMismatch = errors.New("columns have different lengths")
	ErrLabelExists    = errors.New("feature name already exists in table")
	ErrUnknownFeature = errors.New("unknown feature name")
	ErrNoFeatureName  = errors.New("no feature name")
)

// Table is an N row by P column numeric dataset. Column order is insertion
// order and is preserved through matrix assembly so coefficient rows can be
// traced back to feature names.
type Table struct {
	names []string
	idx   map[string]int
	cols  [][]float64
	rows  int
}

func New() *Table {
	return &Table{
		idx: make(map[string]int),
	}
}

// NewTable builds a table from parallel name and column slices.
func NewTable(names []string, cols [][]float64) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d names for %d columns, %w", len(names), len(cols), ErrColLenMismatch)
	}
	t := New()
	for i, name := range names {
		if err := t.AddColumn(name, cols[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a named feature column. The first column fixes the row
// count for the table.
func (t *Table) AddColumn(name string, vals []float64) error {
	if name == "" {
		return ErrNoFeatureName
	}
	if _, exists := t.idx[name]; exists {
		return fmt.Errorf("%q, %w", name, ErrLabelExists)
	}
	if len(t.cols) > 0 && len(vals) != t.rows {
		return fmt.Errorf("column %q has %d rows, but table has %d, %w", name, len(vals), t.rows, ErrColLenMismatch)
	}

	col := make([]float64, len(vals))
	copy(col, vals)

	t.idx[name] = len(t.names)
	t.names = append(t.names, name)
	t.cols = append(t.cols, col)
	t.rows = len(col)
	return nil
}

func (t *Table) Rows() int {
	return t.rows
}

func (t *Table) Cols() int {
	return len(t.cols)
}

// Names returns the feature names in column order.
func (t *Table) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Column returns a copy of the named feature column.
func (t *Table) Column(name string) ([]float64, error) {
	i, exists := t.idx[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownFeature)
	}
	col := make([]float64, t.rows)
	copy(col, t.cols[i])
	return col, nil
}

// Pop removes the named column from the table and returns its values. This is
// how a label column is pulled out of an ingested dataset.
func (t *Table) Pop(name string) ([]float64, error) {
	i, exists := t.idx[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownFeature)
	}
	col := t.cols[i]

	t.names = append(t.names[:i], t.names[i+1:]...)
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	delete(t.idx, name)
	for j := i; j < len(t.names); j++ {
		t.idx[t.names[j]] = j
	}
	if len(t.cols) == 0 {
		t.rows = 0
	}
	return col, nil
}

func (t *Table) Copy() *Table {
	out := New()
	for i, name := range t.names {
		// AddColumn copies the values
		if err := out.AddColumn(name, t.cols[i]); err != nil {
			// names are unique and lengths consistent in a valid table
			panic(err)
		}
	}
	return out
}

// Matrix assembles the table into an N x P dense design matrix in column
// order. The matrix owns fresh storage.
func (t *Table) Matrix() (*mat.Dense, error) {
	if len(t.cols) == 0 {
		return nil, ErrNoColumns
	}
	x := mat.NewDense(t.rows, len(t.cols), nil)
	for j, col := range t.cols {
		x.SetCol(j, col)
	}
	return x, nil
}

// FillNA replaces NaN cells with the mean of the non-NaN values of their
// column. A column with no numeric values at all fills with 0.
func (t *Table) FillNA() {
	for _, col := range t.cols {
		var sum float64
		var cnt int
		for _, v := range col {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			cnt++
		}
		fill := 0.0
		if cnt > 0 {
			fill = sum / float64(cnt)
		}
		for i, v := range col {
			if math.IsNaN(v) {
				col[i] = fill
			}
		}
	}
}

// Normalize min-max scales every column into [0, 1] in place. A constant
// column maps to 0.
func (t *Table) Normalize() {
	for _, col := range t.cols {
		if len(col) == 0 {
			continue
		}
		minVal := math.Inf(1)
		maxVal := math.Inf(-1)
		for _, v := range col {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
		span := maxVal - minVal
		for i, v := range col {
			if span == 0 {
				col[i] = 0.0
				continue
			}
			col[i] = (v - minVal) / span
		}
	}
}
