package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrNoHeader = errors.New("no header row")
	ErrNoRows   = errors.New("no data rows")
)

// ReadCSV parses a headered CSV stream into a table. Cells that do not parse
// as a float, including empty ones, load as NaN so FillNA can handle them
// downstream.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header row, %w", err)
	}

	cols := make([][]float64, len(header))
	var rows int
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", rows+1, err)
		}
		for i, cell := range record {
			val, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				val = math.NaN()
			}
			cols[i] = append(cols[i], val)
		}
		rows++
	}
	if rows == 0 {
		return nil, ErrNoRows
	}

	t := New()
	for i, name := range header {
		if err := t.AddColumn(strings.TrimSpace(name), cols[i]); err != nil {
			return nil, fmt.Errorf("unable to add column %d, %w", i, err)
		}
	}
	return t, nil
}

// ReadCSVFile is a convenience wrapper around ReadCSV for a path on disk.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}
