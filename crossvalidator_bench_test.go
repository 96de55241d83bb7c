package crossval

import (
	"context"
	"os"
	"testing"

	"github.com/aouyang1/go-crossval/dataset"
	"github.com/aouyang1/go-crossval/fold"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
)

func benchSetup(b *testing.B, rows, nFold int) (*dataset.Table, []float64, []fold.Fold) {
	opt := dataset.NewDefaultSimulateOptions()
	opt.Rows = rows

	tbl, labels, err := dataset.Simulate(opt)
	if err != nil {
		b.Fatal(err)
	}
	folds, err := fold.KFold(rows, nFold)
	if err != nil {
		b.Fatal(err)
	}
	return tbl, labels, folds
}

func BenchmarkFitToReport(b *testing.B) {
	tbl, labels, folds := benchSetup(b, 2000, 10)

	var cv *CrossValidator
	var err error

	b.ResetTimer()
	for b.Loop() {
		cv, err = New(nil)
		if err != nil {
			panic(err)
		}
		if err := cv.Fit(context.Background(), tbl, labels, folds); err != nil {
			panic(err)
		}
	}

	r, err := cv.Report()
	if err != nil {
		panic(err)
	}

	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		panic(err)
	}

	if err := os.WriteFile("benchmark_report.json", bytes, 0o644); err != nil {
		panic(err)
	}
}

func BenchmarkFitParallel(b *testing.B) {
	tbl, labels, folds := benchSetup(b, 5000, 20)

	opt := NewDefaultOptions()

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		cv, err := New(opt)
		if err != nil {
			panic(err)
		}
		if err := cv.Fit(context.Background(), tbl, labels, folds); err != nil {
			panic(err)
		}
	}
}
