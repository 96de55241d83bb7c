package crossval

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LinePredictedVsActual generates an echart line chart of the pooled
// out-of-fold predictions against the held-out labels, in fold order. Failed
// folds contribute no points.
func LinePredictedVsActual(results []*FoldResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Out-of-fold Predictions",
			},
		),
	)

	var idx []int
	lineDataActual := make([]opts.LineData, 0, len(results))
	lineDataPredicted := make([]opts.LineData, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			continue
		}
		for i := 0; i < len(r.Actual); i++ {
			idx = append(idx, len(idx))
			lineDataActual = append(lineDataActual, opts.LineData{Value: r.Actual[i]})
			lineDataPredicted = append(lineDataPredicted, opts.LineData{Value: r.Predicted[i]})
		}
	}

	line.SetXAxis(idx).
		AddSeries("Actual", lineDataActual).
		AddSeries("Predicted", lineDataPredicted)
	return line
}

// BarFoldScores generates an echart bar chart with one bar per fold for a
// single statistic. Failed folds chart as zero-height bars.
func BarFoldScores(title string, results []*FoldResult, statFunc func(*FoldResult) float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	folds := make([]string, 0, len(results))
	barData := make([]opts.BarData, 0, len(results))
	for _, r := range results {
		folds = append(folds, fmt.Sprintf("fold %d", r.Fold))
		val := 0.0
		if !r.Failed() {
			val = statFunc(r)
		}
		barData = append(barData, opts.BarData{Value: val})
	}

	bar.SetXAxis(folds).AddSeries(title, barData)
	return bar
}

// PlotResults uses the Apache Echarts library to generate an html file
// showing the out-of-fold predictions and the per-fold accuracy statistics.
func (c *CrossValidator) PlotResults(path string) error {
	if !c.fitted {
		return ErrUntrainedRun
	}

	page := components.NewPage()
	page.AddCharts(
		LinePredictedVsActual(c.results),
		BarFoldScores("RMSE", c.results, func(r *FoldResult) float64 { return r.Scores.RMSE }),
		BarFoldScores("MAE", c.results, func(r *FoldResult) float64 { return r.Scores.MAE }),
		BarFoldScores("R-Squared", c.results, func(r *FoldResult) float64 { return r.Scores.RSquared }),
	)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	return page.Render(io.MultiWriter(file))
}
