// Package scores computes out-of-fold accuracy statistics and their
// cross-fold summaries.
package scores

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoSamples      = errors.New("no samples to score")
)

// Scores tracks the fit statistics of one fold's held-out rows. MAPE divides
// by the raw held-out label, so any zero label makes the fold's MAPE the NaN
// sentinel rather than dropping the row.
type Scores struct {
	PearsonR float64 `json:"pearson_r"`
	RSquared float64 `json:"r_squared"`
	MAE      float64 `json:"mean_absolute_error"`
	MSE      float64 `json:"mean_squared_error"`
	RMSE     float64 `json:"root_mean_squared_error"`
	MAPE     float64 `json:"mean_average_percent_error"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return nil, ErrNoSamples
	}

	var mae, mse, mape float64
	var zeroLabel bool
	for i := 0; i < len(actual); i++ {
		absDiff := math.Abs(actual[i] - predicted[i])
		mae += absDiff
		mse += absDiff * absDiff
		if actual[i] == 0 {
			zeroLabel = true
			continue
		}
		mape += absDiff / actual[i]
	}
	n := float64(len(actual))
	mae /= n
	mse /= n
	mape /= n
	if zeroLabel {
		mape = math.NaN()
	}

	pearsonR := stat.Correlation(actual, predicted, nil)

	return &Scores{
		PearsonR: pearsonR,
		RSquared: pearsonR * pearsonR,
		MAE:      mae,
		MSE:      mse,
		RMSE:     math.Sqrt(mse),
		MAPE:     mape,
	}, nil
}

// NaNScores returns a Scores with every statistic set to NaN, standing in for
// a fold whose fit failed so that cross-fold summaries reflect the failure.
func NaNScores() *Scores {
	nan := math.NaN()
	return &Scores{
		PearsonR: nan,
		RSquared: nan,
		MAE:      nan,
		MSE:      nan,
		RMSE:     nan,
		MAPE:     nan,
	}
}

// Stat holds the mean and sample standard deviation of one statistic across
// all folds.
type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summary aggregates per-fold scores across every fold. NaN fold statistics
// propagate into the mean by standard NaN arithmetic.
type Summary struct {
	Folds    int  `json:"folds"`
	PearsonR Stat `json:"pearson_r"`
	RSquared Stat `json:"r_squared"`
	MAE      Stat `json:"mean_absolute_error"`
	MSE      Stat `json:"mean_squared_error"`
	RMSE     Stat `json:"root_mean_squared_error"`
	MAPE     Stat `json:"mean_average_percent_error"`
}

// NewSummary reduces per-fold scores into per-statistic mean and sample
// standard deviation. A nil entry represents a failed fold and contributes
// NaN to every statistic.
func NewSummary(folds []*Scores) (*Summary, error) {
	if len(folds) == 0 {
		return nil, ErrNoSamples
	}

	pearsonR := make([]float64, 0, len(folds))
	rSquared := make([]float64, 0, len(folds))
	mae := make([]float64, 0, len(folds))
	mse := make([]float64, 0, len(folds))
	rmse := make([]float64, 0, len(folds))
	mape := make([]float64, 0, len(folds))
	for _, s := range folds {
		if s == nil {
			s = NaNScores()
		}
		pearsonR = append(pearsonR, s.PearsonR)
		rSquared = append(rSquared, s.RSquared)
		mae = append(mae, s.MAE)
		mse = append(mse, s.MSE)
		rmse = append(rmse, s.RMSE)
		mape = append(mape, s.MAPE)
	}

	return &Summary{
		Folds:    len(folds),
		PearsonR: newStat(pearsonR),
		RSquared: newStat(rSquared),
		MAE:      newStat(mae),
		MSE:      newStat(mse),
		RMSE:     newStat(rmse),
		MAPE:     newStat(mape),
	}, nil
}

func newStat(vals []float64) Stat {
	mean, stddev := stat.MeanStdDev(vals, nil)
	return Stat{
		Mean:   mean,
		StdDev: stddev,
	}
}
