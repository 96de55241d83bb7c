package scores

import (
	"math"

	"github.com/goccy/go-json"
)

// JSON has no literal for NaN or Inf, so score statistics marshal those as
// null and read null back as NaN.

type scoresJSON struct {
	PearsonR *float64 `json:"pearson_r"`
	RSquared *float64 `json:"r_squared"`
	MAE      *float64 `json:"mean_absolute_error"`
	MSE      *float64 `json:"mean_squared_error"`
	RMSE     *float64 `json:"root_mean_squared_error"`
	MAPE     *float64 `json:"mean_average_percent_error"`
}

func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoresJSON{
		PearsonR: toNullable(s.PearsonR),
		RSquared: toNullable(s.RSquared),
		MAE:      toNullable(s.MAE),
		MSE:      toNullable(s.MSE),
		RMSE:     toNullable(s.RMSE),
		MAPE:     toNullable(s.MAPE),
	})
}

func (s *Scores) UnmarshalJSON(data []byte) error {
	var sj scoresJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	s.PearsonR = fromNullable(sj.PearsonR)
	s.RSquared = fromNullable(sj.RSquared)
	s.MAE = fromNullable(sj.MAE)
	s.MSE = fromNullable(sj.MSE)
	s.RMSE = fromNullable(sj.RMSE)
	s.MAPE = fromNullable(sj.MAPE)
	return nil
}

type statJSON struct {
	Mean   *float64 `json:"mean"`
	StdDev *float64 `json:"std_dev"`
}

func (s Stat) MarshalJSON() ([]byte, error) {
	return json.Marshal(statJSON{
		Mean:   toNullable(s.Mean),
		StdDev: toNullable(s.StdDev),
	})
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	var sj statJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	s.Mean = fromNullable(sj.Mean)
	s.StdDev = fromNullable(sj.StdDev)
	return nil
}

func toNullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func fromNullable(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
