package dataset

import (
	"math/rand/v2"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// SimulateOptions controls the synthetic regression dataset generator used by
// examples, benchmarks, and the CLI demo mode.
type SimulateOptions struct {
	Rows       int
	Seed       uint64
	NoiseScale float64
	Start      time.Time
}

func NewDefaultSimulateOptions() *SimulateOptions {
	return &SimulateOptions{
		Rows:       365,
		Seed:       42,
		NoiseScale: 0.5,
		Start:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Simulate builds a deterministic synthetic table of daily observations along
// with labels that are a known linear function of the features. The
// business_day column marks US working days so the dataset carries one binary
// regressor next to the continuous ones.
func Simulate(opt *SimulateOptions) (*Table, []float64, error) {
	if opt == nil {
		opt = NewDefaultSimulateOptions()
	}

	rnd := rand.New(rand.NewPCG(opt.Seed, opt.Seed+1))

	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)

	load := make([]float64, opt.Rows)
	temp := make([]float64, opt.Rows)
	businessDay := make([]float64, opt.Rows)
	labels := make([]float64, opt.Rows)
	for i := 0; i < opt.Rows; i++ {
		day := opt.Start.AddDate(0, 0, i)

		load[i] = 10.0 + 5.0*rnd.Float64()
		temp[i] = 20.0 + 10.0*rnd.NormFloat64()
		if c.IsWorkday(day) {
			businessDay[i] = 1.0
		}

		labels[i] = 3.0*load[i] - 0.5*temp[i] + 8.0*businessDay[i] + opt.NoiseScale*rnd.NormFloat64()
	}

	t, err := NewTable(
		[]string{"load", "temp", "business_day"},
		[][]float64{load, temp, businessDay},
	)
	if err != nil {
		return nil, nil, err
	}
	return t, labels, nil
}
