package crossval

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/aouyang1/go-crossval/scores"
	"github.com/aouyang1/go-crossval/stats"
	"github.com/goccy/go-json"
)

const (
	outlierLowerPercentile = 0.25
	outlierUpperPercentile = 0.75
	outlierTukeyFactor     = 1.5
)

// FoldFailure names a fold whose fit or scoring failed and the kind of
// failure.
type FoldFailure struct {
	Fold int    `json:"fold"`
	Kind string `json:"kind"`
}

// FoldDetail is one fold's scores and intercept for the advanced view.
type FoldDetail struct {
	Fold      int            `json:"fold"`
	Scores    *scores.Scores `json:"scores,omitempty"`
	Intercept *float64       `json:"intercept,omitempty"`
	Failure   string         `json:"failure,omitempty"`
}

// CoefficientRow is one feature's weight across every fold plus its summary.
// Weights from failed folds are nil.
type CoefficientRow struct {
	Feature string     `json:"feature"`
	Weights []*float64 `json:"weights"`
	Mean    *float64   `json:"mean"`
	StdDev  *float64   `json:"std_dev"`
}

// Report is the presentation view of a finished run. Sections are populated
// according to the run's view flags; fold failures are always present.
type Report struct {
	RunID           string              `json:"run_id,omitempty"`
	Folds           int                 `json:"folds"`
	Summary         *scores.Summary     `json:"summary,omitempty"`
	Coefficients    []CoefficientRow    `json:"coefficients,omitempty"`
	FoldDetail      []FoldDetail        `json:"fold_detail,omitempty"`
	VIF             map[string]*float64 `json:"variance_inflation_factors,omitempty"`
	OutlierRows     []int               `json:"residual_outlier_rows,omitempty"`
	ConditionNumber *float64            `json:"condition_number,omitempty"`
	Failures        []FoldFailure       `json:"failures,omitempty"`

	// raw values for text rendering where NaN and Inf stay printable
	features   []string
	vifRaw     map[string]float64
	condNumber float64
	deficiency bool
}

// Report assembles the presentation view of the run according to the
// configured flags. Stats gates the cross-fold summary, Coefficients the
// coefficient table, AdvStats the per-fold detail plus collinearity and
// residual-outlier diagnostics, and Deficiency the condition number line.
func (c *CrossValidator) Report() (*Report, error) {
	if !c.fitted {
		return nil, ErrUntrainedRun
	}

	r := &Report{
		Folds:      len(c.results),
		features:   c.features,
		condNumber: c.conditionNumber,
		deficiency: c.opt.Deficiency,
	}

	for _, res := range c.results {
		if res.Failed() {
			r.Failures = append(r.Failures, FoldFailure{
				Fold: res.Fold,
				Kind: res.Err.Error(),
			})
		}
	}

	if c.opt.Stats {
		r.Summary = c.summary
	}

	if c.opt.Coefficients {
		ct := c.coefficients
		mean := ct.Mean()
		stddev := ct.StdDev()
		for i, feature := range ct.Features() {
			weights, err := ct.FeatureWeights(feature)
			if err != nil {
				return nil, err
			}
			row := CoefficientRow{
				Feature: feature,
				Weights: make([]*float64, 0, len(weights)),
				Mean:    nullable(mean[i]),
				StdDev:  nullable(stddev[i]),
			}
			for _, w := range weights {
				row.Weights = append(row.Weights, nullable(w))
			}
			r.Coefficients = append(r.Coefficients, row)
		}
	}

	if c.opt.AdvStats {
		for _, res := range c.results {
			detail := FoldDetail{Fold: res.Fold}
			if res.Failed() {
				detail.Failure = res.Err.Error()
			} else {
				detail.Scores = res.Scores
				detail.Intercept = nullable(res.Model.Intercept())
			}
			r.FoldDetail = append(r.FoldDetail, detail)
		}

		if len(c.features) >= 2 {
			vif, err := stats.VarianceInflationFactors(c.x, c.features)
			if err != nil {
				return nil, fmt.Errorf("unable to compute variance inflation factors, %w", err)
			}
			r.vifRaw = vif
			r.VIF = make(map[string]*float64, len(vif))
			for name, v := range vif {
				r.VIF[name] = nullable(v)
			}
		}

		r.OutlierRows = stats.DetectOutliers(
			c.residuals(),
			outlierLowerPercentile,
			outlierUpperPercentile,
			outlierTukeyFactor,
		)
	}

	if c.opt.Deficiency {
		r.ConditionNumber = nullable(c.conditionNumber)
	}

	return r, nil
}

// JSON serializes the report.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// TablePrint renders the report as aligned plain-text tables.
func (r *Report) TablePrint(w io.Writer, prefix, indent string) error {
	fmt.Fprintf(w, "%sCross-validation over %d folds\n", prefix, r.Folds)
	if r.RunID != "" {
		fmt.Fprintf(w, "%srun: %s\n", prefix, r.RunID)
	}

	for _, f := range r.Failures {
		fmt.Fprintf(w, "%sfold %d failed: %s\n", prefix, f.Fold, f.Kind)
	}

	if r.deficiency {
		fmt.Fprintf(w, "%scondition number: %.6g\n", prefix, r.condNumber)
	}

	if r.Summary != nil {
		fmt.Fprintf(w, "\n%sGlobal statistics\n", prefix)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s%sstatistic\tmean\tstd dev\n", prefix, indent)
		rows := []struct {
			name string
			stat scores.Stat
		}{
			{"pearson_r", r.Summary.PearsonR},
			{"r_squared", r.Summary.RSquared},
			{"mae", r.Summary.MAE},
			{"mse", r.Summary.MSE},
			{"rmse", r.Summary.RMSE},
			{"mape", r.Summary.MAPE},
		}
		for _, row := range rows {
			fmt.Fprintf(tw, "%s%s%s\t%.6g\t%.6g\n", prefix, indent, row.name, row.stat.Mean, row.stat.StdDev)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Coefficients) > 0 {
		fmt.Fprintf(w, "\n%sCoefficients\n", prefix)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s%sfeature", prefix, indent)
		for i := range r.Coefficients[0].Weights {
			fmt.Fprintf(tw, "\tfold %d", i)
		}
		fmt.Fprint(tw, "\tmean\tstd dev\n")
		for _, row := range r.Coefficients {
			fmt.Fprintf(tw, "%s%s%s", prefix, indent, row.Feature)
			for _, wgt := range row.Weights {
				fmt.Fprintf(tw, "\t%s", formatNullable(wgt))
			}
			fmt.Fprintf(tw, "\t%s\t%s\n", formatNullable(row.Mean), formatNullable(row.StdDev))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.FoldDetail) > 0 {
		fmt.Fprintf(w, "\n%sPer-fold statistics\n", prefix)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s%sfold\tpearson_r\tr_squared\tmae\tmse\trmse\tmape\tintercept\n", prefix, indent)
		for _, detail := range r.FoldDetail {
			if detail.Failure != "" {
				fmt.Fprintf(tw, "%s%s%d\t%s\n", prefix, indent, detail.Fold, detail.Failure)
				continue
			}
			s := detail.Scores
			fmt.Fprintf(tw, "%s%s%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%s\n",
				prefix, indent, detail.Fold, s.PearsonR, s.RSquared, s.MAE, s.MSE, s.RMSE, s.MAPE,
				formatNullable(detail.Intercept))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.vifRaw) > 0 {
		fmt.Fprintf(w, "\n%sVariance inflation factors\n", prefix)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, feature := range r.features {
			if v, exists := r.vifRaw[feature]; exists {
				fmt.Fprintf(tw, "%s%s%s\t%.6g\n", prefix, indent, feature, v)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.OutlierRows) > 0 {
		fmt.Fprintf(w, "\n%sResidual outlier rows: %v\n", prefix, r.OutlierRows)
	}

	return nil
}

func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func formatNullable(f *float64) string {
	if f == nil {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", *f)
}
