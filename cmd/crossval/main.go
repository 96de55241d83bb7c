// Command crossval runs k-fold cross-validated OLS regression over a CSV
// dataset and renders the accuracy and coefficient reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	crossval "github.com/aouyang1/go-crossval"
	"github.com/aouyang1/go-crossval/dataset"
	"github.com/aouyang1/go-crossval/fold"
	"github.com/aouyang1/go-crossval/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errNoLabelColumn = errors.New("no label column specified")

var rootCmd = &cobra.Command{
	Use:   "crossval",
	Short: "k-fold cross-validated OLS regression over tabular data",
	Long: `crossval fits one ordinary least squares model per fold of a dataset
partition, scores every held-out slice, and reports accuracy statistics and
coefficient stability across folds.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "cross-validate a CSV dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := dataset.ReadCSVFile(viper.GetString("data"))
		if err != nil {
			return fmt.Errorf("unable to read dataset, %w", err)
		}

		labelCol := viper.GetString("label")
		if labelCol == "" {
			return errNoLabelColumn
		}
		labels, err := tbl.Pop(labelCol)
		if err != nil {
			return fmt.Errorf("unable to extract label column, %w", err)
		}

		return crossValidate(tbl, labels)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "cross-validate a synthetic simulated dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		simOpt := dataset.NewDefaultSimulateOptions()
		simOpt.Rows = viper.GetInt("rows")
		simOpt.Seed = uint64(viper.GetInt("seed"))

		tbl, labels, err := dataset.Simulate(simOpt)
		if err != nil {
			return fmt.Errorf("unable to simulate dataset, %w", err)
		}
		return crossValidate(tbl, labels)
	},
}

func crossValidate(tbl *dataset.Table, labels []float64) error {
	folds, err := loadFolds(tbl.Rows())
	if err != nil {
		return err
	}

	opt := &crossval.Options{
		OLS: &models.OLSOptions{
			FitIntercept: viper.GetBool("intercept"),
		},
		Parallelization: viper.GetInt("parallel"),
		FillNA:          viper.GetBool("fill-na"),
		Normalize:       viper.GetBool("normalize"),
		Stats:           viper.GetBool("stats"),
		Coefficients:    viper.GetBool("coefficients"),
		Plots:           viper.GetBool("plots"),
		AdvStats:        viper.GetBool("adv-stats"),
		Deficiency:      viper.GetBool("deficiency"),
	}

	cv, err := crossval.New(opt)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := cv.Fit(ctx, tbl, labels, folds); err != nil {
		return fmt.Errorf("unable to cross-validate, %w", err)
	}

	runID := uuid.NewString()

	r, err := cv.Report()
	if err != nil {
		return err
	}
	r.RunID = runID

	if jsonPath := viper.GetString("json"); jsonPath != "" {
		data, err := r.JSON()
		if err != nil {
			return fmt.Errorf("unable to serialize report, %w", err)
		}
		path := strings.ReplaceAll(jsonPath, "{run}", runID)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	} else if err := r.TablePrint(os.Stdout, "", "  "); err != nil {
		return err
	}

	if opt.Plots {
		path := strings.ReplaceAll(viper.GetString("plot-path"), "{run}", runID)
		if err := cv.PlotResults(path); err != nil {
			return fmt.Errorf("unable to render plots, %w", err)
		}
	}
	return nil
}

func loadFolds(rows int) ([]fold.Fold, error) {
	if foldFile := viper.GetString("fold-file"); foldFile != "" {
		return readFoldFile(foldFile)
	}
	return fold.KFold(rows, viper.GetInt("folds"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "optional config file")
	pf.Int("folds", 5, "number of contiguous folds when no fold file is given")
	pf.String("fold-file", "", "yaml file listing held-out row indices per fold")
	pf.Bool("intercept", true, "fit an intercept term")
	pf.Int("parallel", 0, "concurrent fold fits, 0 for one per cpu")
	pf.Duration("timeout", 0, "overall run deadline, 0 for none")
	pf.Bool("fill-na", false, "replace NaN cells with the column mean before fitting")
	pf.Bool("normalize", false, "min-max scale each feature column before fitting")
	pf.Bool("stats", true, "report cross-fold summary statistics")
	pf.Bool("coefficients", true, "report the coefficient table")
	pf.Bool("adv-stats", false, "report per-fold detail, VIF, and residual outliers")
	pf.Bool("deficiency", false, "report the full-dataset condition number")
	pf.Bool("plots", false, "render diagnostic charts to html")
	pf.String("plot-path", "crossval_{run}.html", "output path for charts, {run} expands to the run id")
	pf.String("json", "", "write the report as json to this path instead of printing")

	runCmd.Flags().String("data", "", "csv dataset with a header row")
	runCmd.Flags().String("label", "", "name of the label column")

	demoCmd.Flags().Int("rows", 365, "rows to simulate")
	demoCmd.Flags().Int("seed", 42, "simulation seed")

	rootCmd.AddCommand(runCmd, demoCmd)

	viper.SetEnvPrefix("CROSSVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	cobra.CheckErr(viper.BindPFlags(pf))
	cobra.CheckErr(viper.BindPFlags(runCmd.Flags()))
	cobra.CheckErr(viper.BindPFlags(demoCmd.Flags()))
}

func loadConfig() {
	cfgFile := viper.GetString("config")
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: unable to read config file: %v\n", err)
	}
}
