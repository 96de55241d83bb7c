package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aouyang1/go-crossval/models"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMinimumFeatures    = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch = errors.New("some feature length is not consistent")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
	ErrNoDesignMatrix     = errors.New("no design matrix")
	ErrSVDFailed          = errors.New("unable to factorize design matrix")
)

func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy)) * upperPerc))
	if upperIdx >= len(yCopy) {
		upperIdx = len(yCopy) - 1
	}

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] >= upper || y[i] <= lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// ConditionNumber computes the 2-norm condition number of the design matrix,
// the ratio of its largest to smallest singular value. A singular matrix
// reports +Inf. This is the rank-deficiency diagnostic run once over the full
// dataset ahead of any fold fit.
func ConditionNumber(x mat.Matrix) (float64, error) {
	if x == nil {
		return 0, ErrNoDesignMatrix
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDNone); !ok {
		return 0, ErrSVDFailed
	}
	values := svd.Values(nil)

	smallest := values[len(values)-1]
	if smallest == 0 {
		return math.Inf(1), nil
	}
	return values[0] / smallest, nil
}

// VarianceInflationFactors regresses each feature on all the others and
// reports 1/(1-R2) per feature name. Values well above 1 flag collinear
// features ahead of interpreting the coefficient table.
func VarianceInflationFactors(x mat.Matrix, names []string) (map[string]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n < 2 {
		return nil, ErrMinimumFeatures
	}
	if n != len(names) {
		return nil, fmt.Errorf("%d feature names for %d columns, %w", len(names), n, ErrFeatureLenMismatch)
	}
	if m < 2 {
		return nil, ErrFeatureLen
	}

	vif := make(map[string]float64, n)
	others := mat.NewDense(m, n-1, nil)
	target := mat.NewDense(m, 1, nil)
	for j := 0; j < n; j++ {
		target.SetCol(0, mat.Col(nil, j, x))
		c := 0
		for k := 0; k < n; k++ {
			if k == j {
				continue
			}
			others.SetCol(c, mat.Col(nil, k, x))
			c++
		}

		model, err := models.NewOLSRegression(nil)
		if err != nil {
			return nil, err
		}
		if err := model.Fit(others, target); err != nil {
			// a perfectly collinear feature has unbounded inflation
			if errors.Is(err, models.ErrRankDeficient) {
				vif[names[j]] = math.Inf(1)
				continue
			}
			return nil, fmt.Errorf("unable to fit feature %q against others, %w", names[j], err)
		}
		r2, err := model.Score(others, target)
		if err != nil {
			return nil, fmt.Errorf("unable to score feature %q against others, %w", names[j], err)
		}
		if r2 >= 1.0 {
			vif[names[j]] = math.Inf(1)
			continue
		}
		vif[names[j]] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
