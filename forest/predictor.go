package forest

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/grove/core/parallel"
	"github.com/YuminosukeSato/grove/pkg/errors"
	"github.com/YuminosukeSato/grove/pkg/log"
)

// lambdaGrid is the candidate grid for the automatic prediction-time
// penalty search. Ties resolve to the smaller penalty.
var lambdaGrid = []float64{0, 0.01, 0.1, 1, 10, 100}

// tuneMaxPoints caps how many training points the penalty search
// evaluates; points are taken at a fixed stride so the search stays
// deterministic.
const tuneMaxPoints = 50

// Predict produces one prediction per row of X. With LinearVariables
// empty each prediction is the forest-weighted mean response; otherwise
// the forest weights feed a ridge regression centered at the query
// point and the fitted intercept is returned. Variance estimates are
// attached when cfg.EstimateVariance is set.
//
// Queries are independent and evaluated in parallel; repeated calls
// with identical configuration return bit-identical results.
func (f *Forest) Predict(X mat.Matrix, cfg PredictConfig) (*Prediction, error) {
	rows, cols := X.Dims()
	if cols != f.data.cols {
		return nil, errors.NewDimensionError("Forest.Predict", f.data.cols, cols, 1)
	}
	if rows == 0 {
		return nil, errors.NewValueError("Forest.Predict", "empty query matrix")
	}
	if err := cfg.validate(f.data.cols); err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix("Forest.Predict", X, rows, cols); err != nil {
		return nil, err
	}

	lambda := cfg.Lambda
	if cfg.TuneLambda && len(cfg.LinearVariables) > 0 {
		lambda = f.tuneLambda(&cfg)
	}

	pred := &Prediction{Values: make([]float64, rows)}
	if cfg.EstimateVariance {
		pred.Variances = make([]float64, rows)
	}

	allIdx := f.allIndices()

	parallel.ParallelizeWorkers(rows, cfg.NumWorkers, func(start, end int) {
		x := make([]float64, f.data.cols)
		for q := start; q < end; q++ {
			for j := 0; j < f.data.cols; j++ {
				x[j] = X.At(q, j)
			}
			value, variance := f.predictOne(x, allIdx, &cfg, lambda)
			pred.Values[q] = value
			if cfg.EstimateVariance {
				pred.Variances[q] = variance
			}
		}
	})

	return pred, nil
}

// predictOne evaluates a single query point. The returned variance is
// meaningful only when cfg.EstimateVariance is set.
func (f *Forest) predictOne(x []float64, allIdx []int, cfg *PredictConfig, lambda float64) (float64, float64) {
	w := f.weights(x)

	var value float64
	var fit ridgeFit
	localLinear := len(cfg.LinearVariables) > 0

	if localLinear {
		fit = ridgeSolve(f.data, allIdx, w, x, cfg.LinearVariables, lambda, cfg.PenaltyMode)
		value = fit.Intercept
	} else {
		var total float64
		for _, wi := range w {
			total += wi
		}
		if total < minWeightMass {
			// Query landed in a zero-weight region
			value = weightedMean(f.data, allIdx, f.data.Weights)
		} else {
			var sum float64
			for i, wi := range w {
				sum += wi * f.data.Y[i]
			}
			value = sum / total
		}
	}

	if !cfg.EstimateVariance {
		return value, 0
	}

	return value, f.estimateVariance(x, value, &fit, localLinear)
}

// estimateVariance propagates per-tree leaf variability through the
// local regression: each observation's delta-method influence is
// aggregated into a per-tree statistic, and the between-tree sample
// variance of those statistics, scaled by 1/B, estimates the variance
// of the prediction. Degenerate ridge fits use the plain weighted-mean
// influence.
func (f *Forest) estimateVariance(x []float64, value float64, fit *ridgeFit, localLinear bool) float64 {
	var influence []float64
	if localLinear && !fit.Fallback {
		influence = fit.influence()
	}

	// Per-observation influence ψ_i
	psi := func(i int) float64 {
		if influence == nil {
			return f.data.Y[i] - value
		}
		u := influence[0]
		for j, v := range fit.Vars {
			u += influence[j+1] * (f.data.X.At(i, v) - fit.Anchor[j])
		}
		return u * (f.data.Y[i] - fit.predictRow(f.data, i))
	}

	b := len(f.Trees)
	stats := make([]float64, 0, b)
	for _, tree := range f.Trees {
		leaf := &tree.Nodes[tree.FindLeaf(x)]
		if len(leaf.Leaf) == 0 {
			continue
		}
		var sum float64
		for _, idx := range leaf.Leaf {
			sum += psi(idx)
		}
		stats = append(stats, sum/float64(len(leaf.Leaf)))
	}
	if len(stats) < 2 {
		return 0
	}

	var mean float64
	for _, s := range stats {
		mean += s
	}
	mean /= float64(len(stats))

	var ss float64
	for _, s := range stats {
		ss += (s - mean) * (s - mean)
	}
	variance := ss / float64(len(stats)-1) / float64(len(stats))
	if variance < 0 || math.IsNaN(variance) {
		return 0
	}
	return variance
}

// tuneLambda selects the prediction penalty from lambdaGrid by
// leave-self-out error: for a strided subset of training points, the
// point's own forest weight is zeroed, the remaining weights are
// renormalized, and each candidate penalty's ridge prediction is scored
// against the held-out response.
func (f *Forest) tuneLambda(cfg *PredictConfig) float64 {
	n := f.data.rows
	stride := n / tuneMaxPoints
	if stride < 1 {
		stride = 1
	}

	allIdx := f.allIndices()
	sqErr := make([]float64, len(lambdaGrid))
	x := make([]float64, f.data.cols)

	for i := 0; i < n; i += stride {
		f.data.row(i, x)
		w := f.weights(x)
		w[i] = 0

		var total float64
		for _, wi := range w {
			total += wi
		}
		if total < minWeightMass {
			continue
		}
		for pos := range w {
			w[pos] /= total
		}

		for l, lambda := range lambdaGrid {
			fit := ridgeSolve(f.data, allIdx, w, x, cfg.LinearVariables, lambda, cfg.PenaltyMode)
			diff := fit.Intercept - f.data.Y[i]
			sqErr[l] += diff * diff
		}
	}

	bestIdx := 0
	for l := 1; l < len(lambdaGrid); l++ {
		if sqErr[l] < sqErr[bestIdx] {
			bestIdx = l
		}
	}

	logger := log.GetLoggerWithName("forest.predictor")
	logger.Debug("Ridge penalty selected",
		log.OperationKey, "predict",
		log.PenaltyKey, lambdaGrid[bestIdx],
		log.LossKey, sqErr[bestIdx],
	)

	return lambdaGrid[bestIdx]
}

func (f *Forest) allIndices() []int {
	allIdx := make([]int, f.data.rows)
	for i := range allIdx {
		allIdx[i] = i
	}
	return allIdx
}
