package forest

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/grove/core/model"
	"github.com/YuminosukeSato/grove/metrics"
	groveErrors "github.com/YuminosukeSato/grove/pkg/errors"
	"github.com/YuminosukeSato/grove/pkg/log"
)

// Regressor is a scikit-learn style facade over Train and Predict: a
// local linear forest regressor with chainable option setters and a
// guarded fitted state.
type Regressor struct {
	state *model.StateManager

	// Training configuration; applied at Fit time.
	NumTrees       int
	MinLeafSize    int
	MaxDepth       int
	MTry           int
	SampleFraction float64
	Replace        bool
	Honesty        bool
	SplitRule      SplitRule
	SplitLambda    float64
	SplitVariables []int
	LLSplitCutoff  int
	Seed           uint64
	NumWorkers     int
	Verbosity      int

	// Prediction configuration; applied at Predict time.
	LinearVariables  []int
	Lambda           float64
	TuneLambda       bool
	PenaltyMode      PenaltyMode
	EstimateVariance bool

	forest *Forest
}

// NewRegressor creates a Regressor with default parameters.
func NewRegressor() *Regressor {
	cfg := DefaultTrainConfig()
	return &Regressor{
		state:          model.NewStateManager(),
		NumTrees:       cfg.NumTrees,
		MinLeafSize:    cfg.MinLeafSize,
		MaxDepth:       cfg.MaxDepth,
		MTry:           cfg.MTry,
		SampleFraction: cfg.SampleFraction,
		Replace:        cfg.Replace,
		Honesty:        cfg.Honesty,
		SplitRule:      cfg.SplitRule,
		SplitLambda:    cfg.SplitLambda,
		LLSplitCutoff:  cfg.LLSplitCutoff,
		Seed:           cfg.Seed,
		Lambda:         0.1,
	}
}

// WithNumTrees sets the ensemble size.
func (r *Regressor) WithNumTrees(n int) *Regressor {
	r.NumTrees = n
	return r
}

// WithMinLeafSize sets the minimum leaf size.
func (r *Regressor) WithMinLeafSize(n int) *Regressor {
	r.MinLeafSize = n
	return r
}

// WithHonesty toggles honest splitting.
func (r *Regressor) WithHonesty(honesty bool) *Regressor {
	r.Honesty = honesty
	return r
}

// WithSplitRule selects the split objective.
func (r *Regressor) WithSplitRule(rule SplitRule) *Regressor {
	r.SplitRule = rule
	return r
}

// WithSplitLambda sets the split-time ridge penalty.
func (r *Regressor) WithSplitLambda(lambda float64) *Regressor {
	r.SplitLambda = lambda
	return r
}

// WithSampleFraction sets the per-tree subsample fraction.
func (r *Regressor) WithSampleFraction(fraction float64) *Regressor {
	r.SampleFraction = fraction
	return r
}

// WithSeed sets the random seed.
func (r *Regressor) WithSeed(seed uint64) *Regressor {
	r.Seed = seed
	return r
}

// WithLinearVariables selects the covariates used for the local-linear
// correction at prediction time.
func (r *Regressor) WithLinearVariables(vars []int) *Regressor {
	r.LinearVariables = vars
	return r
}

// WithLambda fixes the prediction-time ridge penalty, bypassing the
// grid search.
func (r *Regressor) WithLambda(lambda float64) *Regressor {
	r.Lambda = lambda
	r.TuneLambda = false
	return r
}

// WithTunedLambda selects the prediction-time penalty by grid search.
func (r *Regressor) WithTunedLambda() *Regressor {
	r.TuneLambda = true
	return r
}

// WithEstimateVariance requests variance estimates from Predict.
func (r *Regressor) WithEstimateVariance(estimate bool) *Regressor {
	r.EstimateVariance = estimate
	return r
}

// WithVerbosity sets the logging verbosity.
func (r *Regressor) WithVerbosity(v int) *Regressor {
	r.Verbosity = v
	return r
}

// TrainConfig materializes the training configuration.
func (r *Regressor) TrainConfig() TrainConfig {
	return TrainConfig{
		NumTrees:       r.NumTrees,
		MinLeafSize:    r.MinLeafSize,
		MaxDepth:       r.MaxDepth,
		MTry:           r.MTry,
		SampleFraction: r.SampleFraction,
		Replace:        r.Replace,
		Honesty:        r.Honesty,
		SplitRule:      r.SplitRule,
		SplitLambda:    r.SplitLambda,
		SplitVariables: r.SplitVariables,
		LLSplitCutoff:  r.LLSplitCutoff,
		Seed:           r.Seed,
		NumWorkers:     r.NumWorkers,
		Verbosity:      r.Verbosity,
	}
}

// PredictConfig materializes the prediction configuration.
func (r *Regressor) PredictConfig() PredictConfig {
	return PredictConfig{
		LinearVariables:  r.LinearVariables,
		Lambda:           r.Lambda,
		TuneLambda:       r.TuneLambda,
		PenaltyMode:      r.PenaltyMode,
		EstimateVariance: r.EstimateVariance,
		NumWorkers:       r.NumWorkers,
	}
}

// Fit trains the forest.
func (r *Regressor) Fit(X, y mat.Matrix) (err error) {
	defer groveErrors.Recover(&err, "Regressor.Fit")

	start := time.Now()
	forest, err := Train(X, y, r.TrainConfig())
	if err != nil {
		return err
	}

	r.forest = forest
	rows, cols := X.Dims()
	r.state.SetDimensions(cols, rows)
	r.state.SetFitted()

	if r.Verbosity > 0 {
		logger := log.GetLoggerWithName("forest.regressor")
		logger.Info("Model fitted",
			log.ModelNameKey, "Regressor",
			log.OperationKey, "fit",
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	return nil
}

// Predict returns a column vector of predictions for X.
func (r *Regressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	pred, err := r.predict(X)
	if err != nil {
		return nil, err
	}
	rows := len(pred.Values)
	out := mat.NewDense(rows, 1, nil)
	for i, v := range pred.Values {
		out.Set(i, 0, v)
	}
	return out, nil
}

// PredictWithVariance returns predictions and variance estimates as
// column vectors, regardless of the EstimateVariance setting.
func (r *Regressor) PredictWithVariance(X mat.Matrix) (preds, variances mat.Matrix, err error) {
	defer groveErrors.Recover(&err, "Regressor.PredictWithVariance")

	if !r.state.IsFitted() {
		return nil, nil, groveErrors.NewNotFittedError("Regressor", "PredictWithVariance")
	}

	cfg := r.PredictConfig()
	cfg.EstimateVariance = true
	pred, err := r.forest.Predict(X, cfg)
	if err != nil {
		return nil, nil, err
	}

	rows := len(pred.Values)
	p := mat.NewDense(rows, 1, nil)
	v := mat.NewDense(rows, 1, nil)
	for i := range pred.Values {
		p.Set(i, 0, pred.Values[i])
		v.Set(i, 0, pred.Variances[i])
	}
	return p, v, nil
}

// Score computes R² on the given test data.
func (r *Regressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.predict(X)
	if err != nil {
		return 0, err
	}

	rows, _ := y.Dims()
	yTrue := mat.NewVecDense(rows, nil)
	yPred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.Values[i])
	}

	return metrics.R2Score(yTrue, yPred)
}

// Forest exposes the trained forest, or nil before Fit.
func (r *Regressor) Forest() *Forest { return r.forest }

// IsFitted reports whether Fit has completed.
func (r *Regressor) IsFitted() bool { return r.state.IsFitted() }

func (r *Regressor) predict(X mat.Matrix) (pred *Prediction, err error) {
	defer groveErrors.Recover(&err, "Regressor.Predict")

	if !r.state.IsFitted() {
		return nil, groveErrors.NewNotFittedError("Regressor", "Predict")
	}
	return r.forest.Predict(X, r.PredictConfig())
}
