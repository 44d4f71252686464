package forest

import (
	"math"

	"github.com/YuminosukeSato/grove/pkg/errors"
)

// SplitRule selects the objective used to evaluate candidate splits.
type SplitRule int

const (
	// SplitCART minimizes the weighted within-child response variance.
	SplitCART SplitRule = iota

	// SplitRidgeResidual fits a ridge regression on the node's
	// observations and evaluates candidate splits on the residuals of
	// that fit. Experimental; disable by using SplitCART.
	SplitRidgeResidual
)

// PenaltyMode selects how the ridge penalty weights the covariates.
type PenaltyMode int

const (
	// PenaltyIdentity penalizes all slope coefficients equally.
	PenaltyIdentity PenaltyMode = iota

	// PenaltyCovariance scales the penalty by the weighted covariance of
	// the selected covariates (whitened ridge).
	PenaltyCovariance
)

// TrainConfig holds the forest training configuration.
type TrainConfig struct {
	// NumTrees is the ensemble size.
	NumTrees int

	// MinLeafSize is the minimum number of structure-sample observations
	// per leaf. A node smaller than twice this size becomes a leaf.
	MinLeafSize int

	// MaxDepth limits tree depth; negative means unlimited.
	MaxDepth int

	// MTry is the number of candidate split variables drawn per node.
	// Zero selects ceil(sqrt(p)).
	MTry int

	// SampleFraction is the per-tree subsample size as a fraction of the
	// training set.
	SampleFraction float64

	// Replace draws the subsample with replacement (bootstrap) instead
	// of without.
	Replace bool

	// Honesty splits each tree's subsample into a structure half used
	// for split selection and an honest half used for leaf weights.
	Honesty bool

	// SplitRule selects the split objective.
	SplitRule SplitRule

	// SplitLambda is the ridge penalty used by SplitRidgeResidual.
	SplitLambda float64

	// SplitPenaltyMode is the penalty weighting used by SplitRidgeResidual.
	SplitPenaltyMode PenaltyMode

	// SplitVariables restricts the admissible split variables and the
	// covariates of the split-time ridge fit; nil admits every variable.
	SplitVariables []int

	// LLSplitCutoff is the node size above which SplitRidgeResidual
	// reuses coefficients pre-fit on the full dataset instead of fitting
	// per node. Negative selects ceil(sqrt(n)); zero disables the
	// shortcut.
	LLSplitCutoff int

	// SampleWeights are optional per-observation weights; nil means
	// uniform.
	SampleWeights []float64

	// Seed drives all randomness. Tree b draws from an independent
	// PCG stream seeded with (Seed, b), so results are reproducible
	// regardless of worker scheduling.
	Seed uint64

	// NumWorkers bounds training parallelism; non-positive uses all CPUs.
	NumWorkers int

	// Verbosity enables progress logging when positive.
	Verbosity int
}

// DefaultTrainConfig returns the default training configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		NumTrees:       500,
		MinLeafSize:    5,
		MaxDepth:       -1,
		MTry:           0,
		SampleFraction: 0.5,
		Replace:        false,
		Honesty:        true,
		SplitRule:      SplitCART,
		SplitLambda:    0.1,
		LLSplitCutoff:  -1,
		Seed:           42,
	}
}

// mtry resolves the per-node candidate variable count for p covariates.
func (c *TrainConfig) mtry(p int) int {
	if c.MTry > 0 {
		if c.MTry > p {
			return p
		}
		return c.MTry
	}
	m := int(math.Ceil(math.Sqrt(float64(p))))
	if m < 1 {
		m = 1
	}
	if m > p {
		m = p
	}
	return m
}

// llSplitCutoff resolves the full-dataset shortcut threshold for n rows.
func (c *TrainConfig) llSplitCutoff(n int) int {
	if c.LLSplitCutoff >= 0 {
		return c.LLSplitCutoff
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

func (c *TrainConfig) validate(n, p int) error {
	if c.NumTrees <= 0 {
		return errors.NewValidationError("NumTrees", "must be positive", c.NumTrees)
	}
	if c.MinLeafSize <= 0 {
		return errors.NewValidationError("MinLeafSize", "must be positive", c.MinLeafSize)
	}
	if c.MinLeafSize >= n {
		return errors.NewValidationError("MinLeafSize", "must be smaller than the sample size", c.MinLeafSize)
	}
	if c.SampleFraction <= 0 || c.SampleFraction > 1 {
		return errors.NewValidationError("SampleFraction", "must be in (0, 1]", c.SampleFraction)
	}
	if c.SplitLambda < 0 {
		return errors.NewValidationError("SplitLambda", "must be non-negative", c.SplitLambda)
	}
	if c.MTry > p {
		return errors.NewValidationError("MTry", "exceeds the number of covariates", c.MTry)
	}
	for _, v := range c.SplitVariables {
		if v < 0 || v >= p {
			return errors.NewValidationError("SplitVariables", "variable index out of range", v)
		}
	}
	if c.SampleWeights != nil {
		if len(c.SampleWeights) != n {
			return errors.NewDimensionError("TrainConfig.SampleWeights", n, len(c.SampleWeights), 0)
		}
		for _, w := range c.SampleWeights {
			if w < 0 {
				return errors.NewValidationError("SampleWeights", "must be non-negative", w)
			}
		}
	}
	return nil
}

// PredictConfig holds the prediction-time configuration.
type PredictConfig struct {
	// LinearVariables selects the covariates used for the local-linear
	// correction; empty selects the plain weighted-mean prediction.
	LinearVariables []int

	// Lambda is the prediction-time ridge penalty. Ignored when
	// TuneLambda is set.
	Lambda float64

	// TuneLambda selects the penalty by an internal grid search
	// minimizing leave-self-out error on the training weights.
	TuneLambda bool

	// PenaltyMode is the prediction-time penalty weighting.
	PenaltyMode PenaltyMode

	// EstimateVariance requests a variance estimate per query point.
	EstimateVariance bool

	// NumWorkers bounds prediction parallelism; non-positive uses all CPUs.
	NumWorkers int
}

// DefaultPredictConfig returns the default prediction configuration:
// plain forest prediction without variance estimates.
func DefaultPredictConfig() PredictConfig {
	return PredictConfig{Lambda: 0.1}
}

func (c *PredictConfig) validate(p int) error {
	if c.Lambda < 0 {
		return errors.NewValidationError("Lambda", "must be non-negative", c.Lambda)
	}
	for _, v := range c.LinearVariables {
		if v < 0 || v >= p {
			return errors.NewValidationError("LinearVariables", "variable index out of range", v)
		}
	}
	return nil
}

// Prediction holds per-query predictions and, when requested, variance
// estimates.
type Prediction struct {
	Values    []float64
	Variances []float64 // nil unless EstimateVariance was set
}
