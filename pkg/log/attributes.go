// Standard attribute keys for grove log records. Using these keys keeps
// training and prediction logs consistent across components.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "Regressor".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey identifies which component emitted the record,
	// e.g. "forest.trainer", "forest.predictor".
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of covariates (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Forest-specific context.
const (
	// TreesKey is the number of trees in the forest.
	TreesKey = "forest.trees"

	// TreeIndexKey is a single tree's index during training.
	TreeIndexKey = "forest.tree_index"

	// SeedKey is the random seed used for training.
	SeedKey = "forest.seed"

	// PenaltyKey is a ridge penalty value.
	PenaltyKey = "forest.penalty"
)

// Performance metrics.
const (
	// DurationMsKey records the execution time in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records a loss value during tuning or evaluation.
	LossKey = "metrics.loss"

	// R2ScoreKey records the coefficient of determination.
	R2ScoreKey = "metrics.r2_score"
)
