package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	groveErrors "github.com/YuminosukeSato/grove/pkg/errors"
)

func TestRegressorNotFitted(t *testing.T) {
	r := NewRegressor()
	assert.False(t, r.IsFitted())
	assert.Nil(t, r.Forest())

	X := mat.NewDense(2, 3, nil)
	_, err := r.Predict(X)
	require.Error(t, err)
	var notFitted *groveErrors.NotFittedError
	assert.True(t, groveErrors.As(err, &notFitted))

	_, _, err = r.PredictWithVariance(X)
	notFitted = nil
	assert.True(t, groveErrors.As(err, &notFitted))
}

func TestRegressorFitPredict(t *testing.T) {
	X, y := syntheticRegression(100, 21)

	r := NewRegressor().
		WithNumTrees(25).
		WithMinLeafSize(3).
		WithSeed(7)

	require.NoError(t, r.Fit(X, y))
	assert.True(t, r.IsFitted())
	require.NotNil(t, r.Forest())

	query, _ := syntheticRegression(11, 22)
	pred, err := r.Predict(query)
	require.NoError(t, err)

	rows, cols := pred.Dims()
	assert.Equal(t, 11, rows)
	assert.Equal(t, 1, cols)
}

func TestRegressorScoreOnTrainingData(t *testing.T) {
	X, y := syntheticRegression(120, 23)

	r := NewRegressor().
		WithNumTrees(50).
		WithMinLeafSize(3).
		WithHonesty(false).
		WithSampleFraction(1).
		WithLinearVariables([]int{0, 1})

	require.NoError(t, r.Fit(X, y))

	score, err := r.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8)
}

func TestRegressorPredictWithVariance(t *testing.T) {
	X, y := syntheticRegression(80, 24)

	r := NewRegressor().WithNumTrees(20).WithMinLeafSize(4)
	require.NoError(t, r.Fit(X, y))

	query, _ := syntheticRegression(6, 25)
	preds, variances, err := r.PredictWithVariance(query)
	require.NoError(t, err)

	rows, _ := preds.Dims()
	assert.Equal(t, 6, rows)
	rows, _ = variances.Dims()
	assert.Equal(t, 6, rows)
	for i := 0; i < rows; i++ {
		assert.GreaterOrEqual(t, variances.At(i, 0), 0.0)
	}
}

func TestRegressorChainedOptions(t *testing.T) {
	r := NewRegressor().
		WithNumTrees(17).
		WithMinLeafSize(9).
		WithHonesty(false).
		WithSplitRule(SplitRidgeResidual).
		WithSplitLambda(0.5).
		WithSampleFraction(0.8).
		WithSeed(99).
		WithLinearVariables([]int{1}).
		WithTunedLambda().
		WithEstimateVariance(true).
		WithVerbosity(1)

	tc := r.TrainConfig()
	assert.Equal(t, 17, tc.NumTrees)
	assert.Equal(t, 9, tc.MinLeafSize)
	assert.False(t, tc.Honesty)
	assert.Equal(t, SplitRidgeResidual, tc.SplitRule)
	assert.Equal(t, 0.5, tc.SplitLambda)
	assert.Equal(t, 0.8, tc.SampleFraction)
	assert.Equal(t, uint64(99), tc.Seed)

	pc := r.PredictConfig()
	assert.Equal(t, []int{1}, pc.LinearVariables)
	assert.True(t, pc.TuneLambda)
	assert.True(t, pc.EstimateVariance)

	// WithLambda pins a penalty and cancels the grid search.
	r.WithLambda(2.5)
	pc = r.PredictConfig()
	assert.Equal(t, 2.5, pc.Lambda)
	assert.False(t, pc.TuneLambda)
}

func TestRegressorFitRejectsBadInput(t *testing.T) {
	r := NewRegressor().WithNumTrees(5)
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(4, 1, nil)

	err := r.Fit(X, y)
	assert.Error(t, err)
	assert.False(t, r.IsFitted())
}
