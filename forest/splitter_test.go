package forest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepDataset(t *testing.T) *Dataset {
	t.Helper()
	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := 0; i < 20; i++ {
		xs[i] = float64(i)
		if i >= 10 {
			ys[i] = 1
		}
	}
	return testDataset(t, xs, 1, ys)
}

func TestBestSplitFindsStep(t *testing.T) {
	d := stepDataset(t)
	cfg := DefaultTrainConfig()
	cfg.MinLeafSize = 1
	se := &splitEvaluator{data: d, cfg: &cfg}

	best, ok := se.bestSplit(allIndices(20), []int{0})
	require.True(t, ok)
	assert.Equal(t, 0, best.Feature)
	assert.InDelta(t, 9.5, best.Threshold, 1e-12)
	assert.InDelta(t, 0.0, best.Objective, 1e-12)
}

// An outlier-isolating split is optimal unconstrained, but the
// minimum-leaf-size constraint must force a balanced cut.
func TestBestSplitRespectsMinLeafSize(t *testing.T) {
	xs := make([]float64, 20)
	ys := make([]float64, 20)
	for i := range xs {
		xs[i] = float64(i)
	}
	ys[19] = 100

	d := testDataset(t, xs, 1, ys)
	cfg := DefaultTrainConfig()
	cfg.MinLeafSize = 10
	se := &splitEvaluator{data: d, cfg: &cfg}

	best, ok := se.bestSplit(allIndices(20), []int{0})
	require.True(t, ok)
	assert.InDelta(t, 9.5, best.Threshold, 1e-12)
}

func TestBestSplitNoValidSplit(t *testing.T) {
	// All covariate values identical: no admissible threshold exists
	d := testDataset(t, []float64{5, 5, 5, 5}, 1, []float64{1, 2, 3, 4})
	cfg := DefaultTrainConfig()
	cfg.MinLeafSize = 1
	se := &splitEvaluator{data: d, cfg: &cfg}

	_, ok := se.bestSplit(allIndices(4), []int{0})
	assert.False(t, ok)
}

// Duplicate covariates produce exactly tied objectives; the tie must
// resolve to the lower feature index.
func TestBestSplitTieBreaksOnFeatureIndex(t *testing.T) {
	xValues := make([]float64, 0, 40)
	ys := make([]float64, 20)
	for i := 0; i < 20; i++ {
		v := float64(i)
		xValues = append(xValues, v, v)
		if i >= 10 {
			ys[i] = 1
		}
	}

	d := testDataset(t, xValues, 2, ys)
	cfg := DefaultTrainConfig()
	cfg.MinLeafSize = 1
	se := &splitEvaluator{data: d, cfg: &cfg}

	best, ok := se.bestSplit(allIndices(20), []int{0, 1})
	require.True(t, ok)
	assert.Equal(t, 0, best.Feature)
}

// With a strong linear trend on x0 and a small step on x1, CART splits
// on the trend while the ridge-residual rule removes the trend first
// and splits on the step.
func TestRidgeResidualSplitIgnoresLinearTrend(t *testing.T) {
	const n = 60
	xValues := make([]float64, 0, 2*n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		x0 := float64(i) / n
		x1 := math.Mod(float64(i)*0.6180339887, 1.0)
		xValues = append(xValues, x0, x1)
		ys[i] = 10*x0 + 0.5
		if x1 > 0.5 {
			ys[i] += 2
		}
	}
	d := testDataset(t, xValues, 2, ys)

	cartCfg := DefaultTrainConfig()
	cartCfg.MinLeafSize = 5
	cartEval := &splitEvaluator{data: d, cfg: &cartCfg}
	cartBest, ok := cartEval.bestSplit(allIndices(n), []int{0, 1})
	require.True(t, ok)
	assert.Equal(t, 0, cartBest.Feature)

	llCfg := DefaultTrainConfig()
	llCfg.MinLeafSize = 5
	llCfg.SplitRule = SplitRidgeResidual
	llCfg.SplitLambda = 0.01
	llCfg.LLSplitCutoff = 0 // always fit per node
	llEval := &splitEvaluator{data: d, cfg: &llCfg}
	llBest, ok := llEval.bestSplit(allIndices(n), []int{0, 1})
	require.True(t, ok)
	assert.Equal(t, 1, llBest.Feature)
}

// Above the cutoff the ridge-residual rule must reuse the cached
// full-dataset coefficients rather than fitting per node.
func TestRidgeResidualSplitUsesFullFitAboveCutoff(t *testing.T) {
	d := stepDataset(t)
	cfg := DefaultTrainConfig()
	cfg.SplitRule = SplitRidgeResidual
	cfg.MinLeafSize = 2
	cfg.LLSplitCutoff = 5
	se := &splitEvaluator{data: d, cfg: &cfg}

	fit := se.nodeRidge(allIndices(20))
	assert.Same(t, d.fullFit, fit)

	// Below the cutoff a fresh per-node fit is produced
	small := se.nodeRidge([]int{0, 1, 2, 3})
	assert.NotSame(t, d.fullFit, small)
}
