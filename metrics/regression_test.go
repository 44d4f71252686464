package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"constant offset", []float64{1, 2, 3}, []float64{2, 3, 4}, 1},
		{"mixed", []float64{3, -0.5, 2, 7}, []float64{2.5, 0, 2, 8}, 0.375},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(vec(tt.yTrue...), vec(tt.yPred...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMSEDimensionMismatch(t *testing.T) {
	_, err := MSE(vec(1), vec(1, 2))
	assert.Error(t, err)
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(vec(0, 0, 0, 0), vec(2, 2, 2, 2))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestMAE(t *testing.T) {
	got, err := MAE(vec(3, -0.5, 2, 7), vec(2.5, 0, 2, 8))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestR2Score(t *testing.T) {
	got, err := R2Score(vec(3, -0.5, 2, 7), vec(2.5, 0, 2, 8))
	require.NoError(t, err)
	assert.InDelta(t, 0.9486081370449679, got, 1e-12)

	perfect, err := R2Score(vec(1, 2, 3), vec(1, 2, 3))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect, 1e-12)
}

func TestR2ScoreNoVariance(t *testing.T) {
	_, err := R2Score(vec(2, 2, 2), vec(1, 2, 3))
	assert.Error(t, err)
}

func TestExplainedVarianceScore(t *testing.T) {
	got, err := ExplainedVarianceScore(vec(3, -0.5, 2, 7), vec(2.5, 0, 2, 8))
	require.NoError(t, err)
	assert.InDelta(t, 0.9571734475374732, got, 1e-12)
	assert.False(t, math.IsNaN(got))

	// A constant offset does not reduce explained variance
	offset, err := ExplainedVarianceScore(vec(1, 2, 3), vec(2, 3, 4))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, offset, 1e-12)
}
