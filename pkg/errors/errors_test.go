package errors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("Regressor", "Predict")
	require.Error(t, err)

	var nf *NotFittedError
	require.True(t, As(err, &nf))
	assert.Equal(t, "Regressor", nf.ModelName)
	assert.Contains(t, err.Error(), "not fitted yet")
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("Train", 10, 7, 0)
	require.Error(t, err)

	var de *DimensionError
	require.True(t, As(err, &de))
	assert.Equal(t, 10, de.Expected)
	assert.Equal(t, 7, de.Got)
	assert.Contains(t, err.Error(), "rows")

	err = NewDimensionError("Predict", 4, 3, 1)
	assert.Contains(t, err.Error(), "features")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("MinLeafSize", "must be positive", -1)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, As(err, &ve))
	assert.Equal(t, "MinLeafSize", ve.ParamName)
	assert.Equal(t, -1, ve.Value)
}

func TestModelErrorUnwrap(t *testing.T) {
	inner := New("boom")
	err := NewModelError("Train", "sampling", inner)

	var me *ModelError
	require.True(t, As(err, &me))
	assert.True(t, Is(err, inner))
}

func TestCheckNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("ok", []float64{1, 2, 3}))

	err := CheckNumericalStability("bad", []float64{1, math.NaN(), 3})
	require.Error(t, err)

	var ne *NumericalInstabilityError
	require.True(t, As(err, &ne))
	assert.Equal(t, "bad", ne.Operation)

	assert.Error(t, CheckScalar("inf", math.Inf(1)))
	assert.NoError(t, CheckScalar("fin", 0.5))
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.0, SafeDivide(4, 2))
	assert.Equal(t, 0.0, SafeDivide(4, 0))
	assert.Equal(t, 0.0, SafeDivide(4, 1e-15))
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "TestOp")
		panic("unexpected")
	}

	err := fn()
	require.Error(t, err)

	var pe *PanicError
	require.True(t, As(err, &pe))
	assert.Equal(t, "TestOp", pe.Operation)
	assert.Contains(t, pe.String(), "Stack trace")
}

func TestSafeExecute(t *testing.T) {
	err := SafeExecute("divide", func() error {
		var xs []int
		_ = xs[3] // out of range
		return nil
	})
	require.Error(t, err)

	assert.NoError(t, SafeExecute("noop", func() error { return nil }))
}
