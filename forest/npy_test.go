package forest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixNpyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.npy")

	want := mat.NewDense(3, 2, []float64{
		1.5, -2.0,
		0.0, 4.25,
		-7.5, 1e-3,
	})
	require.NoError(t, SaveMatrixNpy(path, want))

	got, err := LoadMatrixNpy(path)
	require.NoError(t, err)

	rows, cols := got.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 2, cols)
	assert.True(t, mat.Equal(want, got))
}

func TestLoadMatrixNpyMissingFile(t *testing.T) {
	_, err := LoadMatrixNpy(filepath.Join(t.TempDir(), "absent.npy"))
	assert.Error(t, err)
}
