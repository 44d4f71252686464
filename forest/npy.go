package forest

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/grove/pkg/errors"
)

// LoadMatrixNpy reads a dense float64 matrix from a NumPy .npy file,
// e.g. covariates or responses exported from Python.
func LoadMatrixNpy(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "forest.LoadMatrixNpy: open %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "forest.LoadMatrixNpy: read header of %s", path)
	}

	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, errors.Wrapf(err, "forest.LoadMatrixNpy: read %s", path)
	}
	return m, nil
}

// SaveMatrixNpy writes a matrix to a NumPy .npy file.
func SaveMatrixNpy(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "forest.SaveMatrixNpy: create %s", path)
	}
	defer f.Close()

	if err := npyio.Write(f, m); err != nil {
		return errors.Wrapf(err, "forest.SaveMatrixNpy: write %s", path)
	}
	return f.Close()
}
