package forest

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/grove/pkg/errors"
)

// Dataset is the immutable training data shared by every tree: the
// covariate matrix, the response vector and per-observation weights.
// It also caches the full-dataset ridge coefficients used by the
// ridge-residual split rule's large-node shortcut.
type Dataset struct {
	X       *mat.Dense
	Y       []float64
	Weights []float64

	rows, cols int

	fullFitOnce sync.Once
	fullFit     *ridgeFit
}

// newDataset validates the raw training input and assembles the Dataset.
// Malformed input (shape mismatch, non-finite values, empty data) is
// fatal here; nothing downstream re-validates.
func newDataset(X, y mat.Matrix, sampleWeights []float64) (*Dataset, error) {
	const op = "forest.Train"

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if cy != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector")
	}
	if ry != r {
		return nil, errors.NewDimensionError(op, r, ry, 0)
	}

	if err := errors.CheckMatrix(op+": X", X, r, c); err != nil {
		return nil, err
	}
	if err := errors.CheckMatrix(op+": y", y, r, 1); err != nil {
		return nil, err
	}

	xDense := mat.DenseCopyOf(X)
	yVals := make([]float64, r)
	for i := 0; i < r; i++ {
		yVals[i] = y.At(i, 0)
	}

	weights := make([]float64, r)
	if sampleWeights != nil {
		copy(weights, sampleWeights)
	} else {
		for i := range weights {
			weights[i] = 1.0
		}
	}

	return &Dataset{
		X:       xDense,
		Y:       yVals,
		Weights: weights,
		rows:    r,
		cols:    c,
	}, nil
}

// Rows returns the number of observations.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the number of covariates.
func (d *Dataset) Cols() int { return d.cols }

// row copies observation i's covariates into dst, allocating when dst is
// too small.
func (d *Dataset) row(i int, dst []float64) []float64 {
	if cap(dst) < d.cols {
		dst = make([]float64, d.cols)
	}
	dst = dst[:d.cols]
	for j := 0; j < d.cols; j++ {
		dst[j] = d.X.At(i, j)
	}
	return dst
}

// fullRidge returns ridge coefficients fit once on the whole dataset,
// anchored at the weighted covariate mean. Used by the ridge-residual
// split rule for nodes above the size cutoff.
func (d *Dataset) fullRidge(vars []int, lambda float64, mode PenaltyMode) *ridgeFit {
	d.fullFitOnce.Do(func() {
		indices := make([]int, d.rows)
		alpha := make([]float64, d.rows)
		for i := 0; i < d.rows; i++ {
			indices[i] = i
			alpha[i] = d.Weights[i]
		}
		anchor := d.weightedMeanRow(indices, alpha)
		fit := ridgeSolve(d, indices, alpha, anchor, vars, lambda, mode)
		d.fullFit = &fit
	})
	return d.fullFit
}

// weightedMeanRow computes the alpha-weighted covariate mean over the
// given observations. Zero total weight falls back to the unweighted
// mean.
func (d *Dataset) weightedMeanRow(indices []int, alpha []float64) []float64 {
	mean := make([]float64, d.cols)
	var total float64
	for k, idx := range indices {
		w := alpha[k]
		total += w
		for j := 0; j < d.cols; j++ {
			mean[j] += w * d.X.At(idx, j)
		}
	}
	if total <= 0 {
		for j := range mean {
			mean[j] = 0
		}
		for _, idx := range indices {
			for j := 0; j < d.cols; j++ {
				mean[j] += d.X.At(idx, j)
			}
		}
		total = float64(len(indices))
	}
	if total > 0 {
		for j := range mean {
			mean[j] /= total
		}
	}
	return mean
}
