package forest

import (
	"gonum.org/v1/gonum/mat"
)

// minWeightMass is the weight mass below which a weighted design is
// treated as empty and the solver falls back to a plain mean.
const minWeightMass = 1e-12

// ridgeFit is the transient result of one penalized weighted
// least-squares solve. Its lifetime is the prediction or split
// evaluation that produced it.
type ridgeFit struct {
	// Intercept is the fitted value at the anchor point.
	Intercept float64

	// Slopes holds the fitted slope per entry of Vars; nil when the
	// solver fell back to a plain weighted mean.
	Slopes []float64

	// Vars are the covariate indices the fit is restricted to.
	Vars []int

	// Anchor is the anchor point restricted to Vars.
	Anchor []float64

	// Fallback records that the weighted design was degenerate and the
	// fit degraded to the weighted mean.
	Fallback bool

	chol        *mat.Cholesky
	totalWeight float64
}

// predictRow evaluates the fit at observation i of the dataset.
func (f *ridgeFit) predictRow(d *Dataset, i int) float64 {
	pred := f.Intercept
	if f.Fallback {
		return pred
	}
	for j, v := range f.Vars {
		pred += f.Slopes[j] * (d.X.At(i, v) - f.Anchor[j])
	}
	return pred
}

// influence returns u = M⁻¹·e₀ for the penalized normal matrix M, the
// leverage vector used by the delta-method variance estimate. Returns
// nil for fallback fits.
func (f *ridgeFit) influence() []float64 {
	if f.Fallback || f.chol == nil {
		return nil
	}
	k := len(f.Vars)
	e0 := mat.NewVecDense(k+1, nil)
	e0.SetVec(0, 1)
	var u mat.VecDense
	if err := f.chol.SolveVecTo(&u, e0); err != nil {
		return nil
	}
	out := make([]float64, k+1)
	for i := 0; i <= k; i++ {
		out[i] = u.AtVec(i)
	}
	return out
}

// ridgeSolve solves
//
//	argmin_{μ,θ} Σ_i α_i (y_i − μ − (x_i−x₀)·θ)² + λ·θᵀJθ
//
// over the covariate subset vars, where J is the identity or the
// α-weighted covariate covariance depending on mode. The intercept is
// never penalized. Rank-deficient or weight-starved designs degrade to
// the plain weighted mean (θ = 0) instead of failing.
//
// indices selects the participating observations; alpha is aligned with
// indices. x0 is the full-dimension anchor point.
func ridgeSolve(d *Dataset, indices []int, alpha []float64, x0 []float64, vars []int, lambda float64, mode PenaltyMode) ridgeFit {
	if len(vars) == 0 {
		vars = make([]int, d.cols)
		for j := range vars {
			vars[j] = j
		}
	}
	k := len(vars)

	anchor := make([]float64, k)
	for j, v := range vars {
		anchor[j] = x0[v]
	}

	var totalWeight, weightedSum float64
	for pos, idx := range indices {
		w := alpha[pos]
		if w == 0 {
			continue
		}
		totalWeight += w
		weightedSum += w * d.Y[idx]
	}

	fallback := func() ridgeFit {
		fit := ridgeFit{Vars: vars, Anchor: anchor, Fallback: true, totalWeight: totalWeight}
		if totalWeight >= minWeightMass {
			fit.Intercept = weightedSum / totalWeight
		} else if len(indices) > 0 {
			// Zero weight mass: degrade to the unweighted mean
			var sum float64
			for _, idx := range indices {
				sum += d.Y[idx]
			}
			fit.Intercept = sum / float64(len(indices))
		}
		return fit
	}

	if totalWeight < minWeightMass {
		return fallback()
	}

	// Normal equations M·c = b over the centered design [1, x−x₀]
	m := mat.NewSymDense(k+1, nil)
	b := mat.NewVecDense(k+1, nil)
	centered := make([]float64, k)

	for pos, idx := range indices {
		w := alpha[pos]
		if w == 0 {
			continue
		}
		for j, v := range vars {
			centered[j] = d.X.At(idx, v) - anchor[j]
		}

		m.SetSym(0, 0, m.At(0, 0)+w)
		b.SetVec(0, b.AtVec(0)+w*d.Y[idx])
		for j := 0; j < k; j++ {
			m.SetSym(0, j+1, m.At(0, j+1)+w*centered[j])
			b.SetVec(j+1, b.AtVec(j+1)+w*d.Y[idx]*centered[j])
			for l := j; l < k; l++ {
				m.SetSym(j+1, l+1, m.At(j+1, l+1)+w*centered[j]*centered[l])
			}
		}
	}

	applyPenalty(m, d, indices, alpha, vars, lambda, mode)

	chol := &mat.Cholesky{}
	if ok := chol.Factorize(m); !ok {
		return fallback()
	}

	var coef mat.VecDense
	if err := chol.SolveVecTo(&coef, b); err != nil {
		return fallback()
	}

	fit := ridgeFit{
		Intercept:   coef.AtVec(0),
		Slopes:      make([]float64, k),
		Vars:        vars,
		Anchor:      anchor,
		chol:        chol,
		totalWeight: totalWeight,
	}
	for j := 0; j < k; j++ {
		fit.Slopes[j] = coef.AtVec(j + 1)
	}
	return fit
}

// applyPenalty adds λ·J to the slope block of the normal matrix.
// PenaltyIdentity uses J = I; PenaltyCovariance uses the α-weighted
// covariance of the selected covariates around their weighted mean.
func applyPenalty(m *mat.SymDense, d *Dataset, indices []int, alpha []float64, vars []int, lambda float64, mode PenaltyMode) {
	if lambda == 0 {
		return
	}
	k := len(vars)

	if mode == PenaltyIdentity {
		for j := 1; j <= k; j++ {
			m.SetSym(j, j, m.At(j, j)+lambda)
		}
		return
	}

	// Weighted mean of the selected covariates
	mean := make([]float64, k)
	var total float64
	for pos, idx := range indices {
		w := alpha[pos]
		if w == 0 {
			continue
		}
		total += w
		for j, v := range vars {
			mean[j] += w * d.X.At(idx, v)
		}
	}
	if total < minWeightMass {
		return
	}
	for j := range mean {
		mean[j] /= total
	}

	// Weighted covariance, accumulated into the penalty block
	cov := make([]float64, k*k)
	dev := make([]float64, k)
	for pos, idx := range indices {
		w := alpha[pos]
		if w == 0 {
			continue
		}
		for j, v := range vars {
			dev[j] = d.X.At(idx, v) - mean[j]
		}
		for j := 0; j < k; j++ {
			for l := j; l < k; l++ {
				cov[j*k+l] += w * dev[j] * dev[l]
			}
		}
	}
	for j := 0; j < k; j++ {
		for l := j; l < k; l++ {
			m.SetSym(j+1, l+1, m.At(j+1, l+1)+lambda*cov[j*k+l]/total)
		}
	}
}

// weightedMean computes Σ α_i·y_i / Σ α_i over the given observations,
// falling back to the unweighted mean on zero weight mass.
func weightedMean(d *Dataset, indices []int, alpha []float64) float64 {
	var total, sum float64
	for pos, idx := range indices {
		total += alpha[pos]
		sum += alpha[pos] * d.Y[idx]
	}
	if total < minWeightMass {
		if len(indices) == 0 {
			return 0
		}
		sum = 0
		for _, idx := range indices {
			sum += d.Y[idx]
		}
		return sum / float64(len(indices))
	}
	return sum / total
}
