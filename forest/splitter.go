package forest

import (
	"math"
	"sort"
)

// splitCandidate is the winning (variable, threshold) pair for a node,
// together with the objective value that selected it.
type splitCandidate struct {
	Feature   int
	Threshold float64
	Objective float64
}

// splitEvaluator scores candidate splits of a node's observations.
// The objective is the sample-weighted sum of within-child squared
// deviations of the working response: the raw response under SplitCART,
// or ridge-fit residuals under SplitRidgeResidual.
//
// Tie-breaking is deterministic: candidates are scanned in ascending
// feature index and ascending threshold, and only a strictly smaller
// objective displaces the incumbent, so exact ties resolve to the lowest
// feature index, then the lowest threshold.
type splitEvaluator struct {
	data *Dataset
	cfg  *TrainConfig
}

// bestSplit returns the admissible split minimizing the objective over
// the candidate features, or ok=false when every candidate violates the
// minimum-leaf-size constraint.
func (se *splitEvaluator) bestSplit(indices []int, features []int) (splitCandidate, bool) {
	response := se.workingResponse(indices)

	best := splitCandidate{Feature: -1, Objective: math.Inf(1)}
	found := false

	type valueIndex struct {
		value float64
		pos   int // position into indices/response
	}
	values := make([]valueIndex, len(indices))

	for _, feature := range features {
		for pos, idx := range indices {
			values[pos] = valueIndex{value: se.data.X.At(idx, feature), pos: pos}
		}
		sort.Slice(values, func(a, b int) bool {
			if values[a].value != values[b].value {
				return values[a].value < values[b].value
			}
			return values[a].pos < values[b].pos
		})

		var totalW, totalWY, totalWYY float64
		for pos, idx := range indices {
			w := se.data.Weights[idx]
			y := response[pos]
			totalW += w
			totalWY += w * y
			totalWYY += w * y * y
		}

		var leftW, leftWY, leftWYY float64
		leftCount := 0

		for i := 0; i < len(values)-1; i++ {
			idx := indices[values[i].pos]
			w := se.data.Weights[idx]
			y := response[values[i].pos]
			leftW += w
			leftWY += w * y
			leftWYY += w * y * y
			leftCount++

			// No admissible threshold between equal values
			if values[i].value == values[i+1].value {
				continue
			}

			rightCount := len(indices) - leftCount
			if leftCount < se.cfg.MinLeafSize || rightCount < se.cfg.MinLeafSize {
				continue
			}

			rightW := totalW - leftW
			rightWY := totalWY - leftWY
			rightWYY := totalWYY - leftWYY

			objective := childSSE(leftW, leftWY, leftWYY) + childSSE(rightW, rightWY, rightWYY)
			if objective < best.Objective {
				best = splitCandidate{
					Feature:   feature,
					Threshold: (values[i].value + values[i+1].value) / 2,
					Objective: objective,
				}
				found = true
			}
		}
	}

	return best, found
}

// childSSE is the weighted sum of squared deviations around the weighted
// mean: Σw·y² − (Σw·y)²/Σw.
func childSSE(w, wy, wyy float64) float64 {
	if w < minWeightMass {
		return 0
	}
	return wyy - wy*wy/w
}

// workingResponse returns the per-position response the split scan
// operates on. SplitRidgeResidual replaces the raw response with the
// residual from a ridge fit: per-node for small nodes, or the cached
// full-dataset coefficients above the size cutoff.
func (se *splitEvaluator) workingResponse(indices []int) []float64 {
	response := make([]float64, len(indices))

	if se.cfg.SplitRule != SplitRidgeResidual {
		for pos, idx := range indices {
			response[pos] = se.data.Y[idx]
		}
		return response
	}

	fit := se.nodeRidge(indices)
	for pos, idx := range indices {
		response[pos] = se.data.Y[idx] - fit.predictRow(se.data, idx)
	}
	return response
}

func (se *splitEvaluator) nodeRidge(indices []int) *ridgeFit {
	cutoff := se.cfg.llSplitCutoff(se.data.rows)
	if cutoff > 0 && len(indices) > cutoff {
		return se.data.fullRidge(se.cfg.SplitVariables, se.cfg.SplitLambda, se.cfg.SplitPenaltyMode)
	}

	alpha := make([]float64, len(indices))
	for pos, idx := range indices {
		alpha[pos] = se.data.Weights[idx]
	}
	anchor := se.data.weightedMeanRow(indices, alpha)
	fit := ridgeSolve(se.data, indices, alpha, anchor, se.cfg.SplitVariables, se.cfg.SplitLambda, se.cfg.SplitPenaltyMode)
	return &fit
}
