// Package forest implements an ensemble-tree engine for nonparametric
// regression with optional local-linear ridge corrections at prediction
// time (local linear forests).
//
// Training builds an ensemble of randomized regression trees over row
// subsamples, with a pluggable split criterion: classic CART variance
// reduction, or an experimental ridge-residual rule that evaluates
// candidate splits on the residuals of a per-node ridge fit. Honesty
// splits each tree's subsample into a structure half used for choosing
// splits and an honest half routed to the leaves for weight computation,
// removing the overfitting bias of reusing the same observations twice.
//
// At prediction time the forest acts as an adaptive kernel: each tree
// routes the query point to a leaf and spreads weight 1/(B·|leaf|) over
// that leaf's honest observations. The resulting weight vector feeds
// either a plain weighted mean or a weighted ridge regression centered
// at the query point, whose fitted intercept is the local-linear
// prediction. Between-tree variability of the ridge influence terms
// yields an optional variance estimate.
//
// Basic usage:
//
//	reg := forest.NewRegressor().
//	    WithNumTrees(500).
//	    WithHonesty(true).
//	    WithLinearVariables([]int{0, 2})
//	if err := reg.Fit(X, y); err != nil {
//	    // handle error
//	}
//	preds, err := reg.Predict(Xtest)
package forest
