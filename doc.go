// Package grove implements local linear forest regression for Go:
// honest random forests whose adaptive neighborhood weights feed a
// ridge regression centered at each query point.
//
// A plain regression forest predicts the weighted mean of the training
// responses in the query's forest neighborhood; grove can additionally
// use those weights in a local ridge fit, which removes the boundary
// bias trees suffer on smooth signals and yields pointwise variance
// estimates.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/grove/forest"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
//	    y := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
//
//	    model := forest.NewRegressor().
//	        WithNumTrees(100).
//	        WithLinearVariables([]int{0})
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := model.Predict(mat.NewDense(1, 1, []float64{1.5}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(pred.At(0, 0))
//	}
//
// # Packages
//
//   - forest: training, weight aggregation, prediction and variance
//     estimation
//   - preprocessing: covariate standardization
//   - metrics: regression metrics (MSE, RMSE, MAE, R²)
//   - core/model: fitted-state management
//   - core/parallel: parallel processing utilities
//   - pkg/errors: typed errors with stack traces
//   - pkg/log: structured logging
package grove
