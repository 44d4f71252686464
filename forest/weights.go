package forest

import (
	"github.com/YuminosukeSato/grove/pkg/errors"
)

// Weights computes the forest kernel weight of every training
// observation for the query point x: each tree routes x to a leaf and
// spreads 1/(B·|leaf|) over that leaf's honest observations. The result
// is non-negative and sums to 1 whenever every tree reaches a non-empty
// leaf; a tree whose leaf holds no honest observations contributes
// nothing.
//
// Runs in O(B·depth) time plus the leaf membership updates, independent
// of the training-set size.
func (f *Forest) Weights(x []float64) ([]float64, error) {
	if len(x) != f.data.cols {
		return nil, errors.NewDimensionError("Forest.Weights", f.data.cols, len(x), 1)
	}
	if err := errors.CheckNumericalStability("Forest.Weights", x); err != nil {
		return nil, err
	}
	return f.weights(x), nil
}

// weights is the unchecked fast path shared by the predictor.
func (f *Forest) weights(x []float64) []float64 {
	w := make([]float64, f.data.rows)
	invB := 1.0 / float64(len(f.Trees))

	for _, tree := range f.Trees {
		leaf := &tree.Nodes[tree.FindLeaf(x)]
		if len(leaf.Leaf) == 0 {
			continue
		}
		contribution := invB / float64(len(leaf.Leaf))
		for _, idx := range leaf.Leaf {
			w[idx] += contribution
		}
	}
	return w
}

// treeLeaves returns, per tree, the arena index of the leaf containing
// x. Used by the variance estimator to recover per-tree contributions.
func (f *Forest) treeLeaves(x []float64) []int {
	leaves := make([]int, len(f.Trees))
	for b, tree := range f.Trees {
		leaves[b] = tree.FindLeaf(x)
	}
	return leaves
}
