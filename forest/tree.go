package forest

import (
	"math/rand/v2"
	"sort"
)

// node is one entry of a tree's flat node arena. Children are addressed
// by arena index; -1 marks a leaf. Leaves own the honest observation
// indices used for weight computation.
type node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Leaf      []int
}

// IsLeaf reports whether the node is terminal.
func (n *node) IsLeaf() bool { return n.Left < 0 }

// Tree is a single trained regression tree: a node arena rooted at
// index 0 plus the honest index set reserved for leaf weights.
// Immutable after construction.
type Tree struct {
	Nodes  []node
	Honest []int
}

// FindLeaf walks the query point from the root to its leaf by
// deterministic threshold comparisons and returns the leaf's arena
// index.
func (t *Tree) FindLeaf(x []float64) int {
	nodeIdx := 0
	for {
		n := &t.Nodes[nodeIdx]
		if n.IsLeaf() {
			return nodeIdx
		}
		if x[n.Feature] <= n.Threshold {
			nodeIdx = n.Left
		} else {
			nodeIdx = n.Right
		}
	}
}

// NumLeaves counts the terminal nodes.
func (t *Tree) NumLeaves() int {
	count := 0
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			count++
		}
	}
	return count
}

// treeBuilder grows one tree over a subsample. When honesty is enabled
// the structure sample alone drives split selection while the honest
// sample is only routed to the finished leaves.
type treeBuilder struct {
	data     *Dataset
	cfg      *TrainConfig
	eval     *splitEvaluator
	rng      *rand.Rand
	features []int // admissible split variables, ascending
	mtry     int
}

func newTreeBuilder(data *Dataset, cfg *TrainConfig, rng *rand.Rand) *treeBuilder {
	features := cfg.SplitVariables
	if len(features) == 0 {
		features = make([]int, data.cols)
		for j := range features {
			features[j] = j
		}
	} else {
		features = append([]int(nil), features...)
		sort.Ints(features)
	}

	return &treeBuilder{
		data:     data,
		cfg:      cfg,
		eval:     &splitEvaluator{data: data, cfg: cfg},
		rng:      rng,
		features: features,
		mtry:     cfg.mtry(len(features)),
	}
}

// build grows the tree for the given structure and honest samples.
func (b *treeBuilder) build(structure, honest []int) *Tree {
	tree := &Tree{Honest: honest}
	b.buildNode(tree, structure, honest, 0)
	return tree
}

// buildNode appends the subtree for the given samples to the arena and
// returns its root index. Children are patched in after recursion, the
// arena grows append-only.
func (b *treeBuilder) buildNode(tree *Tree, structure, honest []int, depth int) int {
	nodeIdx := len(tree.Nodes)

	if len(structure) < 2*b.cfg.MinLeafSize || (b.cfg.MaxDepth >= 0 && depth >= b.cfg.MaxDepth) {
		tree.Nodes = append(tree.Nodes, node{Left: -1, Right: -1, Leaf: honest})
		return nodeIdx
	}

	candidates := b.drawFeatures()
	best, ok := b.eval.bestSplit(structure, candidates)
	if !ok {
		tree.Nodes = append(tree.Nodes, node{Left: -1, Right: -1, Leaf: honest})
		return nodeIdx
	}

	tree.Nodes = append(tree.Nodes, node{
		Feature:   best.Feature,
		Threshold: best.Threshold,
		Left:      -1,
		Right:     -1,
	})

	leftStructure, rightStructure := partition(b.data, structure, best.Feature, best.Threshold)
	leftHonest, rightHonest := partition(b.data, honest, best.Feature, best.Threshold)

	leftChild := b.buildNode(tree, leftStructure, leftHonest, depth+1)
	rightChild := b.buildNode(tree, rightStructure, rightHonest, depth+1)

	tree.Nodes[nodeIdx].Left = leftChild
	tree.Nodes[nodeIdx].Right = rightChild

	return nodeIdx
}

// drawFeatures draws the per-node candidate variable subset. The draw
// comes from the tree's own seeded stream in DFS order, so the whole
// tree is reproducible from (seed, tree index) alone.
func (b *treeBuilder) drawFeatures() []int {
	if b.mtry >= len(b.features) {
		return b.features
	}

	pool := append([]int(nil), b.features...)
	for i := 0; i < b.mtry; i++ {
		j := i + b.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	drawn := pool[:b.mtry]
	sort.Ints(drawn)
	return drawn
}

// partition splits observation indices by the threshold rule used at
// prediction time: x ≤ threshold goes left.
func partition(d *Dataset, indices []int, feature int, threshold float64) (left, right []int) {
	for _, idx := range indices {
		if d.X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	return left, right
}
