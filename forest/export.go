package forest

import (
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// DrawGraph renders the tree as a graphviz graph for inspection.
// Internal nodes are labelled with their split rule, leaves with their
// honest-sample count. The caller owns the returned handles and should
// close them when done.
func (t *Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		return nil, nil, err
	}

	if err := t.drawNode(graph, 0, nil); err != nil {
		return nil, nil, err
	}

	return gv, graph, nil
}

func (t *Tree) drawNode(graph *cgraph.Graph, nodeIdx int, parent *cgraph.Node) error {
	n := &t.Nodes[nodeIdx]

	current, err := graph.CreateNode(fmt.Sprintf("n%d", nodeIdx))
	if err != nil {
		return err
	}
	if parent != nil {
		if _, err := graph.CreateEdge("", parent, current); err != nil {
			return err
		}
	}

	if n.IsLeaf() {
		current.SetLabel(fmt.Sprintf("leaf\nn=%d", len(n.Leaf)))
		current.SetShape(cgraph.BoxShape)
		return nil
	}

	current.SetLabel(fmt.Sprintf("x[%d] <= %.5g", n.Feature, n.Threshold))
	if err := t.drawNode(graph, n.Left, current); err != nil {
		return err
	}
	return t.drawNode(graph, n.Right, current)
}
