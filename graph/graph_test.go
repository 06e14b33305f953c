package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shilpagarg/vg/graph"
)

func linearGraph() *graph.VariationGraph {
	nodes := []*graph.Node{
		{ID: 1, Sequence: []byte("ACGT")},
		{ID: 2, Sequence: []byte("ACGT")},
	}
	edges := []graph.Edge{
		{From: 1, To: 2},
	}
	return graph.NewVariationGraph(nodes, edges)
}

func TestTopoOrderIsStableAndComplete(t *testing.T) {
	g := linearGraph()
	order := g.TopoOrder()
	require.Len(t, order, 2)
	assert.Equal(t, []graph.NodeID{1, 2}, order)
}

func TestNodesNextForwardFollowsEdges(t *testing.T) {
	g := linearGraph()
	t1 := graph.NodeTraversal{Node: g.Node(1)}
	next := g.NodesNext(t1)
	require.Len(t, next, 1)
	assert.Equal(t, graph.NodeID(2), next[0].ID())
	assert.False(t, next[0].Backward)
}

func TestReversingEdgeIsFatal(t *testing.T) {
	nodes := []*graph.Node{
		{ID: 1, Sequence: []byte("ACGT")},
		{ID: 2, Sequence: []byte("ACGT")},
	}
	// FromStart=true, ToEnd=false: a genuine reversing edge.
	edges := []graph.Edge{
		{From: 1, FromStart: true, To: 2, ToEnd: false},
	}
	assert.Panics(t, func() {
		graph.NewVariationGraph(nodes, edges)
	})
}

func TestEdgeNormalizeUnflipsBothEndsFlipped(t *testing.T) {
	e := graph.Edge{From: 1, FromStart: true, To: 2, ToEnd: true}
	norm, reversing := e.Normalize()
	assert.False(t, reversing)
	assert.Equal(t, graph.Edge{From: 2, FromStart: false, To: 1, ToEnd: false}, norm)
}

func TestNodeTraversalSequenceReverseComplements(t *testing.T) {
	n := &graph.Node{ID: 1, Sequence: []byte("ACGT")}
	fwd := graph.NodeTraversal{Node: n}
	rev := graph.NodeTraversal{Node: n, Backward: true}
	assert.Equal(t, "ACGT", string(fwd.Sequence()))
	assert.Equal(t, "ACGT", string(rev.Sequence()))

	n2 := &graph.Node{ID: 2, Sequence: []byte("AAGG")}
	rev2 := graph.NodeTraversal{Node: n2, Backward: true}
	assert.Equal(t, "CCTT", string(rev2.Sequence()))
}

func TestCyclicGraphTopoOrderPanics(t *testing.T) {
	nodes := []*graph.Node{
		{ID: 1, Sequence: []byte("A")},
		{ID: 2, Sequence: []byte("A")},
	}
	edges := []graph.Edge{
		{From: 1, To: 2},
		{From: 2, To: 1},
	}
	g := graph.NewVariationGraph(nodes, edges)
	assert.Panics(t, func() {
		g.TopoOrder()
	})
}
