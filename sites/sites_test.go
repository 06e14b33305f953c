package sites_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
)

// buildBubbleGraph constructs A -> {B1="GG", B2="GT"} -> C, the graph
// used by the bubble-enumeration scenario.
func buildBubbleGraph() *graph.VariationGraph {
	nodes := []*graph.Node{
		{ID: 1, Sequence: []byte("A")},
		{ID: 2, Sequence: []byte("GG")},
		{ID: 3, Sequence: []byte("GT")},
		{ID: 4, Sequence: []byte("C")},
	}
	edges := []graph.Edge{
		{From: 1, To: 2},
		{From: 1, To: 3},
		{From: 2, To: 4},
		{From: 3, To: 4},
	}
	return graph.NewVariationGraph(nodes, edges)
}

func TestBuildSingleBubble(t *testing.T) {
	g := buildBubbleGraph()
	bubble := &sites.Bubble{
		Start:    graph.NodeSide{Node: 1, End: true},
		End:      graph.NodeSide{Node: 4, End: false},
		Contents: []graph.NodeID{1, 2, 3, 4},
	}

	built := sites.Build(g, []*sites.Bubble{bubble})
	require.Len(t, built, 1)

	site := built[0]
	assert.Equal(t, graph.NodeID(1), site.Start.ID())
	assert.Equal(t, graph.NodeID(4), site.End.ID())
	assert.Len(t, site.Nodes, 4)
	assert.Empty(t, site.Children)
}

func TestBuildWiresChildBorderIndex(t *testing.T) {
	g := buildBubbleGraph()
	child := &sites.Bubble{
		Start:    graph.NodeSide{Node: 2, End: false},
		End:      graph.NodeSide{Node: 2, End: true},
		Contents: []graph.NodeID{2},
	}
	parent := &sites.Bubble{
		Start:    graph.NodeSide{Node: 1, End: true},
		End:      graph.NodeSide{Node: 4, End: false},
		Contents: []graph.NodeID{1, 2, 3, 4},
		Children: []*sites.Bubble{child},
	}

	built := sites.Build(g, []*sites.Bubble{parent})
	site := built[0]
	require.Len(t, site.Children, 1)

	childSite := site.Children[0]
	idx, ok := site.ChildBorderIndex[childSite.Start]
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = site.ChildBorderIndex[childSite.End.Reverse()]
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestForEachSiteVisitsEveryTopLevelSite(t *testing.T) {
	g := buildBubbleGraph()
	bubbleA := &sites.Bubble{
		Start:    graph.NodeSide{Node: 1, End: true},
		End:      graph.NodeSide{Node: 2, End: true},
		Contents: []graph.NodeID{1, 2},
	}
	bubbleB := &sites.Bubble{
		Start:    graph.NodeSide{Node: 3, End: true},
		End:      graph.NodeSide{Node: 4, End: true},
		Contents: []graph.NodeID{3, 4},
	}

	var visited int
	err := sites.ForEachSite(g, []*sites.Bubble{bubbleA, bubbleB}, func(s *sites.NestedSite) error {
		visited++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, visited)
}
