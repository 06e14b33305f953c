package traverse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
	"github.com/shilpagarg/vg/traverse"
)

// A -> {B1="GG", B2="GT"} -> C
func buildBubbleGraph() (*graph.VariationGraph, *sites.Bubble) {
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
	g := graph.NewVariationGraph(nodes, edges)
	bubble := &sites.Bubble{
		Start:    graph.NodeSide{Node: 1, End: true},
		End:      graph.NodeSide{Node: 4, End: false},
		Contents: []graph.NodeID{1, 2, 3, 4},
	}
	return g, bubble
}

func alleleOf(t *testing.T, trav traverse.SiteTraversal) string {
	t.Helper()
	var out []byte
	for _, v := range trav.Visits {
		if v.Child != nil {
			continue
		}
		out = append(out, v.Traversal.Sequence()...)
	}
	return string(out)
}

func TestExhaustiveFinderEnumeratesBothAlleles(t *testing.T) {
	g, bubble := buildBubbleGraph()
	built := sites.Build(g, []*sites.Bubble{bubble})
	site := built[0]

	finder := traverse.NewExhaustiveFinder(g)
	travs := finder.FindTraversals(site)
	require.Len(t, travs, 2)

	alleles := map[string]bool{}
	for _, trav := range travs {
		alleles[alleleOf(t, trav)] = true
	}
	assert.True(t, alleles["AGGC"])
	assert.True(t, alleles["AGTC"])
}

func TestTrivialFinderFindsOnePath(t *testing.T) {
	g, bubble := buildBubbleGraph()
	built := sites.Build(g, []*sites.Bubble{bubble})
	site := built[0]

	finder := traverse.NewTrivialFinder(g)
	travs := finder.FindTraversals(site)
	require.Len(t, travs, 1)
	assert.Equal(t, site.Start, travs[0].Visits[0].Traversal)
	assert.Equal(t, site.End, travs[0].Visits[len(travs[0].Visits)-1].Traversal)
}

// Same graph; only one read traverses B1; min_recurrence=2; reference
// path visits B1. Expect {B1} retained (boosted by ref), {B2} pruned.
func TestReadRestrictedFinderPrunesUnsupportedAllele(t *testing.T) {
	g, bubble := buildBubbleGraph()
	built := sites.Build(g, []*sites.Bubble{bubble})
	site := built[0]

	refPath := &graph.Path{
		Name: "ref",
		Steps: []graph.PathStep{
			{Path: "ref", Rank: 0, Node: 1},
			{Path: "ref", Rank: 1, Node: 2},
			{Path: "ref", Rank: 2, Node: 4},
		},
	}
	readPath := &graph.Path{
		Name: "read1",
		Steps: []graph.PathStep{
			{Path: "read1", Rank: 0, Node: 1},
			{Path: "read1", Rank: 1, Node: 2},
			{Path: "read1", Rank: 2, Node: 4},
		},
	}
	idx := graph.NewPathIndex([]*graph.Path{refPath, readPath})

	finder := traverse.NewReadRestrictedFinder(g, idx, map[string]bool{"read1": true}, traverse.ReadRestrictedOptions{
		MinRecurrence:      2,
		MaxPathSearchSteps: 10,
	})

	travs := finder.FindTraversals(site)
	require.Len(t, travs, 1)
	assert.Equal(t, "AGGC", alleleOf(t, travs[0]))
}
