// Package sites builds nested bubble sites from an ultrabubble-shaped
// bubble tree and a variation graph, ready for the traverse package's
// traversal finders to enumerate.
package sites

import (
	"github.com/shilpagarg/vg/graph"
)

// Bubble describes one node of the input ultrabubble tree: a single
// entry/exit subgraph over the graph's node-side space. It is the
// caller-supplied decomposition; sites.Build does not compute it.
type Bubble struct {
	Start    graph.NodeSide
	End      graph.NodeSide
	Contents []graph.NodeID
	Children []*Bubble
}

// NestedSite is the built-out counterpart of a Bubble: node pointers
// and traversals resolved against a concrete graph, edges assigned,
// and children linked both by slice and by border index.
type NestedSite struct {
	Start graph.NodeTraversal
	End   graph.NodeTraversal
	Nodes map[graph.NodeID]*graph.Node
	Edges map[graph.Edge]struct{}

	Children []*NestedSite
	// ChildBorderIndex maps a child's entry traversal, and the reverse
	// of its exit traversal, to that child's index in Children.
	ChildBorderIndex map[graph.NodeTraversal]int
}

func newNestedSite() *NestedSite {
	return &NestedSite{
		Nodes:            make(map[graph.NodeID]*graph.Node),
		Edges:            make(map[graph.Edge]struct{}),
		ChildBorderIndex: make(map[graph.NodeTraversal]int),
	}
}

// Build performs the postorder walk described by the bubble-tree
// interface: it fills in a NestedSite for every non-root bubble,
// wiring children by border index and assigning edges via the
// three-source union, and returns the resulting top-level sites (a
// bubble tree may have more than one root-level bubble).
func Build(g *graph.VariationGraph, roots []*Bubble) []*NestedSite {
	out := make([]*NestedSite, len(roots))
	for i, root := range roots {
		out[i] = buildSite(g, root)
	}
	return out
}

// buildSite folds b's already-built children into a NestedSite, postorder:
// children are built first (via recursion), then wired into the parent by
// border index, then edges are assigned over the completed node/child set.
func buildSite(g *graph.VariationGraph, b *Bubble) *NestedSite {
	site := newNestedSite()

	site.Start = graph.NodeTraversal{Node: g.Node(b.Start.Node), Backward: !b.Start.End}
	site.End = graph.NodeTraversal{Node: g.Node(b.End.Node), Backward: b.End.End}

	for _, id := range b.Contents {
		site.Nodes[id] = g.Node(id)
	}

	for _, childBubble := range b.Children {
		child := buildSite(g, childBubble)
		site.Children = append(site.Children, child)
		idx := len(site.Children) - 1
		site.ChildBorderIndex[child.Start] = idx
		site.ChildBorderIndex[child.End.Reverse()] = idx
	}

	assignEdges(g, site)
	return site
}

// assignEdges implements the three-source union from the bubble-tree
// builder: edges on internal nodes, edges linking a child's outer sides
// to the rest of the graph, and edges on the inner sides of this site's
// own start/end.
func assignEdges(g *graph.VariationGraph, site *NestedSite) {
	for id, n := range site.Nodes {
		if id == site.Start.ID() || id == site.End.ID() {
			continue
		}
		for _, e := range g.EdgesOf(n.ID) {
			site.Edges[e] = struct{}{}
		}
	}

	for _, child := range site.Children {
		startOuter := graph.NodeSide{Node: child.Start.ID(), End: child.Start.Backward}
		for _, e := range g.EdgesOf(startOuter.Node) {
			if touchesSide(e, startOuter) {
				site.Edges[e] = struct{}{}
			}
		}
		endOuter := graph.NodeSide{Node: child.End.ID(), End: !child.End.Backward}
		for _, e := range g.EdgesOf(endOuter.Node) {
			if touchesSide(e, endOuter) {
				site.Edges[e] = struct{}{}
			}
		}
	}

	startInner := graph.NodeSide{Node: site.Start.ID(), End: !site.Start.Backward}
	for _, e := range g.EdgesOf(startInner.Node) {
		if touchesSide(e, startInner) {
			site.Edges[e] = struct{}{}
		}
	}
	endInner := graph.NodeSide{Node: site.End.ID(), End: site.End.Backward}
	for _, e := range g.EdgesOf(endInner.Node) {
		if touchesSide(e, endInner) {
			site.Edges[e] = struct{}{}
		}
	}
}

// touchesSide reports whether e has one of its two ends at side.
func touchesSide(e graph.Edge, side graph.NodeSide) bool {
	if e.From == side.Node && e.FromStart == !side.End {
		return true
	}
	if e.To == side.Node && e.ToEnd == side.End {
		return true
	}
	return false
}
