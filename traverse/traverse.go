// Package traverse enumerates paths through a nested site — ways of
// getting from its start traversal to its end traversal — using one of
// three strategies with different completeness/cost tradeoffs.
package traverse

import (
	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
)

// Visit is one step of a SiteTraversal: either a plain node traversal,
// or (when Child is non-nil) a skip over an entire nested child site,
// entered forward or in reverse per Backward.
type Visit struct {
	Traversal graph.NodeTraversal
	Child     *sites.NestedSite
	Backward  bool
}

// SiteTraversal is one complete walk from a site's start to its end.
type SiteTraversal struct {
	Visits []Visit
}

// Finder is the one-method capability shared by Trivial, Exhaustive and
// ReadRestricted: avoid inheritance, model the three strategies as
// interchangeable implementations of the same operation.
type Finder interface {
	FindTraversals(site *sites.NestedSite) []SiteTraversal
}

// childBorders builds the start/end lookup maps every finder uses to
// skip over a child site's interior instead of walking into it.
func childBorders(site *sites.NestedSite) (starts, ends map[graph.NodeTraversal]*sites.NestedSite) {
	starts = make(map[graph.NodeTraversal]*sites.NestedSite, len(site.Children))
	ends = make(map[graph.NodeTraversal]*sites.NestedSite, len(site.Children))
	for _, child := range site.Children {
		starts[child.Start] = child
		ends[graph.NodeTraversal{Node: child.End.Node, Backward: !child.End.Backward}] = child
	}
	return starts, ends
}
