package traverse

import (
	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
)

// stackEntry is the DFS stack's tagged-union element: either a
// traversal to expand (Pop==false) or a sentinel marking the point
// where the current path's head should be popped on backtrack.
type stackEntry struct {
	pop bool
	t   graph.NodeTraversal
}

// exhaustiveFinder runs an explicit-stack DFS from site.Start, emitting
// one SiteTraversal for every distinct path to site.End, skipping a
// child site's interior whenever the frontier traversal matches one of
// its borders.
type exhaustiveFinder struct {
	g graph.Graph
}

// NewExhaustiveFinder returns a Finder that enumerates every path
// through a site.
func NewExhaustiveFinder(g graph.Graph) Finder {
	return &exhaustiveFinder{g: g}
}

func (f *exhaustiveFinder) FindTraversals(site *sites.NestedSite) []SiteTraversal {
	childStarts, childEnds := childBorders(site)

	var results []SiteTraversal
	var path []Visit
	stack := []stackEntry{{t: site.Start}}

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if entry.pop {
			path = path[:len(path)-1]
			continue
		}

		nt := entry.t
		visit := Visit{Traversal: nt}

		if nt == site.End {
			path = append(path, visit)
			results = append(results, SiteTraversal{Visits: append([]Visit{}, path...)})
			path = path[:len(path)-1]
			continue
		}

		stack = append(stack, stackEntry{pop: true})

		switch {
		case childStarts[nt] != nil:
			child := childStarts[nt]
			visit.Child = child
			visit.Traversal = graph.NodeTraversal{}
			stack = append(stack, stackEntry{t: child.End})
		case childEnds[nt] != nil:
			child := childEnds[nt]
			visit.Child = child
			visit.Traversal = graph.NodeTraversal{}
			visit.Backward = true
			reverseStart := graph.NodeTraversal{Node: child.Start.Node, Backward: !child.Start.Backward}
			stack = append(stack, stackEntry{t: reverseStart})
		default:
			for _, next := range f.g.NodesNext(nt) {
				stack = append(stack, stackEntry{t: next})
			}
		}

		path = append(path, visit)
	}

	return results
}
