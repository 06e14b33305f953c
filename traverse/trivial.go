package traverse

import (
	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
)

// trivialFinder runs a BFS from site.Start over nodes in site.Nodes,
// recording parent pointers, and stops at the first path it finds to
// site.End. Used when any spanning path through the site will do.
type trivialFinder struct {
	g graph.Graph
}

// NewTrivialFinder returns a Finder that reports the first spanning
// path it discovers through a site, not every path.
func NewTrivialFinder(g graph.Graph) Finder {
	return &trivialFinder{g: g}
}

func (f *trivialFinder) FindTraversals(site *sites.NestedSite) []SiteTraversal {
	previous := make(map[graph.NodeTraversal]graph.NodeTraversal)
	queue := []graph.NodeTraversal{site.Start}

	for len(queue) > 0 {
		here := queue[0]
		queue = queue[1:]

		if here == site.End {
			var visits []Visit
			cur := here
			for {
				visits = append([]Visit{{Traversal: cur}}, visits...)
				if cur == site.Start {
					break
				}
				cur = previous[cur]
			}
			return []SiteTraversal{{Visits: visits}}
		}

		for _, next := range f.g.NodesNext(here) {
			if _, seen := previous[next]; seen {
				continue
			}
			if _, inSite := site.Nodes[next.ID()]; !inSite {
				continue
			}
			previous[next] = here
			queue = append(queue, next)
		}
	}
	return nil
}
