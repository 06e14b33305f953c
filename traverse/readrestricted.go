package traverse

import (
	"fmt"
	"strings"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
)

// ReadRestrictedOptions controls the read-restricted finder's recurrence
// floor and per-mapping step budget.
type ReadRestrictedOptions struct {
	MinRecurrence      int
	MaxPathSearchSteps int
}

// readRestrictedFinder enumerates only the traversals actually walked
// by an embedded read or named path, deduplicating by the allele string
// each walk spells out and filtering by occurrence count.
type readRestrictedFinder struct {
	g      *graph.VariationGraph
	paths  *graph.PathIndex
	isRead map[string]bool
	opts   ReadRestrictedOptions
}

// NewReadRestrictedFinder builds a Finder over the given path index.
// isRead names the paths that are reads (contribute +1 per observation)
// as opposed to named reference paths (which float any allele they
// support up to at least MinRecurrence).
func NewReadRestrictedFinder(g *graph.VariationGraph, paths *graph.PathIndex, isRead map[string]bool, opts ReadRestrictedOptions) Finder {
	return &readRestrictedFinder{g: g, paths: paths, isRead: isRead, opts: opts}
}

type alleleResult struct {
	visits []Visit
	count  int
}

func (f *readRestrictedFinder) FindTraversals(site *sites.NestedSite) []SiteTraversal {
	if !f.paths.HasNodeMapping(site.Start.ID()) || !f.paths.HasNodeMapping(site.End.ID()) {
		return nil
	}
	childStarts, childEnds := childBorders(site)

	endMappingsByName := f.paths.GetNodeMapping(site.End.ID())
	startMappingsByName := f.paths.GetNodeMapping(site.Start.ID())

	results := make(map[string]*alleleResult)
	var order []string

	for name, steps := range startMappingsByName {
		if _, ok := endMappingsByName[name]; !ok {
			continue
		}
		for _, step := range steps {
			f.walkFromMapping(site, name, step, childStarts, childEnds, results, &order)
		}
	}

	var out []SiteTraversal
	for _, key := range order {
		r := results[key]
		if r.count < f.opts.MinRecurrence {
			continue
		}
		out = append(out, SiteTraversal{Visits: r.visits})
	}
	return out
}

func (f *readRestrictedFinder) walkFromMapping(
	site *sites.NestedSite,
	name string,
	start *graph.PathStep,
	childStarts, childEnds map[graph.NodeTraversal]*sites.NestedSite,
	results map[string]*alleleResult,
	order *[]string,
) {
	traversalDirection := start.Backward != site.Start.Backward
	expectedEndOrientation := site.End.Backward != traversalDirection

	var pathTraversed []Visit
	var allele strings.Builder

	cur := start
	steps := 0
	for cur != nil && steps < f.opts.MaxPathSearchSteps {
		nt := graph.NodeTraversal{Node: f.g.Node(cur.Node), Backward: cur.Backward != traversalDirection}
		allele.Write(nt.Sequence())

		if nt.ID() == site.End.ID() && nt.Backward == expectedEndOrientation {
			key := allele.String()
			if r, ok := results[key]; ok {
				if f.isRead[name] {
					r.count++
				} else if r.count < f.opts.MinRecurrence {
					r.count = f.opts.MinRecurrence
				} else {
					r.count++
				}
			} else {
				count := f.opts.MinRecurrence
				if f.isRead[name] {
					count = 1
				}
				results[key] = &alleleResult{visits: append(append([]Visit{}, pathTraversed...), Visit{Traversal: nt}), count: count}
				*order = append(*order, key)
			}
			return
		}

		visit := Visit{Traversal: nt}
		var oppositeSide graph.NodeID
		haveOpposite := false

		switch {
		case childStarts[nt] != nil:
			child := childStarts[nt]
			oppositeSide, haveOpposite = child.End.ID(), true
			visit.Child = child
			fmt.Fprintf(&allele, "(%d:%d)", child.Start.ID(), child.End.ID())
		case childEnds[nt] != nil:
			child := childEnds[nt]
			oppositeSide, haveOpposite = child.Start.ID(), true
			visit.Child = child
			visit.Backward = true
			fmt.Fprintf(&allele, "(%d:%d)", child.End.ID(), child.Start.ID())
		}
		pathTraversed = append(pathTraversed, visit)

		if haveOpposite {
			for cur != nil && cur.Node != oppositeSide {
				if traversalDirection {
					cur = f.paths.TraverseLeft(cur)
				} else {
					cur = f.paths.TraverseRight(cur)
				}
				steps++
			}
			continue
		}

		if traversalDirection {
			cur = f.paths.TraverseLeft(cur)
		} else {
			cur = f.paths.TraverseRight(cur)
		}
		steps++
	}
}
