package sites

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shilpagarg/vg/graph"
)

// ForEachSite builds the nested-site tree from roots and hands each
// top-level NestedSite to fn, running the calls concurrently and
// returning only once every call has finished (the task barrier
// required of the site builder). Every call is started regardless of
// errors in the others; the first error returned by any fn call is
// returned.
func ForEachSite(g *graph.VariationGraph, roots []*Bubble, fn func(*NestedSite) error) error {
	topLevel := Build(g, roots)

	group, _ := errgroup.WithContext(context.Background())
	for _, site := range topLevel {
		site := site
		group.Go(func() error {
			return fn(site)
		})
	}
	return group.Wait()
}
