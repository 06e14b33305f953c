package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shilpagarg/vg/sites"
	"github.com/shilpagarg/vg/traverse"
)

var traverseFlags struct {
	graphPath  string
	bubblePath string
	siteIndex  int
	finder     string
}

var traverseCmd = &cobra.Command{
	Use:   "traverse",
	Short: "Enumerate traversals through one top-level site",
	RunE:  runTraverse,
}

func init() {
	traverseCmd.Flags().StringVar(&traverseFlags.graphPath, "graph", "-", "path to a graph JSON literal, or - for stdin")
	traverseCmd.Flags().StringVar(&traverseFlags.bubblePath, "bubbles", "", "path to an ultrabubble-tree JSON literal")
	traverseCmd.Flags().IntVar(&traverseFlags.siteIndex, "site", 0, "index of the top-level site to traverse")
	traverseCmd.Flags().StringVar(&traverseFlags.finder, "finder", "exhaustive", "trivial|exhaustive|read-restricted")
	traverseCmd.MarkFlagRequired("bubbles")

	rootCmd.AddCommand(traverseCmd)
}

// traversalView flattens a traverse.SiteTraversal's visits into the
// node ids (or child start/end, for a skipped child) walked.
type traversalView struct {
	Visits []visitView `json:"visits"`
}

type visitView struct {
	NodeID     uint64 `json:"node_id,omitempty"`
	Backward   bool   `json:"backward,omitempty"`
	ChildStart uint64 `json:"child_start,omitempty"`
	ChildEnd   uint64 `json:"child_end,omitempty"`
}

func runTraverse(cmd *cobra.Command, args []string) error {
	doc, err := readGraphDoc(traverseFlags.graphPath)
	if err != nil {
		return err
	}
	g := doc.toVariationGraph()

	bubbleDocs, err := readBubbleDocs(traverseFlags.bubblePath)
	if err != nil {
		return err
	}
	built := sites.Build(g, toBubbles(bubbleDocs))
	if traverseFlags.siteIndex < 0 || traverseFlags.siteIndex >= len(built) {
		return fmt.Errorf("vgcore: site index %d out of range (%d top-level sites)", traverseFlags.siteIndex, len(built))
	}
	site := built[traverseFlags.siteIndex]

	var finder traverse.Finder
	switch traverseFlags.finder {
	case "trivial":
		finder = traverse.NewTrivialFinder(g)
	case "exhaustive":
		finder = traverse.NewExhaustiveFinder(g)
	case "read-restricted":
		return fmt.Errorf("vgcore: read-restricted finder needs an embedded path index, not available from a bare graph literal")
	default:
		return fmt.Errorf("vgcore: unrecognized finder %q", traverseFlags.finder)
	}

	travs := finder.FindTraversals(site)
	views := make([]traversalView, len(travs))
	for i, trav := range travs {
		views[i] = viewOfTraversal(trav)
	}
	return writeJSON(views)
}

func viewOfTraversal(t traverse.SiteTraversal) traversalView {
	v := traversalView{}
	for _, visit := range t.Visits {
		if visit.Child != nil {
			v.Visits = append(v.Visits, visitView{
				ChildStart: uint64(visit.Child.Start.ID()),
				ChildEnd:   uint64(visit.Child.End.ID()),
				Backward:   visit.Backward,
			})
			continue
		}
		v.Visits = append(v.Visits, visitView{
			NodeID:   uint64(visit.Traversal.ID()),
			Backward: visit.Traversal.Backward,
		})
	}
	return v
}
