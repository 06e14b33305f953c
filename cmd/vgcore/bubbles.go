package main

import (
	"github.com/spf13/cobra"

	"github.com/shilpagarg/vg/sites"
)

var bubblesFlags struct {
	graphPath  string
	bubblePath string
}

var bubblesCmd = &cobra.Command{
	Use:   "bubbles",
	Short: "Build and print the nested-site tree over a bubble decomposition",
	RunE:  runBubbles,
}

func init() {
	bubblesCmd.Flags().StringVar(&bubblesFlags.graphPath, "graph", "-", "path to a graph JSON literal, or - for stdin")
	bubblesCmd.Flags().StringVar(&bubblesFlags.bubblePath, "bubbles", "", "path to an ultrabubble-tree JSON literal")
	bubblesCmd.MarkFlagRequired("bubbles")

	rootCmd.AddCommand(bubblesCmd)
}

// siteView is the printable projection of a *sites.NestedSite: the
// recursive node/edge pointers aren't useful JSON, so flatten to ids.
type siteView struct {
	Start    uint64     `json:"start_node"`
	End      uint64     `json:"end_node"`
	NodeIDs  []uint64   `json:"node_ids"`
	Children []siteView `json:"children"`
}

func viewOf(s *sites.NestedSite) siteView {
	v := siteView{Start: uint64(s.Start.ID()), End: uint64(s.End.ID())}
	for id := range s.Nodes {
		v.NodeIDs = append(v.NodeIDs, uint64(id))
	}
	for _, c := range s.Children {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

func runBubbles(cmd *cobra.Command, args []string) error {
	doc, err := readGraphDoc(bubblesFlags.graphPath)
	if err != nil {
		return err
	}
	g := doc.toVariationGraph()

	bubbleDocs, err := readBubbleDocs(bubblesFlags.bubblePath)
	if err != nil {
		return err
	}

	built := sites.Build(g, toBubbles(bubbleDocs))
	views := make([]siteView, len(built))
	for i, s := range built {
		views[i] = viewOf(s)
	}
	return writeJSON(views)
}
