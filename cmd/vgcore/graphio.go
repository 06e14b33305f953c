package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ugorji/go/codec"

	"github.com/shilpagarg/vg/graph"
)

var jsonHandle codec.JsonHandle

// graphDoc is the on-the-wire shape of the demo graph literal accepted
// by every subcommand: a flat node list and a flat edge list.
type graphDoc struct {
	Nodes []nodeDoc `json:"nodes"`
	Edges []edgeDoc `json:"edges"`
}

type nodeDoc struct {
	ID  uint64 `json:"id"`
	Seq string `json:"seq"`
}

type edgeDoc struct {
	From      uint64 `json:"from"`
	FromStart bool   `json:"from_start"`
	To        uint64 `json:"to"`
	ToEnd     bool   `json:"to_end"`
}

// readGraphDoc decodes a graphDoc from path, or from stdin when path is "-".
func readGraphDoc(path string) (*graphDoc, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("vgcore: opening graph file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var doc graphDoc
	dec := codec.NewDecoder(r, &jsonHandle)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("vgcore: decoding graph: %w", err)
	}
	return &doc, nil
}

// toVariationGraph builds a graph.VariationGraph from a decoded document.
func (d *graphDoc) toVariationGraph() *graph.VariationGraph {
	nodes := make([]*graph.Node, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = &graph.Node{ID: graph.NodeID(n.ID), Sequence: []byte(n.Seq)}
	}
	edges := make([]graph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graph.Edge{From: graph.NodeID(e.From), FromStart: e.FromStart, To: graph.NodeID(e.To), ToEnd: e.ToEnd}
	}
	return graph.NewVariationGraph(nodes, edges)
}

// writeJSON encodes v as JSON to stdout.
func writeJSON(v interface{}) error {
	enc := codec.NewEncoder(os.Stdout, &jsonHandle)
	return enc.Encode(v)
}
