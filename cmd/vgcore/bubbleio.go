package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ugorji/go/codec"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/sites"
)

// bubbleDoc is the on-the-wire shape of a single ultrabubble-tree node.
type bubbleDoc struct {
	Start    sideDoc     `json:"start"`
	End      sideDoc     `json:"end"`
	Contents []uint64    `json:"contents"`
	Children []bubbleDoc `json:"children"`
}

type sideDoc struct {
	Node uint64 `json:"node"`
	End  bool   `json:"end"`
}

func readBubbleDocs(path string) ([]bubbleDoc, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("vgcore: opening bubble file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var docs []bubbleDoc
	dec := codec.NewDecoder(r, &jsonHandle)
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("vgcore: decoding bubbles: %w", err)
	}
	return docs, nil
}

func (d bubbleDoc) toBubble() *sites.Bubble {
	b := &sites.Bubble{
		Start: graph.NodeSide{Node: graph.NodeID(d.Start.Node), End: d.Start.End},
		End:   graph.NodeSide{Node: graph.NodeID(d.End.Node), End: d.End.End},
	}
	for _, id := range d.Contents {
		b.Contents = append(b.Contents, graph.NodeID(id))
	}
	for _, c := range d.Children {
		b.Children = append(b.Children, c.toBubble())
	}
	return b
}

func toBubbles(docs []bubbleDoc) []*sites.Bubble {
	out := make([]*sites.Bubble, len(docs))
	for i, d := range docs {
		out[i] = d.toBubble()
	}
	return out
}
