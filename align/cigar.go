// Package align implements the sequence-to-graph DP alignment kernel
// (local and pinned), the banded global aligner, and the post-processor
// that turns a cigar traceback into an Alignment.
package align

import (
	"github.com/biogo/hts/sam"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/internal/logging"
)

var log = logging.New("vg/align")

// Position is a read-to-graph anchor: a node and an offset into its
// sequence.
type Position struct {
	NodeID graph.NodeID `json:"node_id"`
	Offset int          `json:"offset"`
}

// Edit is a single from/to transformation within a Mapping.
type Edit struct {
	FromLength int    `json:"from_length"`
	ToLength   int    `json:"to_length"`
	Sequence   []byte `json:"sequence,omitempty"`
}

// IsMatch reports whether e is a plain match edit.
func (e Edit) IsMatch() bool {
	return e.FromLength == e.ToLength && len(e.Sequence) == 0
}

// Mapping anchors one node's worth of cigar onto the read.
type Mapping struct {
	Position Position `json:"position"`
	Rank     int      `json:"rank"`
	Edits    []Edit   `json:"edits"`
}

// Alignment is the full result of aligning a read to a graph.
type Alignment struct {
	Sequence       []byte    `json:"sequence"`
	Quality        []byte    `json:"quality,omitempty"`
	Path           []Mapping `json:"path"`
	Score          int32     `json:"score"`
	Identity       float64   `json:"identity"`
	MappingQuality int       `json:"mapping_quality"`
}

// nodeCigar is the per-node cigar produced by the DP traceback, in
// read (left-to-right) order, before post-processing into Mappings.
type nodeCigar struct {
	node   graph.NodeID
	offset int // DP start column on this node
	ops    sam.Cigar
}

func appendOp(c sam.Cigar, t sam.CigarOpType, n int) sam.Cigar {
	if n <= 0 {
		return c
	}
	if len(c) > 0 && c[len(c)-1].Type() == t {
		last := c[len(c)-1]
		c[len(c)-1] = sam.NewCigarOp(t, last.Len()+n)
		return c
	}
	return append(c, sam.NewCigarOp(t, n))
}
