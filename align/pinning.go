package align

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/shilpagarg/vg/graph"
)

const dummySinkID = graph.NodeID(0) // not used as the synthetic sink's ID: addSyntheticSink takes the largest node ID + 1

// reverseGraph builds the node/edge set for "pin_left reduces to
// pin_right": reverse every node's sequence, and for every edge swap
// from/to and flip from_start<->to_end so that an edge leaving an end
// now enters a beginning and vice versa.
func reverseGraph(nodes []*graph.Node, edges []graph.Edge) ([]*graph.Node, []graph.Edge) {
	revNodes := make([]*graph.Node, len(nodes))
	for i, n := range nodes {
		seq := make([]byte, len(n.Sequence))
		for j, b := range n.Sequence {
			seq[len(seq)-1-j] = b
		}
		revNodes[i] = &graph.Node{ID: n.ID, Sequence: seq}
	}
	revEdges := make([]graph.Edge, len(edges))
	for i, e := range edges {
		revEdges[i] = graph.Edge{
			From:      e.To,
			FromStart: e.ToEnd,
			To:        e.From,
			ToEnd:     e.FromStart,
		}
	}
	return revNodes, revEdges
}

func reverseBytes(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		out[len(out)-1-i] = b
	}
	return out
}

// addSyntheticSink appends a single-base "N" sink node with incoming
// edges from every node that had no outgoing (From-side) edge in the
// original node/edge set, reducing pinned alignment to "must end at
// the synthetic sink".
func addSyntheticSink(nodes []*graph.Node, edges []graph.Edge) ([]*graph.Node, []graph.Edge, graph.NodeID) {
	hasOut := make(map[graph.NodeID]bool, len(nodes))
	for _, e := range edges {
		norm, reversing := e.Normalize()
		if reversing {
			panic(fmt.Errorf("vg/align: reversing edge %+v presented to pinning preprocessing", e))
		}
		hasOut[norm.From] = true
	}
	var sinkID graph.NodeID
	for _, n := range nodes {
		if n.ID >= sinkID {
			sinkID = n.ID + 1
		}
	}
	dummy := &graph.Node{ID: sinkID, Sequence: []byte{'N'}}
	outNodes := append(append([]*graph.Node{}, nodes...), dummy)
	outEdges := append([]graph.Edge{}, edges...)
	for _, n := range nodes {
		if !hasOut[n.ID] {
			outEdges = append(outEdges, graph.Edge{From: n.ID, FromStart: false, To: sinkID, ToEnd: false})
		}
	}
	return outNodes, outEdges, sinkID
}

// appendDummyBase appends a sentinel read base (and a zero quality
// byte, if quality-adjusted) so the synthetic sink has something to
// align against.
func appendDummyBase(read, quality []byte) ([]byte, []byte) {
	r := append(append([]byte{}, read...), 'N')
	if quality == nil {
		return r, nil
	}
	return r, append(append([]byte{}, quality...), 0)
}

// fixupPinning removes the synthetic sink's cigar from the traceback,
// moving any D/I it accumulated onto the preceding real node so the
// emitted alignment never mentions the dummy node. The cigar list here
// is still in the working graph's own frame (source to sink), so the
// dummy node — the working graph's synthetic sink — is always last;
// pin_left's "operate on the first cigar element instead" symmetry is
// realized afterward, when unreverseNodeOrder flips the whole list
// back into the caller's original node order.
func fixupPinning(nodes []nodeCigar, sinkID graph.NodeID) []nodeCigar {
	if len(nodes) == 0 {
		return nodes
	}
	dummyIdx := len(nodes) - 1
	dummy := nodes[dummyIdx]
	if dummy.node != sinkID {
		// The optimal traceback never reached the dummy node (e.g. a
		// poor local-like score inside a nominally pinned search);
		// nothing to fix up.
		return nodes
	}
	if len(dummy.ops) == 0 {
		return without(nodes, dummyIdx)
	}

	edgeOp := dummy.ops[len(dummy.ops)-1]
	if edgeOp.Type() == sam.CigarMatch {
		// The dummy "N" matched (or mismatched) the appended dummy read
		// base. Any insertion the dummy node took before that step holds
		// real read bases, so it moves onto the preceding real node; the
		// dummy node's cigar entry is then dropped.
		if len(dummy.ops) > 1 && dummyIdx > 0 {
			prev := nodes[dummyIdx-1]
			for _, op := range dummy.ops[:len(dummy.ops)-1] {
				prev.ops = appendOp(prev.ops, op.Type(), op.Len())
			}
			nodes[dummyIdx-1] = prev
		}
		return without(nodes, dummyIdx)
	}

	neighborIdx := dummyIdx - 1
	if neighborIdx < 0 {
		return without(nodes, dummyIdx)
	}
	neighbor := nodes[neighborIdx]

	switch edgeOp.Type() {
	case sam.CigarDeletion:
		// The dummy "N" was deleted: push one D unit onto the real
		// node, merging with an adjacent D if present there.
		neighbor.ops = appendOp(neighbor.ops, sam.CigarDeletion, 1)
	case sam.CigarInsertion:
		// The dummy "N" was inserted: push the inserted base onto the
		// real node's cigar as its own insertion.
		neighbor.ops = appendOp(neighbor.ops, sam.CigarInsertion, 1)
	}
	nodes[neighborIdx] = neighbor
	return without(nodes, dummyIdx)
}

func without(nodes []nodeCigar, idx int) []nodeCigar {
	out := make([]nodeCigar, 0, len(nodes)-1)
	out = append(out, nodes[:idx]...)
	out = append(out, nodes[idx+1:]...)
	return out
}

// unreverseNodeOrder restores path order and per-node offsets after a
// pin_left traceback was computed on the reversed graph/read.
func unreverseNodeOrder(nodes []nodeCigar, nodeLens map[graph.NodeID]int) []nodeCigar {
	out := make([]nodeCigar, len(nodes))
	for i := range nodes {
		r := nodes[len(nodes)-1-i]
		revOps := make(sam.Cigar, len(r.ops))
		for j, op := range r.ops {
			revOps[len(revOps)-1-j] = op
		}
		offset := 0
		if i == 0 {
			// Position within the (now un-reversed) first node: the
			// number of ref-consuming bases NOT covered by this cigar,
			// counted from the true (forward) start.
			consumed := 0
			for _, op := range revOps {
				switch op.Type() {
				case sam.CigarMatch, sam.CigarDeletion:
					consumed += op.Len()
				}
			}
			offset = nodeLens[r.node] - consumed - r.offset
			if offset < 0 {
				offset = 0
			}
		}
		out[i] = nodeCigar{node: r.node, offset: offset, ops: revOps}
	}
	return out
}
