package align

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/shilpagarg/vg/graph"
)

// buildAlignment walks the per-node cigars of a traceback and emits one
// Mapping per node visited, translating cigar elements into Edits per
// component D's rules.
func buildAlignment(read, quality []byte, cigars []nodeCigar, g graph.Graph, readStart int, score int32, softClip bool) *Alignment {
	a := &Alignment{Sequence: read, Quality: quality, Score: score}
	if len(cigars) == 0 {
		return a
	}

	readPos := readStart
	matched := 0
	for rank, nc := range cigars {
		node := g.Node(nc.node)
		nodeSeq := node.Sequence
		nodePos := nc.offset
		m := Mapping{
			Position: Position{NodeID: nc.node, Offset: nc.offset},
			Rank:     rank + 1,
		}
		for _, op := range nc.ops {
			n := op.Len()
			switch op.Type() {
			case sam.CigarMatch:
				runMatched, edits := scanMatchRun(nodeSeq[nodePos:nodePos+n], read[readPos:readPos+n])
				m.Edits = append(m.Edits, edits...)
				matched += runMatched
				nodePos += n
				readPos += n
			case sam.CigarDeletion:
				m.Edits = append(m.Edits, Edit{FromLength: n, ToLength: 0})
				nodePos += n
			case sam.CigarInsertion, sam.CigarSoftClipped:
				m.Edits = append(m.Edits, Edit{FromLength: 0, ToLength: n, Sequence: append([]byte{}, read[readPos:readPos+n]...)})
				readPos += n
			default:
				panic(fmt.Errorf("vg/align: unrecognized cigar op %v on node %d", op.Type(), nc.node))
			}
		}
		a.Path = append(a.Path, m)
	}

	if softClip {
		// Soft-clip bookkeeping is handled by the caller for the
		// zero-score pinned case; nothing further to do here.
	}
	if len(read) > 0 {
		a.Identity = float64(matched) / float64(len(read))
	}
	return a
}

// scanMatchRun splits an aligned (ref, read) base run into maximal
// match edits and per-base SNP edits, per component D's rule.
func scanMatchRun(ref, readSeg []byte) (matched int, edits []Edit) {
	i := 0
	for i < len(ref) {
		if ref[i] == readSeg[i] {
			j := i
			for j < len(ref) && ref[j] == readSeg[j] {
				j++
			}
			edits = append(edits, Edit{FromLength: j - i, ToLength: j - i})
			matched += j - i
			i = j
			continue
		}
		edits = append(edits, Edit{FromLength: 1, ToLength: 1, Sequence: []byte{readSeg[i]}})
		i++
	}
	return matched, edits
}

// softClipAlignment builds the minimal single-edit Alignment used for
// a zero-score pinned alignment on a non-empty graph (§7: expected
// empty results).
func softClipAlignment(read, quality []byte, g graph.Graph, order []graph.NodeID, pinLeft bool) *Alignment {
	a := &Alignment{Sequence: read, Quality: quality, Score: 0}
	if len(order) == 0 {
		return a
	}
	var nodeID graph.NodeID
	var offset int
	if pinLeft {
		nodeID = order[0]
		offset = 0
	} else {
		nodeID = order[len(order)-1]
		offset = g.Node(nodeID).Len()
	}
	a.Path = []Mapping{{
		Position: Position{NodeID: nodeID, Offset: offset},
		Rank:     1,
		Edits:    []Edit{{FromLength: 0, ToLength: len(read), Sequence: append([]byte{}, read...)}},
	}}
	return a
}
