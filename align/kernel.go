package align

import (
	"container/heap"
	"math"

	"github.com/biogo/hts/sam"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/scoring"
)

const negInf = int32(math.MinInt32 / 2)

type tbKind uint8

const (
	tbNone tbKind = iota
	tbStart        // local-mode reset to zero
	tbDiag         // M: substitution, from (i-1,j-1)
	tbUpOpen       // D: open a gap, from M(i-1,j)
	tbUpExtend     // D: extend a gap, from D(i-1,j)
	tbLeftOpen     // I: open a gap, from M(i,j-1)
	tbLeftExtend   // I: extend a gap, from I(i,j-1)
	tbCrossM       // row 0: carried in from a predecessor's M boundary
	tbCrossD       // row 0: carried in from a predecessor's D boundary
)

type tbCell struct {
	score int32
	kind  tbKind
	cross *dpNode // set only for tbCrossM/tbCrossD
}

// dpNode holds the M/I/D matrices for one graph node, sized
// (len(seq)+1) x (readLen+1). Row 0 represents "no bases of this node
// consumed yet"; its values are carried in from predecessor nodes so a
// traceback can walk across node boundaries.
type dpNode struct {
	id       graph.NodeID
	seq      []byte
	preds    []*dpNode
	isSource bool
	isSink   bool
	M, D, I  [][]tbCell
}

// Options controls a single alignment call.
type Options struct {
	Pinned          bool
	PinLeft         bool
	Multi           bool
	MaxAlt          int
	FullLengthBonus int32
}

// kernel runs the gap-affine DP fill over a graph already prepared by
// the caller (pin_left reversal and synthetic sink already applied, if
// requested). It never mutates the graph or scoring model.
type kernel struct {
	model    *scoring.Model
	qual     *scoring.QualAdjModel
	quality  []byte
	read     []byte
	readLen  int
	nodes    map[graph.NodeID]*dpNode
	order    []graph.NodeID
	opts     Options
}

func newKernel(model *scoring.Model, qual []byte, read []byte, opts Options) *kernel {
	return &kernel{
		model:   model,
		quality: qual,
		read:    read,
		readLen: len(read),
		nodes:   make(map[graph.NodeID]*dpNode),
		opts:    opts,
	}
}

func (k *kernel) subst(ref, readBase byte, readIdx int) int32 {
	if k.qual != nil && readIdx < len(k.quality) {
		return k.qual.SubstScoreQual(ref, readBase, int(k.quality[readIdx]))
	}
	return k.model.SubstScore(ref, readBase)
}

// fill runs the DP over g in topological order.
func (k *kernel) fill(g graph.Graph, order []graph.NodeID) {
	k.order = order
	cols := k.readLen + 1

	predecessorsOf := func(id graph.NodeID) []*dpNode {
		var preds []*dpNode
		for _, e := range g.EdgesOf(id) {
			if e.To == id && !e.ToEnd && e.From != id {
				if p, ok := k.nodes[e.From]; ok {
					preds = append(preds, p)
				}
			}
		}
		return preds
	}

	for _, id := range order {
		n := g.Node(id)
		if n == nil {
			panic("vg/align: topological order references unknown node")
		}
		dn := &dpNode{id: id, seq: n.Sequence, preds: predecessorsOf(id)}
		dn.isSource = len(dn.preds) == 0
		rows := len(dn.seq) + 1
		dn.M = make([][]tbCell, rows)
		dn.D = make([][]tbCell, rows)
		dn.I = make([][]tbCell, rows)
		for i := range dn.M {
			dn.M[i] = make([]tbCell, cols)
			dn.D[i] = make([]tbCell, cols)
			dn.I[i] = make([]tbCell, cols)
		}
		k.fillNode(dn)
		k.nodes[id] = dn
	}
}

func (k *kernel) fillNode(dn *dpNode) {
	cols := k.readLen + 1
	model := k.model
	local := !k.opts.Pinned

	// Row 0: carry state in from predecessors, or seed a fresh start.
	for j := 0; j < cols; j++ {
		var best tbCell
		best.score = negInf
		for _, p := range dn.preds {
			last := len(p.seq)
			if s := p.M[last][j].score; s > best.score {
				best = tbCell{score: s, kind: tbCrossM, cross: p}
			}
			if s := p.D[last][j].score; s > best.score {
				best = tbCell{score: s, kind: tbCrossD, cross: p}
			}
		}
		if best.score < 0 && (local || (dn.isSource && j == 0)) {
			// Nothing better to carry in from a predecessor: this is a
			// genuine alignment start. Pinned alignment starts only at
			// the very first base of a source node; local alignment may
			// start anywhere.
			best = tbCell{score: 0, kind: tbStart}
		}
		dn.M[0][j] = best
		dn.D[0][j] = best
		if j == 0 {
			dn.I[0][j] = tbCell{score: negInf}
			continue
		}
		openI := dn.M[0][j-1].score + model.GapOpen + model.GapExtend
		extI := dn.I[0][j-1].score + model.GapExtend
		if extI >= openI {
			dn.I[0][j] = tbCell{score: extI, kind: tbLeftExtend}
		} else {
			dn.I[0][j] = tbCell{score: openI, kind: tbLeftOpen}
		}
	}

	for i := 1; i < len(dn.seq)+1; i++ {
		ref := dn.seq[i-1]
		for j := 0; j < cols; j++ {
			// D: consume graph base, not read.
			openD := dn.M[i-1][j].score + model.GapOpen + model.GapExtend
			extD := dn.D[i-1][j].score + model.GapExtend
			if extD >= openD {
				dn.D[i][j] = tbCell{score: extD, kind: tbUpExtend}
			} else {
				dn.D[i][j] = tbCell{score: openD, kind: tbUpOpen}
			}

			// I: consume read base, not graph.
			if j == 0 {
				dn.I[i][j] = tbCell{score: negInf}
			} else {
				openI := dn.M[i][j-1].score + model.GapOpen + model.GapExtend
				extI := dn.I[i][j-1].score + model.GapExtend
				if extI >= openI {
					dn.I[i][j] = tbCell{score: extI, kind: tbLeftExtend}
				} else {
					dn.I[i][j] = tbCell{score: openI, kind: tbLeftOpen}
				}
			}

			// M: consume both.
			if j == 0 {
				if local {
					dn.M[i][j] = tbCell{score: 0, kind: tbStart}
				} else {
					dn.M[i][j] = tbCell{score: negInf}
				}
				continue
			}
			s := k.subst(ref, k.read[j-1], j-1)
			best := dn.M[i-1][j-1].score
			kind := tbDiag
			if dn.D[i-1][j-1].score > best {
				best = dn.D[i-1][j-1].score
				kind = tbDiag
			}
			if dn.I[i-1][j-1].score > best {
				best = dn.I[i-1][j-1].score
				kind = tbDiag
			}
			candidate := best + s
			if local && candidate < 0 {
				candidate = 0
				kind = tbStart
			}
			dn.M[i][j] = tbCell{score: candidate, kind: kind}
		}
	}
}

// candidates returns every plausible traceback start (M cells with
// score>0) across all nodes, used by the multi-alt search in topKLocal.
func (k *kernel) candidates() []*candidate {
	var out []*candidate
	for _, id := range k.order {
		dn := k.nodes[id]
		for i := range dn.M {
			for j := range dn.M[i] {
				if dn.M[i][j].score > 0 {
					out = append(out, &candidate{node: dn, row: i, col: j, score: dn.M[i][j].score})
				}
			}
		}
	}
	return out
}

// bestLocal returns the single highest-scoring cell anywhere in the
// matrices, for local (non-pinned) single-best alignment.
func (k *kernel) bestLocal() *candidate {
	var best *candidate
	for _, id := range k.order {
		dn := k.nodes[id]
		for i := range dn.M {
			for j := range dn.M[i] {
				if best == nil || dn.M[i][j].score > best.score {
					best = &candidate{node: dn, row: i, col: j, score: dn.M[i][j].score}
				}
			}
		}
	}
	return best
}

// topKLocal returns up to maxAlt distinct candidate cells in descending
// score order, stopping early once a candidate's score is <=0, using the
// adapted priority queue for ordering. Cells are distinct, but the
// tracebacks that start from them may share cells and overlap.
func (k *kernel) topKLocal(maxAlt int) []*candidate {
	cands := k.candidates()
	pq := make(candidateQueue, 0, len(cands))
	for _, c := range cands {
		heap.Push(&pq, c)
	}
	used := make(map[*dpNode]map[[2]int]bool)
	var out []*candidate
	for pq.Len() > 0 && len(out) < maxAlt {
		c := heap.Pop(&pq).(*candidate)
		if c.score <= 0 {
			break
		}
		if used[c.node] == nil {
			used[c.node] = make(map[[2]int]bool)
		}
		key := [2]int{c.row, c.col}
		if used[c.node][key] {
			continue
		}
		used[c.node][key] = true
		out = append(out, c)
	}
	return out
}

// traceback walks a single traceback from the given ending cell back to
// its start, returning per-node cigars in read order (source to sink).
// Row 0 of a node's M/D matrix is either a genuine alignment start
// (tbStart, or an untouched source-node boundary) or a carry-in from a
// predecessor's own boundary row (tbCrossM/tbCrossD): the walk crosses
// into the predecessor and continues there.
func (k *kernel) traceback(end *candidate) []nodeCigar {
	var revNodes []nodeCigar
	dn := end.node
	i, j := end.row, end.col
	mat := byte('M')
	var cur sam.Cigar

	flushNode := func(startRow int) {
		for l, r := 0, len(cur)-1; l < r; l, r = l+1, r-1 {
			cur[l], cur[r] = cur[r], cur[l]
		}
		revNodes = append(revNodes, nodeCigar{node: dn.id, offset: startRow, ops: cur})
		cur = nil
	}

	for {
		if i == 0 && (mat == 'M' || mat == 'D') {
			var cell tbCell
			if mat == 'M' {
				cell = dn.M[0][j]
			} else {
				cell = dn.D[0][j]
			}
			if cell.kind != tbCrossM && cell.kind != tbCrossD {
				flushNode(0)
				break
			}
			flushNode(0)
			pred := cell.cross
			dn = pred
			i = len(pred.seq)
			if cell.kind == tbCrossD {
				mat = 'D'
			} else {
				mat = 'M'
			}
			continue
		}
		switch mat {
		case 'M':
			cell := dn.M[i][j]
			if cell.kind == tbStart {
				flushNode(i)
				return reverseNodeCigars(revNodes)
			}
			cur = appendOp(cur, sam.CigarMatch, 1)
			// fillNode records tbDiag whichever of M, D or I at
			// (i-1, j-1) the cell was reached from; recover that state
			// from the scores, preferring M, then D, then I as the fill does.
			prev := cell.score - k.subst(dn.seq[i-1], k.read[j-1], j-1)
			i--
			j--
			switch prev {
			case dn.M[i][j].score:
				mat = 'M'
			case dn.D[i][j].score:
				mat = 'D'
			case dn.I[i][j].score:
				mat = 'I'
			}
		case 'D':
			cell := dn.D[i][j]
			cur = appendOp(cur, sam.CigarDeletion, 1)
			i--
			if cell.kind == tbUpOpen {
				mat = 'M'
			}
		case 'I':
			cell := dn.I[i][j]
			cur = appendOp(cur, sam.CigarInsertion, 1)
			j--
			if cell.kind == tbLeftOpen {
				mat = 'M'
			}
		}
	}
	return reverseNodeCigars(revNodes)
}

func reverseNodeCigars(nodes []nodeCigar) []nodeCigar {
	for l, r := 0, len(nodes)-1; l < r; l, r = l+1, r-1 {
		nodes[l], nodes[r] = nodes[r], nodes[l]
	}
	return nodes
}
