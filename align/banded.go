package align

import (
	"math"

	"github.com/gonum/matrix/mat64"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/scoring"
)

// BandedOptions controls align_global_banded[_multi].
type BandedOptions struct {
	BandPadding       int
	PermissiveBanding bool
	Multi             bool
	MaxAlt            int
}

// bandedAligner runs a banded global DP over a linearized projection of
// the graph: each node is assigned a cumulative offset along its
// topological order, and DP cell (i, j) is only computed when row i
// falls within band_padding of the expected read column for that graph
// position. This is exact when the graph is a single path and a
// reasonable approximation for a bubbly graph whose overall length
// tracks the read length, which is the case banded global alignment is
// meant for.
type bandedAligner struct {
	model   *scoring.Model
	qual    *scoring.QualAdjModel
	read    []byte
	quality []byte
	opts    BandedOptions

	order      []graph.NodeID
	cumOffset  map[graph.NodeID]int
	graphLen   int
	grid       *mat64.Dense // (graphLen+1) x (readLen+1)
	traceback  [][]tbKind
	lowBand    []int // per graph row, inclusive band bounds in read columns
	highBand   []int
}

func newBandedAligner(model *scoring.Model, qual []byte, read []byte, opts BandedOptions) *bandedAligner {
	return &bandedAligner{model: model, read: read, quality: qual, opts: opts}
}

func (b *bandedAligner) linearize(g graph.Graph, order []graph.NodeID) []byte {
	b.order = order
	b.cumOffset = make(map[graph.NodeID]int, len(order))
	flat := make([]byte, 0)
	offset := 0
	for _, id := range order {
		b.cumOffset[id] = offset
		n := g.Node(id)
		flat = append(flat, n.Sequence...)
		offset += n.Len()
	}
	b.graphLen = offset
	return flat
}

func (b *bandedAligner) subst(ref, readBase byte, readIdx int) int32 {
	if b.qual != nil && readIdx < len(b.quality) {
		return b.qual.SubstScoreQual(ref, readBase, int(b.quality[readIdx]))
	}
	return b.model.SubstScore(ref, readBase)
}

// align runs the banded DP, widening the band (doubling band_padding)
// and re-running whenever permissive_banding is set and the band over
// the last graph row does not span every read column.
func (b *bandedAligner) align(g graph.Graph, order []graph.NodeID) (int32, []Edit, int) {
	flat := b.linearize(g, order)
	readLen := len(b.read)
	padding := b.opts.BandPadding
	if padding <= 0 {
		padding = 1
	}

	for {
		score, edits, clipped := b.fillBand(flat, padding)
		if !clipped || !b.opts.PermissiveBanding || padding >= b.graphLen+readLen {
			return score, edits, padding
		}
		padding *= 2
		if padding > b.graphLen+readLen {
			padding = b.graphLen + readLen
		}
	}
}

func (b *bandedAligner) fillBand(flat []byte, padding int) (int32, []Edit, bool) {
	rows := b.graphLen + 1
	cols := len(b.read) + 1
	ratio := float64(cols-1) / math.Max(1, float64(rows-1))

	grid := mat64.NewDense(rows, cols, nil)
	kind := make([][]tbKind, rows)
	for i := range kind {
		kind[i] = make([]tbKind, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			grid.Set(i, j, float64(negInf))
		}
	}
	grid.Set(0, 0, 0)
	clipped := false

	for i := 0; i < rows; i++ {
		expected := int(float64(i) * ratio)
		lo := expected - padding
		hi := expected + padding
		if lo < 0 {
			lo = 0
		}
		if hi > cols-1 {
			hi = cols - 1
		}
		if i == 0 {
			lo = 0
		}
		for j := lo; j <= hi; j++ {
			if i == 0 && j == 0 {
				continue
			}
			best := float64(negInf)
			var bk tbKind
			if i > 0 && j > 0 {
				s := float64(b.subst(flat[i-1], b.read[j-1], j-1))
				if v := grid.At(i-1, j-1) + s; v > best {
					best, bk = v, tbDiag
				}
			}
			if i > 0 {
				open := grid.At(i-1, j) + float64(b.model.GapOpen+b.model.GapExtend)
				if v := open; v > best {
					best, bk = v, tbUpOpen
				}
			}
			if j > 0 {
				open := grid.At(i, j-1) + float64(b.model.GapOpen+b.model.GapExtend)
				if v := open; v > best {
					best, bk = v, tbLeftOpen
				}
			}
			grid.Set(i, j, best)
			kind[i][j] = bk
		}
		if lo > 0 || hi < cols-1 {
			// The band did not cover the full row; on the last row,
			// flag the fill as clipped.
			if i == rows-1 && (lo > 0 || hi < cols-1) {
				clipped = true
			}
		}
	}

	b.grid = grid
	b.traceback = kind

	// Traceback from (rows-1, cols-1): a true global alignment.
	i, j := rows-1, cols-1
	var revEdits []Edit
	for i > 0 || j > 0 {
		switch kind[i][j] {
		case tbDiag:
			revEdits = append(revEdits, matchOrMismatch(flat[i-1], b.read[j-1]))
			i--
			j--
		case tbUpOpen:
			revEdits = append(revEdits, Edit{FromLength: 1, ToLength: 0})
			i--
		case tbLeftOpen:
			revEdits = append(revEdits, Edit{FromLength: 0, ToLength: 1, Sequence: []byte{b.read[j-1]}})
			j--
		default:
			if i > 0 {
				revEdits = append(revEdits, Edit{FromLength: 1, ToLength: 0})
				i--
			} else {
				revEdits = append(revEdits, Edit{FromLength: 0, ToLength: 1, Sequence: []byte{b.read[j-1]}})
				j--
			}
		}
	}
	for l, r := 0, len(revEdits)-1; l < r; l, r = l+1, r-1 {
		revEdits[l], revEdits[r] = revEdits[r], revEdits[l]
	}
	merged := mergeEdits(revEdits)
	return int32(grid.At(rows-1, cols-1)), merged, clipped
}

func matchOrMismatch(ref, readBase byte) Edit {
	if ref == readBase {
		return Edit{FromLength: 1, ToLength: 1}
	}
	return Edit{FromLength: 1, ToLength: 1, Sequence: []byte{readBase}}
}

// splitEditsByNode re-partitions a flat edit list (produced over the
// linearized graph) into one Mapping per node, splitting any edit that
// straddles a node boundary.
func splitEditsByNode(edits []Edit, order []graph.NodeID, g graph.Graph) []Mapping {
	var mappings []Mapping
	if len(order) == 0 {
		return mappings
	}
	nodeIdx := 0
	remaining := g.Node(order[0]).Len()
	cur := Mapping{Position: Position{NodeID: order[0], Offset: 0}, Rank: 1}
	advance := func() {
		mappings = append(mappings, cur)
		nodeIdx++
		if nodeIdx < len(order) {
			remaining = g.Node(order[nodeIdx]).Len()
			cur = Mapping{Position: Position{NodeID: order[nodeIdx], Offset: 0}, Rank: nodeIdx + 1}
		}
	}
	for _, e := range edits {
		if e.FromLength == 0 {
			// Insertion: belongs entirely to the current node.
			cur.Edits = append(cur.Edits, e)
			continue
		}
		left := e
		for left.FromLength > remaining && nodeIdx < len(order)-1 {
			head := Edit{FromLength: remaining, ToLength: remaining}
			if len(left.Sequence) > 0 {
				head.ToLength = remaining
				head.Sequence = left.Sequence[:remaining]
			}
			cur.Edits = append(cur.Edits, head)
			left.FromLength -= remaining
			if len(left.Sequence) > 0 {
				left.Sequence = left.Sequence[remaining:]
			}
			advance()
		}
		if left.FromLength > 0 {
			cur.Edits = append(cur.Edits, left)
			remaining -= left.FromLength
		}
	}
	mappings = append(mappings, cur)
	return mappings
}

func mergeEdits(edits []Edit) []Edit {
	var out []Edit
	for _, e := range edits {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.IsMatch() && e.IsMatch() {
				last.FromLength += e.FromLength
				last.ToLength += e.ToLength
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
