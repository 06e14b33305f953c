package align

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/scoring"
)

// Aligner exposes the alignment operations over a fixed scoring model.
// It holds no mutable per-call state, so the same Aligner may be used
// concurrently by multiple goroutines.
type Aligner struct {
	Model *scoring.Model
}

// NewAligner constructs an Aligner over the given plain scoring model.
func NewAligner(model *scoring.Model) *Aligner {
	return &Aligner{Model: model}
}

// QualAdjAligner is the quality-adjusted counterpart of Aligner.
type QualAdjAligner struct {
	Model *scoring.QualAdjModel
}

// NewQualAdjAligner constructs a QualAdjAligner over the given
// quality-adjusted scoring model.
func NewQualAdjAligner(model *scoring.QualAdjModel) *QualAdjAligner {
	return &QualAdjAligner{Model: model}
}

// Align performs local (Smith-Waterman-like) alignment.
func (a *Aligner) Align(read []byte, g *graph.VariationGraph) *Alignment {
	return align(a.Model, nil, read, nil, g, Options{})
}

// AlignPinned performs pinned alignment, anchored left or right.
func (a *Aligner) AlignPinned(read []byte, g *graph.VariationGraph, pinLeft bool, fullLengthBonus int32) *Alignment {
	return align(a.Model, nil, read, nil, g, Options{Pinned: true, PinLeft: pinLeft, FullLengthBonus: fullLengthBonus})
}

// AlignPinnedMulti performs pinned alignment, returning the primary
// alignment and up to maxAlt-1 alternates in descending score order, so
// that at most maxAlt alignments are reported in all.
func (a *Aligner) AlignPinnedMulti(read []byte, g *graph.VariationGraph, pinLeft bool, maxAlt int, fullLengthBonus int32) (*Alignment, []*Alignment) {
	return alignMulti(a.Model, nil, read, nil, g, Options{Pinned: true, PinLeft: pinLeft, Multi: true, MaxAlt: maxAlt, FullLengthBonus: fullLengthBonus})
}

// AlignGlobalBanded performs banded global alignment.
func (a *Aligner) AlignGlobalBanded(read []byte, g *graph.VariationGraph, bandPadding int, permissive bool) *Alignment {
	al, _ := alignBanded(a.Model, nil, read, nil, g, BandedOptions{BandPadding: bandPadding, PermissiveBanding: permissive})
	return al
}

// AlignGlobalBandedMulti performs banded global alignment. Suboptimal
// tracebacks beyond the primary are not enumerated; see DESIGN.md.
func (a *Aligner) AlignGlobalBandedMulti(read []byte, g *graph.VariationGraph, maxAlt, bandPadding int, permissive bool) (*Alignment, []*Alignment) {
	al, _ := alignBanded(a.Model, nil, read, nil, g, BandedOptions{BandPadding: bandPadding, PermissiveBanding: permissive, Multi: true, MaxAlt: maxAlt})
	return al, nil
}

// ScoreExactMatch is the plain-model form of score_exact_match.
func (a *Aligner) ScoreExactMatch(sequence []byte) int32 { return a.Model.ScoreExactMatch(sequence) }

// Align is the quality-adjusted counterpart of Aligner.Align.
func (a *QualAdjAligner) Align(read, quality []byte, g *graph.VariationGraph) *Alignment {
	return align(a.Model.Model, a.Model, read, quality, g, Options{})
}

// AlignPinned is the quality-adjusted counterpart of Aligner.AlignPinned.
func (a *QualAdjAligner) AlignPinned(read, quality []byte, g *graph.VariationGraph, pinLeft bool, fullLengthBonus int32) *Alignment {
	scaled := scaleBonus(fullLengthBonus, a.Model)
	return align(a.Model.Model, a.Model, read, quality, g, Options{Pinned: true, PinLeft: pinLeft, FullLengthBonus: scaled})
}

// ScoreExactMatch is the quality-adjusted form of score_exact_match.
func (a *QualAdjAligner) ScoreExactMatch(sequence, quality []byte) int32 {
	return a.Model.ScoreExactMatch(sequence, quality)
}

func scaleBonus(bonus int32, q *scoring.QualAdjModel) int32 {
	if q.GapOpen == 0 {
		return bonus
	}
	return int32(float64(bonus) * float64(q.ScaledGapOpen) / float64(q.GapOpen))
}

// workingGraph is the (possibly reversed, possibly sink-appended) graph
// the DP kernel actually fills over, plus enough bookkeeping to map a
// traceback back onto the caller's original graph and read.
type workingGraph struct {
	g      *graph.VariationGraph
	order  []graph.NodeID
	sinkID graph.NodeID
	lens   map[graph.NodeID]int // original node lengths, for un-reversal offsets
}

func buildWorkingGraph(orig *graph.VariationGraph, opts Options) *workingGraph {
	nodes := orig.AllNodes()
	edges := orig.AllEdges()
	lens := make(map[graph.NodeID]int, len(nodes))
	for _, n := range nodes {
		lens[n.ID] = n.Len()
	}
	if opts.PinLeft {
		nodes, edges = reverseGraph(nodes, edges)
	}
	var sinkID graph.NodeID
	if opts.Pinned {
		nodes, edges, sinkID = addSyntheticSink(nodes, edges)
	}
	built := orig
	if opts.PinLeft || opts.Pinned {
		built = graph.NewVariationGraph(nodes, edges)
	}
	return &workingGraph{g: built, order: built.TopoOrder(), sinkID: sinkID, lens: lens}
}

func align(model *scoring.Model, qual *scoring.QualAdjModel, read, quality []byte, orig *graph.VariationGraph, opts Options) *Alignment {
	checkOptions(opts)
	wg := buildWorkingGraph(orig, opts)

	readIn := read
	qualWork := quality
	if opts.PinLeft {
		readIn = reverseBytes(readIn)
		qualWork = reverseBytes(quality)
	}
	var qualIn []byte
	if opts.Pinned {
		readIn, qualIn = appendDummyBase(readIn, qualWork)
	} else {
		qualIn = qualWork
	}

	k := newKernel(model, qualIn, readIn, opts)
	k.qual = qual
	k.fill(wg.g, wg.order)

	var end *candidate
	if opts.Pinned {
		end = pinnedEnd(k, wg.sinkID)
	} else {
		end = k.bestLocal()
	}
	if end == nil || end.score <= 0 {
		if opts.Pinned {
			return softClipAlignment(read, quality, orig, orig.TopoOrder(), opts.PinLeft)
		}
		return &Alignment{Sequence: read, Quality: quality}
	}

	cigars := k.traceback(end)
	bonus := applyFullLengthBonus(k, end, cigars, opts)
	readStart := end.col - readConsumed(cigars)

	if opts.Pinned {
		cigars = fixupPinning(cigars, wg.sinkID)
	}
	if opts.PinLeft {
		cigars = unreverseNodeOrder(cigars, wg.lens)
		readStart = 0
	}

	return buildAlignment(read, quality, cigars, orig, readStart, end.score+bonus, opts.Pinned)
}

func alignMulti(model *scoring.Model, qual *scoring.QualAdjModel, read, quality []byte, orig *graph.VariationGraph, opts Options) (*Alignment, []*Alignment) {
	primary := align(model, qual, read, quality, orig, Options{Pinned: opts.Pinned, PinLeft: opts.PinLeft, FullLengthBonus: opts.FullLengthBonus})
	if opts.MaxAlt <= 1 {
		return primary, nil
	}
	wg := buildWorkingGraph(orig, opts)
	readIn := read
	qualWork := quality
	if opts.PinLeft {
		readIn = reverseBytes(readIn)
		qualWork = reverseBytes(quality)
	}
	readIn, qualIn := appendDummyBase(readIn, qualWork)

	k := newKernel(model, qualIn, readIn, opts)
	k.qual = qual
	k.fill(wg.g, wg.order)

	var alternates []*Alignment
	for _, c := range k.topKLocal(opts.MaxAlt) {
		if c.node.id != wg.sinkID {
			continue
		}
		cigars := k.traceback(c)
		bonus := applyFullLengthBonus(k, c, cigars, opts)
		readStart := 0
		if !opts.PinLeft {
			readStart = c.col - readConsumed(cigars)
		}
		score := c.score
		if c.row > 0 {
			// As in pinnedEnd: the dummy base's own substitution is not
			// part of the reported score.
			score -= k.subst(c.node.seq[c.row-1], k.read[c.col-1], c.col-1)
		}
		cigars = fixupPinning(cigars, wg.sinkID)
		if opts.PinLeft {
			cigars = unreverseNodeOrder(cigars, wg.lens)
		}
		alternates = append(alternates, buildAlignment(read, quality, cigars, orig, readStart, score+bonus, true))
		if len(alternates) >= opts.MaxAlt-1 {
			break
		}
	}
	return primary, alternates
}

func alignBanded(model *scoring.Model, qual *scoring.QualAdjModel, read, quality []byte, g *graph.VariationGraph, opts BandedOptions) (*Alignment, int32) {
	order := g.TopoOrder()
	b := newBandedAligner(model, quality, read, opts)
	b.qual = qual
	score, edits, _ := b.align(g, order)
	mappings := splitEditsByNode(edits, order, g)
	a := &Alignment{Sequence: read, Quality: quality, Score: score, Path: mappings}
	matched, total := 0, 0
	for _, m := range mappings {
		for _, e := range m.Edits {
			total += e.ToLength
			if e.IsMatch() {
				matched += e.ToLength
			}
		}
	}
	if total > 0 {
		a.Identity = float64(matched) / float64(total)
	}
	return a, score
}

func checkOptions(opts Options) {
	if opts.PinLeft && !opts.Pinned {
		panic(fmt.Errorf("vg/align: cannot choose pinned end in non-pinned alignment"))
	}
	if opts.Multi && opts.MaxAlt < 1 {
		panic(fmt.Errorf("vg/align: multi-alignment requires max_alt >= 1"))
	}
	if !opts.Multi && opts.MaxAlt != 0 && opts.MaxAlt != 1 {
		panic(fmt.Errorf("vg/align: cannot specify maximum number of alignments in single alignment"))
	}
}

func pinnedEnd(k *kernel, sinkID graph.NodeID) *candidate {
	sink, ok := k.nodes[sinkID]
	if !ok {
		return nil
	}
	lastRow := len(sink.seq)
	lastCol := k.readLen
	cell := sink.M[lastRow][lastCol]
	// The cell's score includes the dummy "N" aligned against the
	// appended dummy read base; that step is not part of the reported
	// alignment, so its substitution score is taken back out.
	score := cell.score - k.subst(sink.seq[lastRow-1], k.read[lastCol-1], lastCol-1)
	return &candidate{node: sink, row: lastRow, col: lastCol, score: score}
}

func readConsumed(cigars []nodeCigar) int {
	n := 0
	for _, nc := range cigars {
		for _, op := range nc.ops {
			switch op.Type() {
			case sam.CigarMatch, sam.CigarInsertion, sam.CigarSoftClipped:
				n += op.Len()
			}
		}
	}
	return n
}

// applyFullLengthBonus adds the full-length bonus exactly once, when
// the traceback both starts at a source's very first base and ends
// having consumed the entire read.
func applyFullLengthBonus(k *kernel, end *candidate, cigars []nodeCigar, opts Options) int32 {
	if opts.FullLengthBonus == 0 || len(cigars) == 0 {
		return 0
	}
	if end.col != k.readLen {
		return 0
	}
	first := cigars[0]
	firstNode := k.nodes[first.node]
	if !firstNode.isSource || first.offset != 0 {
		return 0
	}
	return opts.FullLengthBonus
}
