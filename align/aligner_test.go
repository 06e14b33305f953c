package align_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shilpagarg/vg/align"
	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/scoring"
)

func model() *scoring.Model {
	return scoring.NewModel(1, -4, -6, -1)
}

func singleNodeGraph(seq string) *graph.VariationGraph {
	return graph.NewVariationGraph([]*graph.Node{{ID: 1, Sequence: []byte(seq)}}, nil)
}

// Single-node local alignment: the read matches a substring in the
// middle of a longer node.
func TestAlignLocalSingleNode(t *testing.T) {
	g := singleNodeGraph("AAAACCCAAAA")
	a := align.NewAligner(model()).Align([]byte("CCC"), g)

	require.Len(t, a.Path, 1)
	assert.EqualValues(t, 3, a.Score)
	assert.Equal(t, graph.NodeID(1), a.Path[0].Position.NodeID)
	assert.Equal(t, 4, a.Path[0].Position.Offset)
	require.Len(t, a.Path[0].Edits, 1)
	assert.Equal(t, align.Edit{FromLength: 3, ToLength: 3}, a.Path[0].Edits[0])
}

// Right-pinned alignment across two linear nodes, with a single
// mismatch at the very last read base.
func TestAlignPinnedRightAcrossNodesWithTrailingMismatch(t *testing.T) {
	g := graph.NewVariationGraph(
		[]*graph.Node{
			{ID: 1, Sequence: []byte("ACGT")},
			{ID: 2, Sequence: []byte("ACGT")},
		},
		[]graph.Edge{{From: 1, To: 2}},
	)
	a := align.NewAligner(model()).AlignPinned([]byte("ACGTACGA"), g, false, 0)

	require.Len(t, a.Path, 2)
	assert.Equal(t, graph.NodeID(1), a.Path[0].Position.NodeID)
	assert.Equal(t, graph.NodeID(2), a.Path[1].Position.NodeID)

	last := a.Path[1]
	require.NotEmpty(t, last.Edits)
	final := last.Edits[len(last.Edits)-1]
	assert.Equal(t, align.Edit{FromLength: 1, ToLength: 1, Sequence: []byte("A")}, final)
}

// A reversing edge must be fatal at graph-construction time, long
// before the DP kernel ever sees the graph.
func TestAlignOverReversingEdgeGraphIsFatal(t *testing.T) {
	nodes := []*graph.Node{
		{ID: 1, Sequence: []byte("ACGT")},
		{ID: 2, Sequence: []byte("ACGT")},
	}
	edges := []graph.Edge{{From: 1, FromStart: true, To: 2, ToEnd: false}}
	assert.Panics(t, func() {
		g := graph.NewVariationGraph(nodes, edges)
		align.NewAligner(model()).Align([]byte("ACGT"), g)
	})
}

func TestAlignPinnedLeftAndRightAgreeOnSymmetricGraph(t *testing.T) {
	g := singleNodeGraph("ACGTACGT")
	a := model()
	right := align.NewAligner(a).AlignPinned([]byte("ACGTACGT"), g, false, 0)
	left := align.NewAligner(a).AlignPinned([]byte("ACGTACGT"), g, true, 0)
	assert.Equal(t, right.Score, left.Score)
}

func TestScoreExactMatch(t *testing.T) {
	a := align.NewAligner(model())
	assert.EqualValues(t, 11, a.ScoreExactMatch([]byte("AAAACCCAAAA")))
}

func qualModel() *scoring.QualAdjModel {
	return scoring.NewQualAdjModel(1, -4, -6, -1, 40, 32)
}

func maxQuality(n int) []byte {
	q := make([]byte, n)
	for i := range q {
		q[i] = 40
	}
	return q
}

// A max-quality read should align quality-adjusted local alignment to
// the same score as the plain model, not a rescaled multiple of it.
func TestQualAdjAlignLocalSingleNodeMaxQuality(t *testing.T) {
	g := singleNodeGraph("AAAACCCAAAA")
	read := []byte("CCC")
	a := align.NewQualAdjAligner(qualModel()).Align(read, maxQuality(len(read)), g)

	require.Len(t, a.Path, 1)
	assert.EqualValues(t, 3, a.Score)
}

// The same right-pinned trailing-mismatch scenario as
// TestAlignPinnedRightAcrossNodesWithTrailingMismatch, but through the
// quality-adjusted path, which exercises fixupPinning against a
// SubstScoreQual-driven traceback instead of the plain model's.
func TestQualAdjAlignPinnedRightAcrossNodesWithTrailingMismatch(t *testing.T) {
	g := graph.NewVariationGraph(
		[]*graph.Node{
			{ID: 1, Sequence: []byte("ACGT")},
			{ID: 2, Sequence: []byte("ACGT")},
		},
		[]graph.Edge{{From: 1, To: 2}},
	)
	read := []byte("ACGTACGA")
	a := align.NewQualAdjAligner(qualModel()).AlignPinned(read, maxQuality(len(read)), g, false, 0)

	require.Len(t, a.Path, 2)
	last := a.Path[1]
	require.NotEmpty(t, last.Edits)
	final := last.Edits[len(last.Edits)-1]
	assert.Equal(t, align.Edit{FromLength: 1, ToLength: 1, Sequence: []byte("A")}, final)
}
