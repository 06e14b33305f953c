// Package scoring implements the gap-affine substitution model (plain
// and quality-adjusted) and log-base recovery for mapping-quality
// conversion.
package scoring

import (
	"github.com/gonum/matrix/mat64"

	"github.com/shilpagarg/vg/graph"
	"github.com/shilpagarg/vg/internal/logging"
)

var log = logging.New("vg/scoring")

const numBases = 5 // A, C, G, T, N

func baseIndex(b byte) int {
	switch graph.NormalizeBase(b) {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return 4
	}
}

// Model is the plain integer scoring model: match/mismatch/gap costs
// plus a dense substitution matrix derived from them.
type Model struct {
	Match     int32
	Mismatch  int32
	GapOpen   int32
	GapExtend int32
	Subst     *mat64.Dense // numBases x numBases
}

// NewModel builds a Model and its substitution matrix. N against
// anything (including N) scores as a mismatch, matching the
// normalize-to-N treatment of non-ATGC input.
func NewModel(match, mismatch, gapOpen, gapExtend int32) *Model {
	m := &Model{Match: match, Mismatch: mismatch, GapOpen: gapOpen, GapExtend: gapExtend}
	m.Subst = mat64.NewDense(numBases, numBases, nil)
	for i := 0; i < numBases; i++ {
		for j := 0; j < numBases; j++ {
			score := float64(mismatch)
			if i == j && i != 4 {
				score = float64(match)
			}
			m.Subst.Set(i, j, score)
		}
	}
	return m
}

// SubstScore returns the substitution score for aligning ref against
// read, after normalizing both to {A,C,G,T,N}.
func (m *Model) SubstScore(ref, read byte) int32 {
	return int32(m.Subst.At(baseIndex(ref), baseIndex(read)))
}

// GapScore returns the affine cost of a gap of length L (L >= 1).
func (m *Model) GapScore(length int) int32 {
	if length <= 0 {
		return 0
	}
	return m.GapOpen + int32(length)*m.GapExtend
}

// ScoreExactMatch scores a read against itself end-to-end with no gaps,
// the plain-model form of the score_exact_match operation.
func (m *Model) ScoreExactMatch(sequence []byte) int32 {
	return int32(len(sequence)) * m.Match
}
