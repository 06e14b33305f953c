package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shilpagarg/vg/scoring"
)

func TestQualAdjScoreExactMatchApproachesBase(t *testing.T) {
	q := scoring.NewQualAdjModel(1, -4, -6, -1, 40, 32)
	seq := []byte("AAAACCCAAAA")
	quality := make([]byte, len(seq))
	for i := range quality {
		quality[i] = 40 // max quality
	}

	got := q.ScoreExactMatch(seq, quality)
	want := q.Model.ScoreExactMatch(seq)
	assert.InDelta(t, float64(want), float64(got), float64(len(seq)))
}

func TestQualAdjSubstScoreQualDegradesWithLowerQuality(t *testing.T) {
	q := scoring.NewQualAdjModel(1, -4, -6, -1, 40, 32)
	hi := q.SubstScoreQual('A', 'A', 40)
	lo := q.SubstScoreQual('A', 'A', 0)
	assert.LessOrEqual(t, lo, hi)
}
