package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shilpagarg/vg/scoring"
)

func TestSubstScoreMatchAndMismatch(t *testing.T) {
	m := scoring.NewModel(1, -4, -6, -1)
	assert.EqualValues(t, 1, m.SubstScore('A', 'A'))
	assert.EqualValues(t, 1, m.SubstScore('a', 'A'))
	assert.EqualValues(t, -4, m.SubstScore('A', 'C'))
}

func TestSubstScoreNAlwaysMismatches(t *testing.T) {
	m := scoring.NewModel(1, -4, -6, -1)
	assert.EqualValues(t, -4, m.SubstScore('N', 'N'))
	assert.EqualValues(t, -4, m.SubstScore('A', 'N'))
	assert.EqualValues(t, -4, m.SubstScore('N', 'T'))
}

func TestGapScore(t *testing.T) {
	m := scoring.NewModel(1, -4, -6, -1)
	assert.EqualValues(t, 0, m.GapScore(0))
	assert.EqualValues(t, -7, m.GapScore(1))
	assert.EqualValues(t, -9, m.GapScore(3))
}

func TestScoreExactMatch(t *testing.T) {
	m := scoring.NewModel(1, -4, -6, -1)
	assert.EqualValues(t, 11, m.ScoreExactMatch([]byte("AAAACCCAAAA")))
}
