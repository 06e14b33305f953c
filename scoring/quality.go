package scoring

import "math"

const defaultMaxQuality = 40
const defaultMaxScaledScore = 32

// QualAdjModel extends Model with a quality-adjusted score table indexed
// by (quality, refBase, readBase) in the plain model's score units, and
// a separately scaled pair of gap costs (ScaledGapOpen/ScaledGapExtend).
type QualAdjModel struct {
	*Model
	MaxQuality       int
	MaxScaledScore   int32
	Table            [][numBases][numBases]int32 // [quality][ref][read]
	ScaledGapOpen    int32
	ScaledGapExtend  int32
	scaleFactor      float64
}

// NewQualAdjModel builds the quality-adjusted table from an expected
// per-base error model (errorProb(q) = 10^(-q/10), clamped to 0.75).
// Table entries stay in the plain model's own score units — confidence
// attenuated by errProb, never independently rescaled — so that a
// maximum-quality exact match approaches the same score as the plain
// model's (the DP kernel mixes SubstScoreQual results directly with
// the embedded Model's raw GapOpen/GapExtend, so the two must share
// units). Only the gap costs get a separate scaled variant, for
// callers that need a comparably-sized bonus or log-base figure
// (scaleBonus, RecoverLogBaseQualAdj) without touching the substitution
// table itself.
func NewQualAdjModel(match, mismatch, gapOpen, gapExtend int32, maxQuality int, maxScaledScore int32) *QualAdjModel {
	if maxQuality <= 0 {
		maxQuality = defaultMaxQuality
	}
	if maxScaledScore <= 0 {
		maxScaledScore = defaultMaxScaledScore
	}
	base := NewModel(match, mismatch, gapOpen, gapExtend)
	q := &QualAdjModel{
		Model:          base,
		MaxQuality:     maxQuality,
		MaxScaledScore: maxScaledScore,
	}

	// Rough dynamic range of the raw scores, used only to size the
	// separate scaled gap-cost figures below.
	maxAbs := math.Abs(float64(match))
	if math.Abs(float64(mismatch)) > maxAbs {
		maxAbs = math.Abs(float64(mismatch))
	}
	if maxAbs == 0 {
		maxAbs = 1
	}
	q.scaleFactor = float64(maxScaledScore) / maxAbs

	q.Table = make([][numBases][numBases]int32, maxQuality+1)
	for qual := 0; qual <= maxQuality; qual++ {
		errProb := errorProb(qual)
		for ref := 0; ref < numBases; ref++ {
			for read := 0; read < numBases; read++ {
				var raw float64
				if ref == read && ref != 4 {
					raw = float64(match) * (1 - errProb)
				} else {
					raw = float64(mismatch) * (1 - errProb) // errors dilute confidence in either call
				}
				q.Table[qual][ref][read] = int32(math.Round(raw))
			}
		}
	}
	q.ScaledGapOpen = clampScaled(float64(gapOpen)*q.scaleFactor, maxScaledScore*4)
	q.ScaledGapExtend = clampScaled(float64(gapExtend)*q.scaleFactor, maxScaledScore*4)
	return q
}

func errorProb(quality int) float64 {
	p := math.Pow(10, -float64(quality)/10)
	if p > 0.75 {
		p = 0.75
	}
	return p
}

func clampScaled(v float64, bound int32) int32 {
	r := int32(math.Round(v))
	if r > bound {
		return bound
	}
	if r < -bound {
		return -bound
	}
	return r
}

// SubstScoreQual returns the quality-adjusted substitution score for
// aligning ref against read at the given base quality.
func (q *QualAdjModel) SubstScoreQual(ref, read byte, quality int) int32 {
	if quality < 0 {
		quality = 0
	}
	if quality > q.MaxQuality {
		quality = q.MaxQuality
	}
	return q.Table[quality][baseIndex(ref)][baseIndex(read)]
}

// ScaleFactor reports the factor by which the plain-model gap costs were
// multiplied to give ScaledGapOpen/ScaledGapExtend (the score table
// itself is not scaled); log-base recovery divides by the corresponding
// gap-open ratio.
func (q *QualAdjModel) ScaleFactor() float64 { return q.scaleFactor }

// ScoreExactMatch scores a read against itself end-to-end at the given
// per-base qualities, the quality-adjusted form of score_exact_match.
func (q *QualAdjModel) ScoreExactMatch(sequence, quality []byte) int32 {
	var total int32
	for i, b := range sequence {
		qv := q.MaxQuality
		if i < len(quality) {
			qv = int(quality[i])
		}
		total += q.SubstScoreQual(b, b, qv)
	}
	return total
}
