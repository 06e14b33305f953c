package scoring

import "math"

// RecoverLogBase finds the non-trivial root λ>0 of the Karlin-Altschul
// normalization equation
//
//	Σ_a Σ_b p(a) p(b) exp(λ · s(a,b)) = 1
//
// for a 4-letter DNA alphabet with background frequencies implied by
// gcContent, given a plain match/mismatch scoring scheme. This mirrors
// gssw_dna_recover_log_base: the trivial root is λ=0, so bisection is
// seeded away from it and walks outward until the function changes
// sign, then bisects to tolerance.
func RecoverLogBase(match, mismatch int32, gcContent, tolerance float64) float64 {
	pGC := gcContent / 2
	pAT := (1 - gcContent) / 2
	freq := [numBases]float64{pAT, pGC, pGC, pAT, 0} // A,C,G,T,N

	f := func(lambda float64) float64 {
		sum := 0.0
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				s := float64(mismatch)
				if a == b {
					s = float64(match)
				}
				sum += freq[a] * freq[b] * math.Exp(lambda*s)
			}
		}
		return sum - 1
	}

	lo, hi := 1e-6, 1.0
	for f(hi) < 0 && hi < 100 {
		hi *= 2
	}
	if f(lo) > 0 {
		log.Warning("vg/scoring: log-base root not bracketed, returning seed")
		return lo
	}
	for hi-lo > tolerance {
		mid := (lo + hi) / 2
		if f(mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}

// RecoverLogBaseQualAdj rescales the plain-model log-base by the ratio
// between scaled and unscaled gap-open costs, matching
// QualAdjAligner::init_mapping_quality.
func (q *QualAdjModel) RecoverLogBaseQualAdj(gcContent, tolerance float64) float64 {
	base := RecoverLogBase(q.Match, q.Mismatch, gcContent, tolerance)
	if q.GapOpen == 0 {
		return base
	}
	ratio := float64(q.ScaledGapOpen) / float64(q.GapOpen)
	if ratio == 0 {
		return base
	}
	return base / ratio
}
