// Package mapq computes mapping quality from a set of candidate
// alignment scores, following the exact and fast-approximate estimators
// of the reference aligner's Karlin-Altschul-scaled scoring.
package mapq

import (
	"fmt"
	"math"

	"github.com/gonum/floats"

	"github.com/shilpagarg/vg/internal/logging"
)

var log = logging.New("vg/mapq")

const qualityScaleFactor = 10.0 / math.Ln10

var expOverflowLimit = math.Log(math.MaxFloat64)

// Estimator holds the log-base recovered from a scoring model's GC
// content. The ceiling a reported mapping quality is capped at is given
// per call, in Options.MaxMappingQuality.
type Estimator struct {
	logBase float64
}

// NewEstimator wraps a log-base already recovered via
// scoring.RecoverLogBase or (*scoring.QualAdjModel).RecoverLogBaseQualAdj.
// Calling any Compute* method before this has run with a positive
// logBase is fatal, matching init_mapping_quality/is_mapping_quality_initialized.
func NewEstimator(logBase float64) *Estimator {
	return &Estimator{logBase: logBase}
}

// Initialized reports whether the log-base is usable.
func (e *Estimator) Initialized() bool { return e.logBase > 0.0 }

func (e *Estimator) requireInitialized() {
	if !e.Initialized() {
		panic(fmt.Errorf("vg/mapq: must call NewEstimator with a positive log-base before computing mapping qualities"))
	}
}

// addLog computes log(exp(logX)+exp(logY)) without overflowing.
func addLog(logX, logY float64) float64 {
	if logX > logY {
		return logX + math.Log(1.0+math.Exp(logY-logX))
	}
	return logY + math.Log(1.0+math.Exp(logX-logY))
}

// maxExact returns the mapping quality of the highest-scoring entry in
// scaledScores using the overflow-safe branch selection: direct
// exponential summation when it can't overflow, logsumexp otherwise.
func maxExact(scaledScores []float64) (mq float64, maxIdx int) {
	scores := scaledScores
	if len(scores) == 1 {
		// A lone alignment is compared against an implicit null
		// alignment of score 0, since scoring is local.
		scores = append(append([]float64{}, scores...), 0.0)
	}

	maxIdx = 0
	maxScore := scores[0]
	for i := 1; i < len(scores); i++ {
		if scores[i] > maxScore {
			maxScore = scores[i]
			maxIdx = i
		}
	}

	if maxScore*float64(len(scores)) < expOverflowLimit {
		rest := make([]float64, 0, len(scores)-1)
		for i, s := range scores {
			if i == maxIdx {
				continue
			}
			rest = append(rest, math.Exp(s))
		}
		numer := floats.Sum(rest)
		return -10.0 * math.Log10(numer/(numer+math.Exp(maxScore))), maxIdx
	}

	logSumExp := scores[0]
	for i := 1; i < len(scores); i++ {
		logSumExp = addLog(logSumExp, scores[i])
	}
	return -10.0 * math.Log10(1.0-math.Exp(maxScore-logSumExp)), maxIdx
}

// maxApprox is the single-pass fast approximation: the gap between the
// best score and the best runner-up, corrected for ties among
// runners-up.
func maxApprox(scaledScores []float64) (mq float64, maxIdx int) {
	scores := scaledScores
	if len(scores) == 1 {
		scores = append(append([]float64{}, scores...), 0.0)
	}

	maxIdx = 0
	maxScore := scores[0]
	nextScore := math.Inf(-1)
	nextCount := 0

	for i := 1; i < len(scores); i++ {
		s := scores[i]
		switch {
		case s > maxScore:
			if nextScore == maxScore {
				nextCount++
			} else {
				nextScore = maxScore
				nextCount = 1
			}
			maxScore = s
			maxIdx = i
		case s > nextScore:
			nextScore = s
			nextCount = 1
		case s == nextScore:
			nextCount++
		}
	}

	tieCorrection := 0.0
	if nextCount > 1 {
		tieCorrection = math.Log(float64(nextCount))
	}
	mq = qualityScaleFactor * (maxScore - nextScore - tieCorrection)
	if mq < 0 {
		mq = 0
	}
	return mq, maxIdx
}

// phredToProb and probToPhred convert between a phred-scaled quality
// and the probability it encodes, used to fold in a caller-supplied
// cluster mapping quality.
func phredToProb(phred float64) float64 { return math.Pow(10, -phred/10) }
func probToPhred(prob float64) float64  { return -10 * math.Log10(prob) }

// Options controls how ComputeMappingQuality scales and caps its result.
type Options struct {
	MaxMappingQuality int
	FastApproximation bool
	ClusterMQ         float64
	UseClusterMQ      bool
}

// ComputeMappingQuality returns the (index, mapping quality) of the
// best-scoring alignment among scores, or (0, 0, false) if scores is
// empty (the "expected empty result" case: nothing to score).
func (e *Estimator) ComputeMappingQuality(scores []int32, opts Options) (bestIdx int, mq int, ok bool) {
	e.requireInitialized()
	if len(scores) == 0 {
		return 0, 0, false
	}

	scaled := make([]float64, len(scores))
	for i, s := range scores {
		scaled[i] = e.logBase * float64(s)
	}

	var raw float64
	if opts.FastApproximation {
		raw, bestIdx = maxApprox(scaled)
	} else {
		raw, bestIdx = maxExact(scaled)
	}

	if raw > float64(opts.MaxMappingQuality) {
		raw = float64(opts.MaxMappingQuality)
	}
	if opts.UseClusterMQ {
		raw = probToPhred(math.Sqrt(phredToProb(opts.ClusterMQ + raw)))
	}
	return bestIdx, int(math.Round(raw)), true
}

// ComputePairedMappingQuality is the paired-end variant: scores at
// matching indices in left and right are summed before scaling, so the
// reported mapping quality reflects the joint likelihood of the pair.
func (e *Estimator) ComputePairedMappingQuality(left, right []int32, opts Options) (bestIdx int, mq int, ok bool) {
	e.requireInitialized()
	size := len(left)
	if len(right) < size {
		size = len(right)
	}
	if size == 0 {
		return 0, 0, false
	}

	scaled := make([]float64, size)
	for i := 0; i < size; i++ {
		scaled[i] = e.logBase * float64(left[i]+right[i])
	}

	var raw float64
	if opts.FastApproximation {
		raw, bestIdx = maxApprox(scaled)
	} else {
		raw, bestIdx = maxExact(scaled)
	}

	if raw > float64(opts.MaxMappingQuality) {
		raw = float64(opts.MaxMappingQuality)
	}
	if opts.UseClusterMQ {
		raw = probToPhred(math.Sqrt(phredToProb(opts.ClusterMQ + raw)))
	}
	mq = int(math.Round(raw))
	log.Debugf("paired mapping quality %d over %d pairs", mq, size)
	return bestIdx, mq, true
}
