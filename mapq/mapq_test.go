package mapq_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shilpagarg/vg/mapq"
)

func TestComputeMappingQualityUninitializedPanics(t *testing.T) {
	e := mapq.NewEstimator(0)
	assert.False(t, e.Initialized())
	assert.Panics(t, func() {
		e.ComputeMappingQuality([]int32{10}, mapq.Options{MaxMappingQuality: 60})
	})
}

func TestComputeMappingQualityEmptyIsEmptyResult(t *testing.T) {
	e := mapq.NewEstimator(0.1)
	_, _, ok := e.ComputeMappingQuality(nil, mapq.Options{MaxMappingQuality: 60})
	assert.False(t, ok)
}

// Mapping-quality collapse: scores [50, 10, 10, 10], log_base = 0.1.
func TestComputeMappingQualityCollapse(t *testing.T) {
	e := mapq.NewEstimator(0.1)
	scores := []int32{50, 10, 10, 10}

	idx, exactMQ, ok := e.ComputeMappingQuality(scores, mapq.Options{MaxMappingQuality: 255})
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	numer := 3 * math.Exp(1)
	denom := numer + math.Exp(5)
	want := -10 * math.Log10(numer/denom)
	assert.InDelta(t, want, float64(exactMQ), 1.0)

	_, approxMQ, ok := e.ComputeMappingQuality(scores, mapq.Options{MaxMappingQuality: 255, FastApproximation: true})
	require.True(t, ok)
	wantApprox := (10 / math.Ln10) * (5 - 1 - math.Log(3))
	assert.InDelta(t, wantApprox, float64(approxMQ), 1.0)
}

func TestComputeMappingQualityCapsAtMax(t *testing.T) {
	e := mapq.NewEstimator(1.0)
	_, mq, ok := e.ComputeMappingQuality([]int32{1000}, mapq.Options{MaxMappingQuality: 10})
	require.True(t, ok)
	assert.LessOrEqual(t, mq, 10)
}

func TestComputePairedMappingQualitySumsScores(t *testing.T) {
	e := mapq.NewEstimator(0.1)
	left := []int32{50, 10}
	right := []int32{50, 10}
	idx, mq, ok := e.ComputePairedMappingQuality(left, right, mapq.Options{MaxMappingQuality: 255})
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Greater(t, mq, 0)
}

func TestComputePairedMappingQualityUsesShorterLength(t *testing.T) {
	e := mapq.NewEstimator(0.1)
	_, _, ok := e.ComputePairedMappingQuality([]int32{50}, nil, mapq.Options{MaxMappingQuality: 255})
	assert.False(t, ok)
}

func TestComputeMappingQualityUsesClusterMQ(t *testing.T) {
	e := mapq.NewEstimator(0.1)
	_, withoutCluster, _ := e.ComputeMappingQuality([]int32{50, 10}, mapq.Options{MaxMappingQuality: 255})
	_, withCluster, _ := e.ComputeMappingQuality([]int32{50, 10}, mapq.Options{
		MaxMappingQuality: 255,
		UseClusterMQ:      true,
		ClusterMQ:         20,
	})
	assert.NotEqual(t, withoutCluster, withCluster)
}
