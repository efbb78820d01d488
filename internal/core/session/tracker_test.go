package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pwellner/go-ai-researcher/internal/core/cost"
)

func TestSummaryEmptySession(t *testing.T) {
	tracker := NewTracker()

	got := tracker.Summary()

	assert.Equal(t, Summary{TotalCost: 0, RequestCount: 0, AverageCost: 0}, got)
}

func TestRecordAccumulates(t *testing.T) {
	tracker := NewTracker()

	costs := []float64{0.00025, 0.0013, 0.042}
	var want float64
	for _, c := range costs {
		tracker.Record(cost.Result{Cost: c, Source: cost.SourceEstimated})
		want += c
	}

	got := tracker.Summary()
	assert.InDelta(t, want, got.TotalCost, 1e-12)
	assert.Equal(t, len(costs), got.RequestCount)
	assert.InDelta(t, want/float64(len(costs)), got.AverageCost, 1e-12)
}

func TestRecordSingleRequest(t *testing.T) {
	tracker := NewTracker()
	tracker.Record(cost.Result{Cost: 0.5})

	got := tracker.Summary()
	assert.Equal(t, 0.5, got.TotalCost)
	assert.Equal(t, 1, got.RequestCount)
	assert.Equal(t, 0.5, got.AverageCost)
}

func TestTotalsAreMonotonic(t *testing.T) {
	tracker := NewTracker()

	var prevCost float64
	prevCount := 0
	for i := 0; i < 10; i++ {
		tracker.Record(cost.Result{Cost: float64(i) * 0.001})
		s := tracker.Summary()
		assert.GreaterOrEqual(t, s.TotalCost, prevCost)
		assert.Greater(t, s.RequestCount, prevCount)
		prevCost = s.TotalCost
		prevCount = s.RequestCount
	}
}

func TestZeroCostRequestsStillCount(t *testing.T) {
	tracker := NewTracker()
	tracker.Record(cost.Result{Cost: 0, Source: cost.SourceEstimated})

	got := tracker.Summary()
	assert.Equal(t, 1, got.RequestCount)
	assert.Equal(t, 0.0, got.TotalCost)
	assert.Equal(t, 0.0, got.AverageCost)
}
