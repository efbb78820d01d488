// Package session accumulates request costs over one process run. Nothing
// is persisted; a new run starts from zero.
package session

import "github.com/pwellner/go-ai-researcher/internal/core/cost"

// Summary is a point-in-time view of the session totals.
type Summary struct {
	TotalCost    float64
	RequestCount int
	AverageCost  float64
}

// Tracker accumulates cost and request count. It is driven by a single
// sequential request loop and needs no locking.
type Tracker struct {
	totalCost float64
	requests  int
}

// NewTracker creates an empty session tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record folds one cost result into the running totals.
func (t *Tracker) Record(r cost.Result) {
	t.totalCost += r.Cost
	t.requests++
}

// Summary returns the current totals. The average is zero for an empty
// session.
func (t *Tracker) Summary() Summary {
	s := Summary{
		TotalCost:    t.totalCost,
		RequestCount: t.requests,
	}
	if t.requests > 0 {
		s.AverageCost = t.totalCost / float64(t.requests)
	}
	return s
}
