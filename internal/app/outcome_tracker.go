package app

import (
	"sync"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
)

// OutcomeTracker partitions terminated jobs into successful and failed.
// Each partition has its own lock so successes never wait behind failures.
type OutcomeTracker struct {
	successMu  sync.Mutex
	successful []domain.Outcome

	failedMu sync.Mutex
	failed   []domain.Outcome
}

// NewOutcomeTracker creates an empty tracker
func NewOutcomeTracker() *OutcomeTracker {
	return &OutcomeTracker{}
}

// RecordSuccess appends to the successful partition
func (t *OutcomeTracker) RecordSuccess(outcome domain.Outcome) {
	t.successMu.Lock()
	t.successful = append(t.successful, outcome)
	t.successMu.Unlock()
}

// RecordFailure appends to the failed partition
func (t *OutcomeTracker) RecordFailure(outcome domain.Outcome) {
	t.failedMu.Lock()
	t.failed = append(t.failed, outcome)
	t.failedMu.Unlock()
}

// Record files the outcome into the partition matching its error
func (t *OutcomeTracker) Record(outcome domain.Outcome) {
	if outcome.Succeeded() {
		t.RecordSuccess(outcome)
		return
	}
	t.RecordFailure(outcome)
}

// Snapshot returns the number of completed appends per partition
func (t *OutcomeTracker) Snapshot() (successful, failed int) {
	t.successMu.Lock()
	successful = len(t.successful)
	t.successMu.Unlock()

	t.failedMu.Lock()
	failed = len(t.failed)
	t.failedMu.Unlock()

	return successful, failed
}

// Successful returns a copy of the successful partition
func (t *OutcomeTracker) Successful() []domain.Outcome {
	t.successMu.Lock()
	defer t.successMu.Unlock()
	return append([]domain.Outcome(nil), t.successful...)
}

// Failed returns a copy of the failed partition
func (t *OutcomeTracker) Failed() []domain.Outcome {
	t.failedMu.Lock()
	defer t.failedMu.Unlock()
	return append([]domain.Outcome(nil), t.failed...)
}
