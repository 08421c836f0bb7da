package tasks

import (
	"context"
	"sync"
	"time"
)

// AccountOutcome is the result of one account's scheduled shred pass.
type AccountOutcome struct {
	AccountID int
	Username  string
	Deleted   int
	Skipped   int
	Errored   int
	Err       error
}

// RunReport collects per-account outcomes for one scheduled run and lets
// the orchestrator wait for the whole fan-out to finish.
type RunReport struct {
	StartedAt time.Time

	mu       sync.Mutex
	outcomes []AccountOutcome
	pending  int
	done     chan struct{}
}

func NewRunReport(accountCount int) *RunReport {
	r := &RunReport{
		StartedAt: time.Now().UTC(),
		pending:   accountCount,
		done:      make(chan struct{}),
	}
	if accountCount <= 0 {
		close(r.done)
	}
	return r
}

// Record stores one account's outcome and marks its unit of work done.
func (r *RunReport) Record(outcome AccountOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, outcome)
	r.pending--
	if r.pending == 0 {
		close(r.done)
	}
}

// Wait blocks until every account has reported or ctx is cancelled, then
// returns the outcomes collected so far. Cancellation matters on shutdown:
// queued tasks that never run also never report, and Wait must not hold the
// caller hostage for them.
func (r *RunReport) Wait(ctx context.Context) []AccountOutcome {
	select {
	case <-r.done:
	case <-ctx.Done():
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes
}

// Totals sums the collected outcomes.
func (r *RunReport) Totals() (deleted, skipped, errored, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.outcomes {
		deleted += o.Deleted
		skipped += o.Skipped
		errored += o.Errored
		if o.Err != nil {
			failed++
		}
	}
	return deleted, skipped, errored, failed
}
