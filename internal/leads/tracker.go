package leads

import (
	"errors"
	"sync"
	"time"
)

// Phase is where a form is in its submit cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
)

// ErrBusy is returned by Begin while a submission is in flight.
var ErrBusy = errors.New("submission already in progress")

// Tracker follows one form through idle -> submitting -> success -> idle.
// The success phase lasts dismissAfter and then lapses back to idle on its
// own; Phase is computed from the clock rather than driven by a timer.
type Tracker struct {
	mu           sync.Mutex
	now          func() time.Time
	dismissAfter time.Duration
	started      time.Time
	completed    time.Time
}

// NewTracker returns an idle tracker. A nil now uses time.Now.
func NewTracker(now func() time.Time, dismissAfter time.Duration) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now, dismissAfter: dismissAfter}
}

// Begin moves to submitting.
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phaseLocked() == PhaseSubmitting {
		return ErrBusy
	}
	t.started = t.now()
	t.completed = time.Time{}
	return nil
}

// Complete moves a submitting tracker to success.
func (t *Tracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phaseLocked() == PhaseSubmitting {
		t.completed = t.now()
	}
}

// Abort returns to idle without passing through success.
func (t *Tracker) Abort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = time.Time{}
	t.completed = time.Time{}
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phaseLocked()
}

// DismissAt is when the success phase ends. It is zero unless the tracker
// has completed.
func (t *Tracker) DismissAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed.IsZero() {
		return time.Time{}
	}
	return t.completed.Add(t.dismissAfter)
}

func (t *Tracker) phaseLocked() Phase {
	switch {
	case t.started.IsZero():
		return PhaseIdle
	case t.completed.IsZero():
		return PhaseSubmitting
	case t.now().Before(t.completed.Add(t.dismissAfter)):
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}
