package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/comparenet/internal/metrics"
)

// Metric outcomes.
const (
	outcomeSuccess   = "success"
	outcomeInvalid   = "invalid"
	outcomeCancelled = "cancelled"
)

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID         string    `json:"id"`
	Form       Kind      `json:"form"`
	Status     string    `json:"status"`
	Phase      Phase     `json:"phase"`
	ReceivedAt time.Time `json:"received_at"`
	DismissAt  time.Time `json:"dismiss_at"`
}

// Options tunes a Service. Zero durations disable the delay and dismiss
// window respectively.
type Options struct {
	SubmitDelay  time.Duration
	DismissAfter time.Duration
}

// Service accepts lead forms.
type Service struct {
	opts    Options
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a lead service.
func NewService(opts Options, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{opts: opts, now: time.Now, metrics: m, logger: logger}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Submit validates f, waits out the simulated send latency and returns a
// receipt. Newsletter signups skip the latency. A cancelled ctx abandons the
// submission and returns ctx.Err().
func (s *Service) Submit(ctx context.Context, f Form) (Receipt, error) {
	kind := f.Kind()
	f.Normalize()
	if err := f.Validate(); err != nil {
		s.metrics.LeadSubmission(string(kind), outcomeInvalid)
		return Receipt{}, err
	}

	tracker := NewTracker(s.now, s.opts.DismissAfter)
	if err := tracker.Begin(); err != nil {
		return Receipt{}, err
	}
	received := s.now()

	if kind != KindNewsletter {
		if err := s.wait(ctx); err != nil {
			tracker.Abort()
			s.metrics.LeadSubmission(string(kind), outcomeCancelled)
			return Receipt{}, fmt.Errorf("submit %s: %w", kind, err)
		}
	}
	tracker.Complete()

	r := Receipt{
		ID:         uuid.NewString(),
		Form:       kind,
		Status:     statusFor(kind),
		Phase:      tracker.Phase(),
		ReceivedAt: received,
		DismissAt:  tracker.DismissAt(),
	}
	s.metrics.LeadSubmission(string(kind), outcomeSuccess)
	s.logger.Info("lead submitted",
		append([]zap.Field{zap.String("id", r.ID), zap.String("form", string(kind))}, f.logFields()...)...)
	return r, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.opts.SubmitDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.opts.SubmitDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func statusFor(k Kind) string {
	if k == KindNewsletter {
		return "subscribed"
	}
	return "success"
}

// IsValidation reports whether err is a form validation failure and returns
// its fields.
func IsValidation(err error) (map[string]string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
