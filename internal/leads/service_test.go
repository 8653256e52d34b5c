package leads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HerbHall/comparenet/internal/metrics"
	ctestutil "github.com/HerbHall/comparenet/internal/testutil"
)

func TestService_Submit(t *testing.T) {
	clock := ctestutil.NewClock()
	m := metrics.New()
	svc := NewService(Options{DismissAfter: 2 * time.Second}, m, ctestutil.Logger(t)).WithClock(clock.Now)

	r, err := svc.Submit(context.Background(), &CallbackForm{
		Name: "Sam", Email: "sam@example.com", Phone: "021 555 0100", Postcode: "6011",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, KindCallback, r.Form)
	assert.Equal(t, "success", r.Status)
	assert.Equal(t, PhaseSuccess, r.Phase)
	assert.Equal(t, clock.Now(), r.ReceivedAt)
	assert.Equal(t, clock.Now().Add(2*time.Second), r.DismissAt)

	r, err = svc.Submit(context.Background(), &NewsletterForm{Email: "sam@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "subscribed", r.Status)

	_, err = svc.Submit(context.Background(), &ReviewForm{})
	_, ok := IsValidation(err)
	assert.True(t, ok)

	n, err := testutil.GatherAndCount(m.Registry(), "comparenet_lead_submissions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "one series per form/outcome pair")
}

func TestService_SubmitLogsNoContactDetails(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(Options{}, nil, zap.New(core))

	_, err := svc.Submit(context.Background(), &NewsletterForm{Email: "Sam.Jones@Example.com"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), &CallbackForm{
		Name: "Sam Jones", Email: "sam@example.com", Phone: "021 555 0100", Postcode: "6011",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("lead submitted").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "example.com", entries[0].ContextMap()["email_domain"])
	for _, e := range entries {
		for k, v := range e.ContextMap() {
			s, _ := v.(string)
			assert.NotContains(t, s, "@", k)
			assert.NotContains(t, s, "Sam", k)
			assert.NotContains(t, s, "555", k)
		}
	}
}

func TestService_SubmitDelay(t *testing.T) {
	svc := NewService(Options{SubmitDelay: 20 * time.Millisecond}, nil, nil)

	start := time.Now()
	_, err := svc.Submit(context.Background(), &ReviewForm{Title: "t", Author: "a", Content: "c"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	start = time.Now()
	_, err = svc.Submit(context.Background(), &NewsletterForm{Email: "a@b.co"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 20*time.Millisecond, "newsletter skips latency")
}

func TestService_SubmitCancelled(t *testing.T) {
	svc := NewService(Options{SubmitDelay: time.Hour}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Submit(ctx, &ReviewForm{Title: "t", Author: "a", Content: "c"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
