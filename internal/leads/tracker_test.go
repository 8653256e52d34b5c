package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/comparenet/internal/testutil"
)

func TestTracker_Cycle(t *testing.T) {
	clock := testutil.NewClock()
	tr := NewTracker(clock.Now, 2*time.Second)
	assert.Equal(t, PhaseIdle, tr.Phase())
	assert.True(t, tr.DismissAt().IsZero())

	require.NoError(t, tr.Begin())
	assert.Equal(t, PhaseSubmitting, tr.Phase())
	assert.ErrorIs(t, tr.Begin(), ErrBusy)

	clock.Advance(time.Second)
	tr.Complete()
	assert.Equal(t, PhaseSuccess, tr.Phase())
	assert.Equal(t, clock.Now().Add(2*time.Second), tr.DismissAt())

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, PhaseSuccess, tr.Phase())

	clock.Advance(time.Millisecond)
	assert.Equal(t, PhaseIdle, tr.Phase())

	require.NoError(t, tr.Begin(), "idle again after dismissal")
	assert.Equal(t, PhaseSubmitting, tr.Phase())
}

func TestTracker_Abort(t *testing.T) {
	clock := testutil.NewClock()
	tr := NewTracker(clock.Now, time.Second)
	require.NoError(t, tr.Begin())
	tr.Abort()
	assert.Equal(t, PhaseIdle, tr.Phase())

	tr.Complete()
	assert.Equal(t, PhaseIdle, tr.Phase(), "complete without begin is ignored")
}
