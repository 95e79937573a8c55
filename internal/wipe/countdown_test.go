package wipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func waitTriggered(t *testing.T, s *Scheduler) {
	t.Helper()
	select {
	case <-s.Triggered():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not trigger in time")
	}
}

func TestCountdownExpires(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))
	s.interval = 10 * time.Millisecond

	ticks, err := s.Start(3)
	require.NoError(t, err)

	var remaining []int
	for tick := range ticks {
		remaining = append(remaining, tick.Remaining)
	}
	waitTriggered(t, s)

	assert.Equal(t, []int{2, 1}, remaining)
	assert.Equal(t, CountdownTriggered, s.State())
	assert.Zero(t, s.Remaining())
}

func TestCountdownZeroSecondsTriggersImmediately(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))
	s.interval = 10 * time.Millisecond

	ticks, err := s.Start(0)
	require.NoError(t, err)

	waitTriggered(t, s)
	_, open := <-ticks
	assert.False(t, open)
}

func TestCountdownCancel(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))
	s.interval = 10 * time.Millisecond

	ticks, err := s.Start(100)
	require.NoError(t, err)

	require.NoError(t, s.Cancel())
	assert.Equal(t, CountdownInactive, s.State())

	// The tick stream ends and the trigger never fires.
	for range ticks {
	}
	select {
	case <-s.Triggered():
		t.Fatal("cancelled countdown must not trigger")
	case <-time.After(100 * time.Millisecond):
	}

	// Cancel is valid only while ARMED.
	assert.ErrorIs(t, s.Cancel(), ErrNotArmed)

	// INACTIVE may be re-armed.
	_, err = s.Start(1)
	require.NoError(t, err)
	waitTriggered(t, s)
}

func TestCountdownEscalate(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))
	s.interval = 20 * time.Millisecond

	ticks, err := s.Start(10)
	require.NoError(t, err)

	// Let roughly three seconds' worth of ticks elapse, then escalate.
	seen := 0
	for tick := range ticks {
		seen++
		if seen == 3 {
			require.NoError(t, s.Escalate())
		}
		_ = tick
	}

	waitTriggered(t, s)
	assert.Equal(t, CountdownTriggered, s.State())
	assert.GreaterOrEqual(t, seen, 3)
	assert.Less(t, seen, 10, "escalation must skip the remaining ticks")

	// TRIGGERED is terminal: no cancel path, no re-arm, no double escalate.
	assert.ErrorIs(t, s.Cancel(), ErrNotArmed)
	assert.ErrorIs(t, s.Escalate(), ErrNotArmed)
	_, err = s.Start(1)
	assert.ErrorIs(t, err, ErrAlreadyArmed)
}

func TestCountdownDoubleStart(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))
	s.interval = 10 * time.Millisecond

	_, err := s.Start(50)
	require.NoError(t, err)

	_, err = s.Start(50)
	assert.ErrorIs(t, err, ErrAlreadyArmed)

	require.NoError(t, s.Cancel())
}

func TestCountdownCancelAfterEscalateLoses(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))
	s.interval = time.Hour // only escalation can end this one

	_, err := s.Start(100)
	require.NoError(t, err)

	require.NoError(t, s.Escalate())
	assert.ErrorIs(t, s.Cancel(), ErrNotArmed)

	waitTriggered(t, s)
}
