package wipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStateMachine(t *testing.T) {
	s := NewSession()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, StateIdle, s.State())

	assert.True(t, s.transition(StateIdle, StateCountdown))
	assert.True(t, s.transition(StateCountdown, StateDestroying))

	// No edge leaves DESTROYING except to a terminal state.
	assert.False(t, s.transition(StateDestroying, StateIdle))
	assert.False(t, s.transition(StateDestroying, StateCountdown))
	assert.Equal(t, StateDestroying, s.State())

	assert.True(t, s.transition(StateDestroying, StateComplete))

	// Terminal states have no outgoing edges; sessions are never reused.
	assert.False(t, s.transition(StateComplete, StateIdle))
	assert.False(t, s.transition(StateComplete, StateDestroying))
	assert.Equal(t, StateComplete, s.State())
}

func TestSessionCountdownCancelEdge(t *testing.T) {
	s := NewSession()
	require.True(t, s.transition(StateIdle, StateCountdown))
	require.True(t, s.transition(StateCountdown, StateIdle))
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionResult(t *testing.T) {
	s := NewSession()
	s.setPlan([]Target{{Path: "/x", Kind: TargetDirectory}}, 5, 10, false)
	assert.Equal(t, 5, s.TotalFiles())

	s.transition(StateIdle, StateCountdown)
	s.transition(StateCountdown, StateDestroying)
	s.markStarted()

	s.filesDestroyed.Add(4)
	s.recordFailure("/x/locked", errors.New("permission denied"))

	s.markEnded()
	s.transition(StateDestroying, StateComplete)

	res := s.Result()
	assert.False(t, res.Success, "completed with failures must not be reported as success")
	assert.Equal(t, 4, res.FilesDestroyed)
	assert.Equal(t, 5, res.TotalFiles)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "/x/locked", res.Failures[0].Target)
}

func TestSessionFailuresAreCopied(t *testing.T) {
	s := NewSession()
	s.recordFailure("/a", errors.New("boom"))

	got := s.Failures()
	got[0].Target = "mutated"

	assert.Equal(t, "/a", s.Failures()[0].Target)
}
