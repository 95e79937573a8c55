package wipe

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session holds the state of one destruction run. It is created when the
// caller confirms destruction intent and discarded after reaching a terminal
// state; sessions are never reused or pooled.
//
// The engine worker is the only writer. Observers read counters through
// atomics and may do so concurrently without slowing the worker down.
type Session struct {
	ID        string
	CreatedAt time.Time

	state          atomic.Int32
	filesDestroyed atomic.Int64
	totalFiles     atomic.Int64
	bytesWiped     atomic.Int64
	emergency      atomic.Bool

	mu        sync.Mutex
	targets   []Target
	failures  []Failure
	countdown int
	dryRun    bool
	startedAt time.Time
	endedAt   time.Time
}

func NewSession() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	s.state.Store(int32(StateIdle))
	return s
}

// State returns the current session state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// transition moves from -> to atomically and reports whether it happened.
// There is no edge out of DESTROYING except to COMPLETE or FAILED, and
// terminal states have no outgoing edges at all; illegal transitions are
// simply refused.
func (s *Session) transition(from, to SessionState) bool {
	switch from {
	case StateDestroying:
		if to != StateComplete && to != StateFailed {
			return false
		}
	case StateComplete, StateFailed:
		return false
	}
	return s.state.CompareAndSwap(int32(from), int32(to))
}

// FilesDestroyed returns the count of successfully destroyed files so far.
// Monotonically non-decreasing for the life of the session.
func (s *Session) FilesDestroyed() int {
	return int(s.filesDestroyed.Load())
}

// TotalFiles returns the resolved file count. Fixed once resolution completes.
func (s *Session) TotalFiles() int {
	return int(s.totalFiles.Load())
}

// BytesWiped returns the total original bytes of destroyed files.
func (s *Session) BytesWiped() int64 {
	return s.bytesWiped.Load()
}

// Emergency reports whether the countdown was escalated.
func (s *Session) Emergency() bool {
	return s.emergency.Load()
}

// Targets returns a copy of the resolved destruction plan.
func (s *Session) Targets() []Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Target, len(s.targets))
	copy(out, s.targets)
	return out
}

// Failures returns a copy of the accumulated failure list.
func (s *Session) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Failure, len(s.failures))
	copy(out, s.failures)
	return out
}

func (s *Session) setPlan(targets []Target, total int, countdown int, dryRun bool) {
	s.mu.Lock()
	s.targets = targets
	s.countdown = countdown
	s.dryRun = dryRun
	s.mu.Unlock()
	s.totalFiles.Store(int64(total))
}

func (s *Session) recordFailure(target string, err error) {
	s.mu.Lock()
	s.failures = append(s.failures, Failure{Target: target, Reason: err.Error()})
	s.mu.Unlock()
}

func (s *Session) markStarted() {
	s.mu.Lock()
	s.startedAt = time.Now()
	s.mu.Unlock()
}

func (s *Session) markEnded() {
	s.mu.Lock()
	s.endedAt = time.Now()
	s.mu.Unlock()
}

// Result builds the terminal result record. Meaningful once the session has
// reached COMPLETE or FAILED.
func (s *Session) Result() *Result {
	s.mu.Lock()
	failures := make([]Failure, len(s.failures))
	copy(failures, s.failures)
	dryRun := s.dryRun
	var duration time.Duration
	if !s.startedAt.IsZero() && !s.endedAt.IsZero() {
		duration = s.endedAt.Sub(s.startedAt)
	}
	s.mu.Unlock()

	state := s.State()
	return &Result{
		Success:        state == StateComplete && len(failures) == 0,
		FilesDestroyed: s.FilesDestroyed(),
		TotalFiles:     s.TotalFiles(),
		Failures:       failures,
		Duration:       duration,
		DryRun:         dryRun,
	}
}
