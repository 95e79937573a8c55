package wipe

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CountdownState is the scheduler lifecycle: INACTIVE -> ARMED -> TRIGGERED.
// TRIGGERED is terminal; a cancelled countdown returns to INACTIVE and may be
// re-armed.
type CountdownState int32

const (
	CountdownInactive CountdownState = iota
	CountdownArmed
	CountdownTriggered
)

func (s CountdownState) String() string {
	switch s {
	case CountdownInactive:
		return "INACTIVE"
	case CountdownArmed:
		return "ARMED"
	case CountdownTriggered:
		return "TRIGGERED"
	default:
		return "UNKNOWN"
	}
}

// Tick reports one elapsed countdown second.
type Tick struct {
	Remaining int
}

// Scheduler drives the cancellable pre-destruction countdown. It ticks on its
// own timer, independent of the engine worker. Cancel and Escalate are valid
// only while ARMED; once TRIGGERED there is no way back.
type Scheduler struct {
	logger *zap.Logger

	mu         sync.Mutex
	state      CountdownState
	remaining  int
	escalating bool

	// Per-arming channels, replaced on each Start. ticks is sent to and
	// closed by the run goroutine only.
	ticks     chan Tick
	cancelled chan struct{}
	escalated chan struct{}

	// triggered is one-shot: TRIGGERED is terminal.
	triggered chan struct{}

	// interval is one countdown step. Tests shrink it; production uses a
	// second per tick.
	interval time.Duration
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger:    logger.Named("countdown"),
		state:     CountdownInactive,
		triggered: make(chan struct{}),
		interval:  time.Second,
	}
}

// Start moves INACTIVE -> ARMED and begins ticking once per interval. With
// seconds == 0 the scheduler arms and triggers immediately.
func (s *Scheduler) Start(seconds int) (<-chan Tick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != CountdownInactive {
		return nil, ErrAlreadyArmed
	}

	s.state = CountdownArmed
	s.remaining = seconds
	s.escalating = false
	s.ticks = make(chan Tick, seconds+1)
	s.cancelled = make(chan struct{})
	s.escalated = make(chan struct{})

	s.logger.Info("Countdown armed", zap.Int("seconds", seconds))

	go s.run(s.ticks, s.cancelled, s.escalated)

	return s.ticks, nil
}

func (s *Scheduler) run(ticks chan Tick, cancelled, escalated chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.mu.Lock()
	if s.remaining <= 0 {
		s.trigger(ticks)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	for {
		select {
		case <-cancelled:
			close(ticks)
			return
		case <-escalated:
			s.mu.Lock()
			s.trigger(ticks)
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != CountdownArmed {
				// Cancelled between ticks; the select may pick the timer
				// first, so the stream still has to be closed here.
				close(ticks)
				s.mu.Unlock()
				return
			}
			s.remaining--
			remaining := s.remaining
			if remaining <= 0 {
				s.trigger(ticks)
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()

			select {
			case ticks <- Tick{Remaining: remaining}:
			default:
				// Observer is not draining; ticks are advisory.
			}
		}
	}
}

// trigger transitions to TRIGGERED. Called from the run goroutine only,
// with s.mu held.
func (s *Scheduler) trigger(ticks chan Tick) {
	s.state = CountdownTriggered
	s.remaining = 0
	close(ticks)
	close(s.triggered)
	s.logger.Info("Countdown triggered")
}

// Cancel returns the scheduler to INACTIVE. Valid only while ARMED; a cancel
// after TRIGGERED is refused, destruction can no longer be stopped. An
// escalation in flight also wins over a concurrent cancel.
func (s *Scheduler) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != CountdownArmed || s.escalating {
		return ErrNotArmed
	}

	s.state = CountdownInactive
	close(s.cancelled)

	s.logger.Info("Countdown cancelled")
	return nil
}

// Escalate forces an immediate transition to TRIGGERED, skipping any
// remaining seconds. Valid only while ARMED.
func (s *Scheduler) Escalate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != CountdownArmed || s.escalating {
		return ErrNotArmed
	}

	s.escalating = true
	close(s.escalated)

	s.logger.Warn("Countdown escalated, destroying now")
	return nil
}

// Triggered is closed when the countdown expires or is escalated.
func (s *Scheduler) Triggered() <-chan struct{} {
	return s.triggered
}

// Cancelled is closed when the countdown is cancelled while ARMED.
func (s *Scheduler) Cancelled() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// State returns the current scheduler state.
func (s *Scheduler) State() CountdownState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the seconds left while ARMED.
func (s *Scheduler) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}
