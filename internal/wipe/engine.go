package wipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultProgressEvery is the progress coalescing window: one event per this
// many processed files, so a large plan cannot flood the event channel.
const DefaultProgressEvery = 10

// Options tunes an Engine. Zero values fall back to safe defaults.
type Options struct {
	BufferSize        int
	ProgressEvery     int
	HeartbeatInterval time.Duration
	DryRun            bool

	SweepEnabled bool
	SweepDir     string
	SweepPrefix  string

	Registerer prometheus.Registerer
}

// Engine orchestrates a destruction session: it resolves the plan, waits out
// the countdown, then consumes the plan on a dedicated background goroutine.
// Once that goroutine starts, nothing stops it; there is no cancellation path
// and the engine imposes no timeout on itself. Its runtime is bounded by the
// plan size, and liveness is observable through heartbeat events.
//
// The engine never terminates the hosting process; acting on COMPLETE is the
// caller's job.
type Engine struct {
	opts       Options
	resolver   *Resolver
	overwriter *Overwriter
	sweeper    *Sweeper
	metrics    *Metrics
	logger     *zap.Logger

	mu        sync.Mutex
	session   *Session
	scheduler *Scheduler
	events    chan ProgressEvent
	done      chan struct{}
	finished  bool

	// workerBusy guards the single background worker slot.
	workerBusy atomic.Bool

	// per-run counters, written by the worker, read by the heartbeat.
	processed atomic.Int64
	current   atomic.Value // string
}

func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 2 * time.Second
	}

	log := logger.Named("engine")
	e := &Engine{
		opts:       opts,
		resolver:   NewResolver(logger),
		overwriter: NewOverwriter(opts.BufferSize, logger),
		metrics:    NewMetrics(opts.Registerer),
		logger:     log,
	}
	if opts.SweepEnabled {
		dir := opts.SweepDir
		if dir == "" {
			dir = os.TempDir()
		}
		e.sweeper = NewSweeper(dir, opts.SweepPrefix, logger)
	}
	e.current.Store("")
	return e
}

// Arm confirms destruction intent: it resolves the plan, fixes totalFiles,
// and starts the cancellable countdown. Returns the new session and the
// countdown tick stream. Single-flight: while a session is counting down or
// destroying, a new request is rejected with ErrBusy, not queued.
func (e *Engine) Arm(roots []string, countdownSeconds int) (*Session, <-chan Tick, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		switch e.session.State() {
		case StateCountdown, StateDestroying:
			return nil, nil, ErrBusy
		}
	}

	session := NewSession()
	events := make(chan ProgressEvent, 64)
	done := make(chan struct{})

	e.session = session
	e.events = events
	e.done = done
	e.finished = false
	e.processed.Store(0)
	e.current.Store("")

	// Inline send: e.mu is held, so e.emit would deadlock here.
	select {
	case events <- ProgressEvent{Phase: PhaseResolving}:
	default:
	}

	targets := e.resolver.Resolve(roots)
	total := e.resolver.CountFiles(targets)
	session.setPlan(targets, total, countdownSeconds, e.opts.DryRun)

	e.logger.Info("Destruction plan resolved",
		zap.String("session", session.ID),
		zap.Int("targets", len(targets)),
		zap.Int("total_files", total),
		zap.Bool("dry_run", e.opts.DryRun))

	if !session.transition(StateIdle, StateCountdown) {
		return nil, nil, &FatalError{Err: fmt.Errorf("session %s not idle", session.ID)}
	}
	e.metrics.sessionState.Set(float64(StateCountdown))

	scheduler := NewScheduler(e.logger)
	ticks, err := scheduler.Start(countdownSeconds)
	if err != nil {
		session.transition(StateCountdown, StateFailed)
		return nil, nil, &FatalError{Err: err}
	}
	e.scheduler = scheduler

	go e.awaitTrigger(session, scheduler)

	return session, ticks, nil
}

// awaitTrigger idles until the countdown resolves, then either runs the plan
// or tears the cycle down if it was cancelled in time.
func (e *Engine) awaitTrigger(session *Session, scheduler *Scheduler) {
	select {
	case <-scheduler.Triggered():
		e.run(session)
	case <-scheduler.Cancelled():
		// Cancelled while ARMED: destruction never begins for this cycle.
		e.logger.Info("Countdown cancelled, session back to idle",
			zap.String("session", session.ID))
		e.metrics.sessionState.Set(float64(StateIdle))
		e.finish()
	}
}

// Cancel aborts the countdown if one is armed. A cancel that arrives while
// the session is DESTROYING is a documented no-op, never an error:
// destruction cannot be stopped once started.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	session := e.session
	scheduler := e.scheduler
	e.mu.Unlock()

	if session == nil || scheduler == nil {
		return ErrNotArmed
	}

	if err := scheduler.Cancel(); err != nil {
		// Countdown already fired; the run is in flight or finished.
		e.logger.Warn("Cancel ignored, destruction cannot be stopped",
			zap.String("session", session.ID),
			zap.String("state", session.State().String()))
		return nil
	}

	session.transition(StateCountdown, StateIdle)
	return nil
}

// Escalate skips any remaining countdown and begins destruction immediately.
func (e *Engine) Escalate() error {
	e.mu.Lock()
	session := e.session
	scheduler := e.scheduler
	e.mu.Unlock()

	if session == nil || scheduler == nil {
		return ErrNotArmed
	}

	if err := scheduler.Escalate(); err != nil {
		return err
	}

	session.emergency.Store(true)
	return nil
}

// Events returns the progress stream for the current cycle. Valid after Arm;
// the channel is closed when the session reaches a terminal state or the
// countdown is cancelled.
func (e *Engine) Events() <-chan ProgressEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events
}

// Done is closed when the current cycle finishes.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Session returns the current session for read-only observation.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Wait blocks until the current cycle finishes and returns its result.
func (e *Engine) Wait() *Result {
	<-e.Done()
	return e.Session().Result()
}

// run consumes the resolved plan. It is the only writer of session state for
// the rest of the session's life.
func (e *Engine) run(session *Session) {
	if !e.workerBusy.CompareAndSwap(false, true) {
		// Cannot acquire the background worker slot. Fundamentally fatal,
		// unlike per-target failures.
		err := &FatalError{Err: fmt.Errorf("background worker unavailable")}
		e.logger.Error("Destruction cannot begin", zap.Error(err))
		session.recordFailure("engine", err)
		session.transition(StateCountdown, StateFailed)
		e.metrics.sessionState.Set(float64(StateFailed))
		e.finish()
		return
	}
	defer e.workerBusy.Store(false)

	if !session.transition(StateCountdown, StateDestroying) {
		err := &FatalError{Err: fmt.Errorf("session %s left countdown state", session.ID)}
		e.logger.Error("Destruction cannot begin", zap.Error(err))
		session.recordFailure("engine", err)
		session.transition(StateCountdown, StateFailed)
		e.metrics.sessionState.Set(float64(StateFailed))
		e.finish()
		return
	}

	e.metrics.sessionState.Set(float64(StateDestroying))
	session.markStarted()

	e.logger.Info("Destruction started",
		zap.String("session", session.ID),
		zap.Int("total_files", session.TotalFiles()),
		zap.Bool("emergency", session.Emergency()))

	e.emit(ProgressEvent{
		Phase: PhaseDestroying,
		Total: session.TotalFiles(),
	})

	stopHeartbeat := e.startHeartbeat(session)

	for _, target := range session.Targets() {
		e.destroyPath(session, target.Path)
	}

	if e.sweeper != nil && !e.opts.DryRun {
		e.emit(ProgressEvent{
			Phase:     PhaseSweeping,
			Processed: int(e.processed.Load()),
			Total:     session.TotalFiles(),
		})
		removed := e.sweeper.Sweep()
		e.metrics.sweepsRemoved.Add(float64(removed))
	}

	stopHeartbeat()
	session.markEnded()
	session.transition(StateDestroying, StateComplete)
	e.metrics.sessionState.Set(float64(StateComplete))

	failures := session.Failures()
	e.logger.Info("Destruction complete",
		zap.String("session", session.ID),
		zap.Int("files_destroyed", session.FilesDestroyed()),
		zap.Int("total_files", session.TotalFiles()),
		zap.Int("failures", len(failures)))

	e.emit(ProgressEvent{
		Phase:     PhaseDone,
		Processed: int(e.processed.Load()),
		Total:     session.TotalFiles(),
	})

	e.finish()
}

// destroyPath processes one node depth-first: children before parent, so a
// directory is removed only after every descendant file has been handled.
// Per-target failures are recorded and never abort the walk.
func (e *Engine) destroyPath(session *Session, path string) {
	info, err := os.Lstat(path)
	if err != nil {
		// Resolution race: the target vanished or became unreadable
		// between planning and now.
		session.recordFailure(path, &OverwriteError{Path: path, Stage: "stat", Err: err})
		e.metrics.failures.Inc()
		return
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			session.recordFailure(path, &OverwriteError{Path: path, Stage: "readdir", Err: err})
			e.metrics.failures.Inc()
			return
		}

		for _, entry := range entries {
			e.destroyPath(session, filepath.Join(path, entry.Name()))
		}

		if e.opts.DryRun {
			return
		}
		if err := os.Remove(path); err != nil {
			// An unremovable directory is reported, not ignored: leftover
			// directories are a visible trace of what was stored.
			session.recordFailure(path, &OverwriteError{Path: path, Stage: "rmdir", Err: err})
			e.metrics.failures.Inc()
		}
		return
	}

	if !info.Mode().IsRegular() {
		// Symlinks and other special entries carry no recoverable content;
		// unlink without overwrite and without counting toward the plan.
		if !e.opts.DryRun {
			if err := os.Remove(path); err != nil {
				session.recordFailure(path, &OverwriteError{Path: path, Stage: "delete", Err: err})
				e.metrics.failures.Inc()
			}
		}
		return
	}

	e.current.Store(path)

	if e.opts.DryRun {
		session.filesDestroyed.Add(1)
		e.advance(session, path)
		return
	}

	n, err := e.overwriter.Destroy(path)
	if err != nil {
		session.recordFailure(path, err)
		e.metrics.failures.Inc()
		e.logger.Warn("Target not fully destroyed",
			zap.String("path", path),
			zap.Error(err))
	} else {
		session.filesDestroyed.Add(1)
		session.bytesWiped.Add(n)
		e.metrics.filesDestroyed.Inc()
		e.metrics.bytesWiped.Add(float64(n))
	}

	e.advance(session, path)
}

// advance bumps the processed counter and emits a coalesced progress event
// every ProgressEvery files.
func (e *Engine) advance(session *Session, path string) {
	processed := e.processed.Add(1)
	if int(processed)%e.opts.ProgressEvery != 0 {
		return
	}

	e.emit(ProgressEvent{
		Phase:     PhaseDestroying,
		Processed: int(processed),
		Total:     session.TotalFiles(),
		Current:   filepath.Base(path),
	})
}

// startHeartbeat emits periodic liveness events carrying the live counters,
// independent of file completions. Returns a stop function.
func (e *Engine) startHeartbeat(session *Session) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(e.opts.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				current, _ := e.current.Load().(string)
				if current != "" {
					current = filepath.Base(current)
				}
				e.emit(ProgressEvent{
					Phase:     PhaseDestroying,
					Processed: int(e.processed.Load()),
					Total:     session.TotalFiles(),
					Current:   current,
					Heartbeat: true,
				})
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

// emit sends without blocking: a slow or absent observer never stalls the
// worker. The send happens under e.mu so it cannot race the close in finish.
func (e *Engine) emit(ev ProgressEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events == nil || e.finished {
		return
	}
	select {
	case e.events <- ev:
	default:
	}
}

// finish closes the cycle's event stream and done channel. The closed
// events channel stays retrievable so late observers drain immediately
// instead of blocking.
func (e *Engine) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.finished {
		return
	}
	e.finished = true
	e.scheduler = nil

	if e.events != nil {
		close(e.events)
	}
	if e.done != nil {
		close(e.done)
	}
}
