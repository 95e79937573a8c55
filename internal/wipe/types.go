package wipe

import (
	"time"
)

// TargetKind classifies a resolved destruction root.
type TargetKind int

const (
	TargetFile TargetKind = iota
	TargetDirectory
)

func (k TargetKind) String() string {
	switch k {
	case TargetFile:
		return "FILE"
	case TargetDirectory:
		return "DIRECTORY"
	default:
		return "UNKNOWN"
	}
}

// Target is one destruction root. Immutable once resolved.
type Target struct {
	Path string
	Kind TargetKind
}

// SessionState is the lifecycle state of a destruction session.
type SessionState int32

const (
	StateIdle SessionState = iota
	StateCountdown
	StateDestroying
	StateComplete
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateCountdown:
		return "COUNTDOWN"
	case StateDestroying:
		return "DESTROYING"
	case StateComplete:
		return "COMPLETE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Pass is one overwrite pass. Passes are applied in the fixed order
// ZERO, ONE, RANDOM before a file is deleted.
type Pass int

const (
	PassZero Pass = iota
	PassOne
	PassRandom
)

func (p Pass) String() string {
	switch p {
	case PassZero:
		return "ZERO"
	case PassOne:
		return "ONE"
	case PassRandom:
		return "RANDOM"
	default:
		return "UNKNOWN"
	}
}

// passOrder is the contractual overwrite sequence.
var passOrder = [...]Pass{PassZero, PassOne, PassRandom}

// Phase identifies what the engine is doing when an event is emitted.
type Phase string

const (
	PhaseResolving  Phase = "resolving"
	PhaseCountdown  Phase = "countdown"
	PhaseDestroying Phase = "destroying"
	PhaseSweeping   Phase = "sweeping"
	PhaseDone       Phase = "done"
)

// ProgressEvent is emitted from the engine's worker goroutine. Events are
// coalesced during destruction; Heartbeat events carry the same counters but
// are emitted on a timer so observers can detect a stuck run.
type ProgressEvent struct {
	Phase     Phase
	Processed int
	Total     int
	Current   string
	Heartbeat bool
}

// Failure records one target that could not be fully destroyed.
type Failure struct {
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Result is the terminal outcome of a destruction session. Success is true
// only when every resolved file was destroyed; "completed with failures"
// means recoverable data may remain and is never collapsed into success.
type Result struct {
	Success        bool          `json:"success"`
	FilesDestroyed int           `json:"files_destroyed"`
	TotalFiles     int           `json:"total_files"`
	Failures       []Failure     `json:"failures"`
	Duration       time.Duration `json:"duration"`
	DryRun         bool          `json:"dry_run"`
}
