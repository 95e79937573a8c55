package wipe

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a destruction request arrives while a
	// session is already DESTROYING. Requests are rejected, not queued.
	ErrBusy = errors.New("destruction already in progress")

	// ErrNotArmed is returned by cancel/escalate when no countdown is armed.
	ErrNotArmed = errors.New("countdown is not armed")

	// ErrAlreadyArmed is returned when starting a countdown that is
	// already armed or triggered.
	ErrAlreadyArmed = errors.New("countdown already started")
)

// OverwriteError records an I/O failure while destroying a single target.
// It never aborts the session; the engine records it and moves on.
type OverwriteError struct {
	Path  string
	Pass  Pass // valid only when Stage == "pass"
	Stage string
	Err   error
}

func (e *OverwriteError) Error() string {
	if e.Stage == "pass" {
		return fmt.Sprintf("overwrite %s: pass %s: %v", e.Path, e.Pass, e.Err)
	}
	return fmt.Sprintf("overwrite %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *OverwriteError) Unwrap() error { return e.Err }

// FatalError marks a condition under which the engine could not begin
// executing at all. The session transitions to FAILED; this is distinct
// from per-target failures, which never abort a run.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("destruction engine fatal: %v", e.Err) }

func (e *FatalError) Unwrap() error { return e.Err }
