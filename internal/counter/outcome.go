package counter

import (
	"errors"
	"fmt"
)

// ErrTargetNotFound is returned by a Target whose element does not exist.
// Widget.Run treats it as a silent no-op, not a failure.
var ErrTargetNotFound = errors.New("target element not found")

// State is the position of a single run in Idle → Fetching → {Rendered | Failed}.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateRendered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateRendered || s == StateFailed
}

// Stage names the step of a run that failed.
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageStatus Stage = "status"
	StageDecode Stage = "decode"
	StageRender Stage = "render"
)

// Failure is the single failure category of a run. Stage is informational.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// StatusError reports a non-2xx answer from the counting endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Outcome is the result of one Widget.Run.
type Outcome struct {
	State State
	// Text is the rendered count; set only when State is StateRendered.
	Text string
	// Applied is false when the target element was absent.
	Applied bool
	// Err is a *Failure when State is StateFailed.
	Err error
}

// Failed reports whether the run ended in StateFailed.
func (o Outcome) Failed() bool { return o.State == StateFailed }

func failed(stage Stage, err error) Outcome {
	return Outcome{State: StateFailed, Err: &Failure{Stage: stage, Err: err}}
}
