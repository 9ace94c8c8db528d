package health

import (
	"context"
	"errors"
)

// OutcomeKind classifies the result of a probe run.
type OutcomeKind int

const (
	KindOk OutcomeKind = iota
	KindFailed
	KindTimedOut
)

// String returns the label used in metrics and logs.
func (k OutcomeKind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindFailed:
		return "failed"
	case KindTimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of running one probe.
type Outcome struct {
	Kind   OutcomeKind
	Reason string // set for KindFailed only
}

// Ok reports a reachable dependency.
func Ok() Outcome {
	return Outcome{Kind: KindOk}
}

// Failed reports a dependency that answered with an error or could not be reached.
func Failed(reason string) Outcome {
	if reason == "" {
		reason = "unknown error"
	}
	return Outcome{Kind: KindFailed, Reason: reason}
}

// TimedOut reports a dependency that did not answer within its budget.
func TimedOut() Outcome {
	return Outcome{Kind: KindTimedOut}
}

// FromError maps a probe error onto an Outcome. A nil error is Ok and a
// deadline is TimedOut; anything else keeps its message as the reason.
func FromError(err error) Outcome {
	switch {
	case err == nil:
		return Ok()
	case errors.Is(err, context.DeadlineExceeded):
		return TimedOut()
	default:
		return Failed(err.Error())
	}
}

// IsOk reports whether the dependency is reachable.
func (o Outcome) IsOk() bool {
	return o.Kind == KindOk
}

// String renders the outcome as it appears in the services payload.
func (o Outcome) String() string {
	switch o.Kind {
	case KindOk:
		return "ok"
	case KindTimedOut:
		return "error: timeout"
	default:
		return "error: " + o.Reason
	}
}
