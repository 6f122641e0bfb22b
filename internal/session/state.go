package session

import (
	"time"

	"github.com/rnakai/typedrill/internal/problem"
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusInitializing
	StatusLoading
	StatusActive
	StatusPaused
	StatusCompleted
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInitializing:
		return "initializing"
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the running session, owned and mutated
// exclusively by the Controller.
type State struct {
	Status           Status
	Problems         []problem.Problem
	CurrentIndex     int
	CurrentTyped     string
	StartedAt        time.Time
	RemainingSeconds int

	// CompletedChars is the total rune length of fully completed
	// problems; SkippedChars the total rune length of skipped or
	// abandoned ones. A problem in progress contributes to neither
	// until it resolves.
	CompletedChars int
	SkippedChars   int

	// CompletedProblems and SkippedProblems count resolved problems.
	CompletedProblems int
	SkippedProblems   int
}

// Terminal reports whether the session can no longer change.
func (s State) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}
