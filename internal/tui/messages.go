package tui

import (
	"time"

	"github.com/rnakai/typedrill/internal/session"
)

// initDoneMsg is sent when session initialization finishes, ready or not.
type initDoneMsg struct {
	Err error
}

// initProgressMsg carries initialization progress in [0, 100].
type initProgressMsg int

// timerTickMsg is sent every second to drive the countdown.
type timerTickMsg time.Time

// finalizeDoneMsg is sent when result persistence completed.
type finalizeDoneMsg struct {
	Outcome session.SyncOutcome
	Err     error
}
