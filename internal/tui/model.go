// Package tui provides the Bubble Tea interface for a practice session.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/rnakai/typedrill/internal/session"
	"github.com/rnakai/typedrill/internal/typing"
)

// Model is the root Bubble Tea model driving one session.
type Model struct {
	ctrl     *session.Controller
	input    textinput.Model
	progress chan int

	width  int
	height int

	initPct    int
	judgments  []typing.CharJudgment
	finalizing bool
	outcome    *session.SyncOutcome
	syncErr    error
}

// NewModel builds the root model around a prepared controller. The
// controller's OnProgress must be wired to the returned model via
// ProgressSink before Start runs.
func NewModel(ctrl *session.Controller) *Model {
	return &Model{
		ctrl:     ctrl,
		input:    newInput(),
		progress: make(chan int, 16),
	}
}

// ProgressSink returns a callback suitable for session.Options.OnProgress.
// It never blocks the initialization goroutine.
func (m *Model) ProgressSink() func(int) {
	return func(pct int) {
		select {
		case m.progress <- pct:
		default:
		}
	}
}

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Type the snippet..."
	ti.Focus()
	return ti
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startSession(),
		m.waitProgress(),
		m.input.Focus(),
		tickCmd(),
	)
}

// startSession runs initialization off the event loop.
func (m *Model) startSession() tea.Cmd {
	return func() tea.Msg {
		err := m.ctrl.Start(context.Background())
		return initDoneMsg{Err: err}
	}
}

// waitProgress relays one progress update into the event loop.
func (m *Model) waitProgress() tea.Cmd {
	return func() tea.Msg {
		pct, ok := <-m.progress
		if !ok {
			return nil
		}
		return initProgressMsg(pct)
	}
}

func (m *Model) finalize() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		outcome, err := m.ctrl.Finalize(ctx)
		return finalizeDoneMsg{Outcome: outcome, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case initProgressMsg:
		m.initPct = int(msg)
		return m, m.waitProgress()

	case initDoneMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.initPct = 100
		m.input = newInput()
		m.refreshJudgments()
		return m, m.input.Focus()

	case timerTickMsg:
		return m.handleTick()

	case finalizeDoneMsg:
		m.outcome = &msg.Outcome
		m.syncErr = msg.Err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	m.ctrl.Tick()
	state := m.ctrl.State()
	if state.Status == session.StatusCompleted {
		return m, m.maybeFinalize()
	}
	if state.Terminal() {
		return m, nil
	}
	return m, tickCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	state := m.ctrl.State()

	if key == "ctrl+c" {
		m.ctrl.Teardown()
		return m, tea.Quit
	}

	switch state.Status {
	case session.StatusError:
		return m, tea.Quit

	case session.StatusCompleted:
		switch key {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
		return m, nil

	case session.StatusPaused:
		switch key {
		case "esc", "enter":
			m.ctrl.Resume()
		case "q":
			m.ctrl.Teardown()
			return m, tea.Quit
		}
		return m, nil

	case session.StatusActive:
		switch key {
		case "esc":
			m.ctrl.Pause()
			return m, nil
		case "ctrl+s":
			m.ctrl.Skip()
			m.input = newInput()
			m.refreshJudgments()
			if m.ctrl.State().Status == session.StatusCompleted {
				return m, m.maybeFinalize()
			}
			return m, m.input.Focus()
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		judgments, advanced := m.ctrl.Keystroke(m.input.Value())
		m.judgments = judgments
		if advanced {
			m.input = newInput()
			m.refreshJudgments()
			if m.ctrl.State().Status == session.StatusCompleted {
				return m, m.maybeFinalize()
			}
			return m, tea.Batch(cmd, m.input.Focus())
		}
		return m, cmd
	}

	return m, nil
}

// maybeFinalize triggers persistence exactly once.
func (m *Model) maybeFinalize() tea.Cmd {
	if m.finalizing {
		return nil
	}
	m.finalizing = true
	return m.finalize()
}

func (m *Model) refreshJudgments() {
	if current, ok := m.ctrl.Current(); ok {
		m.judgments = typing.Classify("", current.Question)
	} else {
		m.judgments = nil
	}
}

// Run starts the Bubble Tea program for the given controller.
func Run(ctrl *session.Controller) error {
	m := NewModel(ctrl)
	ctrl.SetOnProgress(m.ProgressSink())
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
