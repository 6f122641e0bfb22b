package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rnakai/typedrill/internal/session"
	"github.com/rnakai/typedrill/internal/typing"
)

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	state := m.ctrl.State()
	var content string
	switch state.Status {
	case session.StatusIdle, session.StatusInitializing, session.StatusLoading:
		content = m.renderInit(state)
	case session.StatusActive:
		content = m.renderActive(state)
	case session.StatusPaused:
		content = m.renderPaused(state)
	case session.StatusCompleted:
		content = m.renderSummary()
	case session.StatusError:
		content = m.renderError()
	}

	v.SetContent(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content))
	return v
}

func (m *Model) renderInit(state session.State) string {
	label := "Contacting backend..."
	if state.Status == session.StatusLoading {
		label = "Loading problems..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("typedrill"))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render(label))
	b.WriteString("\n\n")
	b.WriteString(renderProgressBar(m.initPct, 40))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d%%", m.initPct)))
	return lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String())
}

func renderProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return progressFilled.Render(strings.Repeat("█", filled)) +
		progressEmpty.Render(strings.Repeat("░", width-filled))
}

func (m *Model) renderActive(state session.State) string {
	current, ok := m.ctrl.Current()
	if !ok {
		return hintStyle.Render("Preparing next problem...")
	}

	mins := state.RemainingSeconds / 60
	secs := state.RemainingSeconds % 60

	header := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render(current.Language),
		hintStyle.Render(fmt.Sprintf("Problem %d/%d", state.CurrentIndex+1, len(state.Problems))),
		lipgloss.NewStyle().Foreground(accent).Render(fmt.Sprintf("%d:%02d", mins, secs)),
	)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(strings.Repeat("─", 60)))
	b.WriteString("\n\n")
	b.WriteString(renderTarget(m.judgments))
	b.WriteString("\n\n")
	if current.Explanation != "" {
		b.WriteString(hintStyle.Render(current.Explanation))
		b.WriteString("\n\n")
	}
	b.WriteString("> " + m.input.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Esc pause · Ctrl+S skip · Ctrl+C quit"))
	return b.String()
}

// renderTarget paints the target string with one style per judgment.
// Mistyped or cursor whitespace gets a visible marker so the mistake
// isn't invisible.
func renderTarget(judgments []typing.CharJudgment) string {
	var b strings.Builder
	for _, j := range judgments {
		ch := string(j.Expected)
		if marker, ok := typing.Marker(j.Expected); ok &&
			(j.Kind == typing.JudgmentIncorrect || j.Kind == typing.JudgmentCurrent) {
			ch = marker
		}
		switch j.Kind {
		case typing.JudgmentCorrect:
			b.WriteString(correctStyle.Render(ch))
		case typing.JudgmentIncorrect:
			b.WriteString(incorrectStyle.Render(ch))
		case typing.JudgmentCurrent:
			b.WriteString(currentStyle.Render(ch))
		default:
			b.WriteString(pendingStyle.Render(ch))
		}
	}
	return b.String()
}

func (m *Model) renderPaused(state session.State) string {
	mins := state.RemainingSeconds / 60
	secs := state.RemainingSeconds % 60

	var b strings.Builder
	b.WriteString(titleStyle.Render("Paused"))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d:%02d remaining", mins, secs)))
	b.WriteString("\n\n")
	b.WriteString("[Esc] Resume\n")
	b.WriteString("[Q]   End session")
	return cardStyle.Render(lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()))
}

func (m *Model) renderSummary() string {
	result, ok := m.ctrl.Result()
	if !ok {
		return hintStyle.Render("Session over.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Session complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Rank       %s\n", lipgloss.NewStyle().Foreground(accent).Bold(true).Render(result.Rank.String())))
	b.WriteString(fmt.Sprintf("Score      %.1f\n", result.JudgmentValue))
	b.WriteString(fmt.Sprintf("Accuracy   %.2f%%\n", result.AccuracyPercent))
	b.WriteString(fmt.Sprintf("Characters %d/%d\n", result.CorrectCharacters, result.TotalCharacters))
	b.WriteString("\n")
	b.WriteString(m.renderSyncStatus())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Press Q to exit"))
	return cardStyle.Render(b.String())
}

func (m *Model) renderSyncStatus() string {
	switch {
	case m.outcome == nil:
		return hintStyle.Render("Saving result...")
	case m.syncErr != nil || !m.outcome.SavedLocally:
		return incorrectStyle.Render("Result could not be saved")
	case m.outcome.Synced:
		return correctStyle.Render("Result saved and synced")
	default:
		return lipgloss.NewStyle().Foreground(accent).Render("Result saved locally, sync pending")
	}
}

func (m *Model) renderError() string {
	msg := "initialization failed"
	if err := m.ctrl.Err(); err != nil {
		msg = err.Error()
	}

	var b strings.Builder
	b.WriteString(incorrectStyle.Render("Could not start session"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(60).Render(msg))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Press any key to exit"))
	return cardStyle.Render(b.String())
}
