// Package typing compares live keystroke input against a target string.
package typing

import (
	"math"
	"strings"
)

// JudgmentKind classifies a single target character against typed input.
type JudgmentKind int

const (
	// JudgmentPending marks characters not yet reached.
	JudgmentPending JudgmentKind = iota
	// JudgmentCorrect marks an exact character match.
	JudgmentCorrect
	// JudgmentIncorrect marks a mismatch.
	JudgmentIncorrect
	// JudgmentCurrent marks the character the cursor sits on.
	JudgmentCurrent
)

// CharJudgment is the per-character comparison result. Expected is always
// the target character; Actual is only meaningful for JudgmentIncorrect.
type CharJudgment struct {
	Kind     JudgmentKind
	Expected rune
	Actual   rune
}

// Normalize canonicalizes line endings so CRLF and bare CR input compares
// equal to LF targets.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Classify compares typed input against target character by character.
// The result always has exactly len(target) entries (in runes), with at
// most one JudgmentCurrent at index min(len(typed), len(target)).
func Classify(typed, target string) []CharJudgment {
	typedRunes := []rune(Normalize(typed))
	targetRunes := []rune(Normalize(target))

	judgments := make([]CharJudgment, len(targetRunes))
	for i, expected := range targetRunes {
		j := CharJudgment{Expected: expected}
		switch {
		case i < len(typedRunes):
			if typedRunes[i] == expected {
				j.Kind = JudgmentCorrect
			} else {
				j.Kind = JudgmentIncorrect
				j.Actual = typedRunes[i]
			}
		case i == len(typedRunes):
			j.Kind = JudgmentCurrent
		default:
			j.Kind = JudgmentPending
		}
		judgments[i] = j
	}
	return judgments
}

// CorrectCount returns the number of typed characters matching the target
// at the same index.
func CorrectCount(typed, target string) int {
	typedRunes := []rune(Normalize(typed))
	targetRunes := []rune(Normalize(target))

	n := len(typedRunes)
	if len(targetRunes) < n {
		n = len(targetRunes)
	}
	count := 0
	for i := 0; i < n; i++ {
		if typedRunes[i] == targetRunes[i] {
			count++
		}
	}
	return count
}

// Accuracy returns correct/targetLength as a percentage rounded to two
// decimals. A complete exact match reports exactly 100 regardless of
// rounding, and an empty target reports 0.
func Accuracy(typed, target string) float64 {
	targetRunes := []rune(Normalize(target))
	if len(targetRunes) == 0 {
		return 0
	}
	if Complete(typed, target) {
		return 100
	}
	pct := float64(CorrectCount(typed, target)) / float64(len(targetRunes)) * 100
	return math.Round(pct*100) / 100
}

// Complete reports whether typed matches target exactly, whitespace
// included. Completion is never inferred from length alone.
func Complete(typed, target string) bool {
	return Normalize(typed) == Normalize(target) && target != ""
}

// Marker returns a visible stand-in for whitespace characters, so a UI can
// render them distinctly. The second return is false for ordinary runes.
func Marker(r rune) (string, bool) {
	switch r {
	case ' ':
		return "␣", true
	case '\t':
		return "⇥", true
	case '\n':
		return "⏎", true
	}
	return "", false
}
