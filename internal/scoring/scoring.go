// Package scoring computes the judgment value and skill rank for a
// completed typing session.
package scoring

// EffectiveChars returns the characters credited toward scoring: completed
// characters minus skipped and excess characters, floored at zero.
// Over-typing credit is not modeled, so excess is currently always 0 at
// call sites.
func EffectiveChars(completed, skipped, excess int) int {
	effective := completed - (skipped + excess)
	if effective < 0 {
		return 0
	}
	return effective
}

// JudgmentValue converts effective characters and elapsed time into the
// composite performance score. The x60 multiplier is the legacy
// characters-per-minute scaling the rank thresholds were tuned against;
// changing it would silently shift every rank boundary.
func JudgmentValue(effectiveChars int, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 || effectiveChars <= 0 {
		return 0
	}
	return float64(effectiveChars) / elapsedSeconds * 60
}
