package problem

import (
	"log/slog"
	"math/rand/v2"
	"sort"
)

// Sequencer orders and truncates a fetched pool before a session starts.
// The zero value uses a uniform shuffle and the default logger.
type Sequencer struct {
	// Shuffle permutes a slice in place. Nil means a uniform
	// Fisher-Yates shuffle; tests inject a deterministic one.
	Shuffle func([]Problem)

	Logger *slog.Logger
}

// Order applies rule to problems and truncates the result to count.
// A pool smaller than count is returned whole. The input slice is not
// modified.
func (s *Sequencer) Order(problems []Problem, rule OrderRule, count int) []Problem {
	out := make([]Problem, len(problems))
	copy(out, problems)

	switch rule {
	case RuleNewestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case RuleOldestFirst:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case RuleWeakPriority, RuleStrongPriority:
		// Priority ordering by historical accuracy is not built yet.
		s.logger().Warn("ordering rule not supported, falling back to random",
			"rule", string(rule))
		s.shuffle(out)
	default:
		s.shuffle(out)
	}

	if count > 0 && count < len(out) {
		out = out[:count]
	}
	return out
}

func (s *Sequencer) shuffle(problems []Problem) {
	if s.Shuffle != nil {
		s.Shuffle(problems)
		return
	}
	rand.Shuffle(len(problems), func(i, j int) {
		problems[i], problems[j] = problems[j], problems[i]
	})
}

func (s *Sequencer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
