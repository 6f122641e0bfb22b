// Package session orchestrates a timed typing practice session: config
// validation, the lifecycle state machine, and result construction.
package session

import (
	"log/slog"
	"slices"

	"github.com/rnakai/typedrill/internal/problem"
)

const (
	DefaultLanguage     = "HTML"
	DefaultTimeLimitMin = 10
	DefaultProblemCount = 10

	MinTimeLimitMin = 1
	MaxTimeLimitMin = 120
	MinProblemCount = 1
	MaxProblemCount = 20
)

// Config is the immutable configuration a session is started with.
type Config struct {
	Pool             problem.Pool
	Languages        []string
	Rule             problem.OrderRule
	TimeLimitMinutes int
	ProblemCount     int
}

// DefaultConfig returns the stock session configuration.
func DefaultConfig() Config {
	return Config{
		Pool:             problem.PoolSystem,
		Languages:        []string{DefaultLanguage},
		Rule:             problem.RuleRandom,
		TimeLimitMinutes: DefaultTimeLimitMin,
		ProblemCount:     DefaultProblemCount,
	}
}

// Normalize replaces missing or invalid fields with defaults, field by
// field, and deduplicates languages. Every replaced field is logged so a
// mistyped flag doesn't silently vanish.
func (c Config) Normalize(logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	out := c

	if !out.Pool.Valid() {
		if out.Pool != "" {
			logger.Warn("unknown problem pool, using default", "pool", string(out.Pool))
		}
		out.Pool = problem.PoolSystem
	}

	langs := make([]string, 0, len(out.Languages))
	for _, l := range out.Languages {
		if l == "" {
			continue
		}
		if !slices.Contains(langs, l) {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{DefaultLanguage}
	}
	out.Languages = langs

	if !out.Rule.Valid() {
		if out.Rule != "" {
			logger.Warn("unknown ordering rule, using default", "rule", string(out.Rule))
		}
		out.Rule = problem.RuleRandom
	}

	if out.TimeLimitMinutes < MinTimeLimitMin || out.TimeLimitMinutes > MaxTimeLimitMin {
		if out.TimeLimitMinutes != 0 {
			logger.Warn("time limit out of range, using default",
				"minutes", out.TimeLimitMinutes)
		}
		out.TimeLimitMinutes = DefaultTimeLimitMin
	}

	if out.ProblemCount < MinProblemCount || out.ProblemCount > MaxProblemCount {
		if out.ProblemCount != 0 {
			logger.Warn("problem count out of range, using default",
				"count", out.ProblemCount)
		}
		out.ProblemCount = DefaultProblemCount
	}

	return out
}
