package backend

import (
	"context"
	"log/slog"

	"github.com/rnakai/typedrill/internal/problem"
)

// MinViablePoolSize is the smallest fetched pool accepted without topping
// it up from the built-in defaults.
const MinViablePoolSize = 10

// Source acquires the practice problem pool for a session. Transient
// backend failures are absorbed here: each fetch is retried under Policy,
// and an exhausted or undersized fetch falls back to deterministic
// built-in problems, so Fetch only fails when the context is cancelled.
type Source struct {
	Client Client
	Policy RetryPolicy
	Logger *slog.Logger
}

// NewSource creates a Source with the default fetch retry policy.
func NewSource(client Client, logger *slog.Logger) *Source {
	policy := DefaultFetchPolicy()
	policy.Logger = logger
	return &Source{Client: client, Policy: policy, Logger: logger}
}

// Fetch returns the problem pool for one language. PoolMixed fetches the
// system and user pools independently and concatenates them; one pool
// failing does not fail the other.
func (s *Source) Fetch(ctx context.Context, language string, pool problem.Pool) ([]problem.Problem, error) {
	logger := s.logger()

	var fetched []problem.Problem
	if pool == problem.PoolMixed {
		system, sysErr := s.fetchPool(ctx, language, problem.PoolSystem)
		if sysErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("system pool fetch failed", "language", language, "reason", sysErr.Error())
		}
		user, userErr := s.fetchPool(ctx, language, problem.PoolUser)
		if userErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("user pool fetch failed", "language", language, "reason", userErr.Error())
		}
		fetched = append(fetched, system...)
		fetched = append(fetched, user...)
	} else {
		var err error
		fetched, err = s.fetchPool(ctx, language, pool)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("pool fetch failed, using built-in defaults",
				"language", language, "pool", string(pool), "reason", err.Error())
			fetched = nil
		}
	}

	if len(fetched) < MinViablePoolSize {
		defaults := problem.Defaults(language)
		logger.Info("padding pool with built-in defaults",
			"language", language, "fetched", len(fetched), "defaults", len(defaults))
		fetched = append(fetched, defaults...)
	}
	return fetched, nil
}

func (s *Source) fetchPool(ctx context.Context, language string, pool problem.Pool) ([]problem.Problem, error) {
	return Retry(ctx, s.policy(), "fetch-problems", func(ctx context.Context) ([]problem.Problem, error) {
		return s.Client.FetchProblems(ctx, language, pool)
	})
}

func (s *Source) policy() RetryPolicy {
	p := s.Policy
	if p.MaxAttempts == 0 {
		p = DefaultFetchPolicy()
	}
	if p.Logger == nil {
		p.Logger = s.logger()
	}
	return p
}

func (s *Source) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
