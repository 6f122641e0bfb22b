package backend

import (
	"context"
	"log/slog"
	"time"
)

// Probe polls the backend reachability endpoint until it answers or a
// deadline passes.
type Probe struct {
	Client Client
	Logger *slog.Logger

	// Sleep and Now are injectable for tests. Nil means real time.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

// WaitUntilReady polls Health every pollInterval until the backend is
// ready or maxWait elapses. progress, if non-nil, receives a monotonically
// increasing percentage of the probe window in [0, 100); 100 is reported
// only on success, so a caller mapping probe progress into a wider
// initialization bar stays below the next phase until ready.
// Returns *ErrBackendUnavailable on timeout.
func (p *Probe) WaitUntilReady(ctx context.Context, maxWait, pollInterval time.Duration, progress func(pct int)) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepTimer
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	start := now()
	var lastErr error
	lastPct := -1

	for attempt := 1; ; attempt++ {
		err := p.Client.Health(ctx)
		if err == nil {
			logger.Info("backend ready", "attempt", attempt, "elapsed", now().Sub(start))
			if progress != nil {
				progress(100)
			}
			return nil
		}
		lastErr = err

		elapsed := now().Sub(start)
		if elapsed >= maxWait {
			logger.Warn("backend probe timed out",
				"attempt", attempt, "elapsed", elapsed, "reason", err.Error())
			return &ErrBackendUnavailable{Elapsed: elapsed, Err: lastErr}
		}

		if progress != nil {
			pct := int(float64(elapsed) / float64(maxWait) * 100)
			if pct > 99 {
				pct = 99
			}
			if pct > lastPct {
				lastPct = pct
				progress(pct)
			}
		}

		logger.Debug("backend not ready, polling again",
			"attempt", attempt, "elapsed", elapsed, "interval", pollInterval, "reason", err.Error())
		if serr := sleep(ctx, pollInterval); serr != nil {
			return serr
		}
	}
}
