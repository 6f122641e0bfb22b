package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rnakai/typedrill/internal/backend"
	"github.com/rnakai/typedrill/internal/problem"
	"github.com/rnakai/typedrill/internal/scoring"
	"github.com/rnakai/typedrill/internal/typing"
)

// ErrNoProblems indicates initialization produced an empty problem set.
// Fatal for the session; the fetch layer has already spent its retries.
var ErrNoProblems = errors.New("no problems found for session config")

// maxInitAttempts bounds end-to-end initialization tries. The second
// attempt starts with fresh retry budgets so backoff delays don't
// compound.
const maxInitAttempts = 2

// Initialization progress phases: the probe owns [0, loadingPhaseStart),
// loading owns the rest. Probe progress is scaled into its window and
// capped just below loadingPhaseStart so the bar never jumps backwards.
const loadingPhaseStart = 40

// Options configures a Controller.
type Options struct {
	Config    Config
	Probe     *backend.Probe
	Source    *backend.Source
	Sequencer *problem.Sequencer

	// Sink receives the result at completion. Nil disables persistence
	// (tests).
	Sink ResultSink

	// ProbeMaxWait and ProbeInterval bound the reachability probe.
	// Zero values use the backend defaults.
	ProbeMaxWait  time.Duration
	ProbeInterval time.Duration

	// OnProgress receives initialization progress in [0, 100].
	OnProgress func(pct int)

	Logger *slog.Logger
}

// Controller owns the session state machine, the countdown, and the
// lifecycle API the UI consumes. All mutation goes through its methods;
// keystrokes arrive serialized from a single input source.
type Controller struct {
	mu sync.Mutex

	cfg       Config
	probe     *backend.Probe
	source    *backend.Source
	sequencer *problem.Sequencer
	sink      ResultSink
	logger    *slog.Logger

	probeMaxWait  time.Duration
	probeInterval time.Duration
	onProgress    func(pct int)

	sessionID string
	state     State
	result    *Result
	outcome   *SyncOutcome
	initErr   error

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Controller in StatusIdle. The config is normalized here
// so the session always starts from a valid one.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config.Normalize(logger)

	probeMaxWait := opts.ProbeMaxWait
	if probeMaxWait <= 0 {
		probeMaxWait = backend.DefaultConfig().ProbeMaxWait
	}
	probeInterval := opts.ProbeInterval
	if probeInterval <= 0 {
		probeInterval = backend.DefaultConfig().ProbeInterval
	}

	sequencer := opts.Sequencer
	if sequencer == nil {
		sequencer = &problem.Sequencer{Logger: logger}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:           cfg,
		probe:         opts.Probe,
		source:        opts.Source,
		sequencer:     sequencer,
		sink:          opts.Sink,
		logger:        logger,
		probeMaxWait:  probeMaxWait,
		probeInterval: probeInterval,
		onProgress:    opts.OnProgress,
		sessionID:     uuid.NewString(),
		state:         State{Status: StatusIdle},
		ctx:           ctx,
		cancel:        cancel,
	}
}

// SetOnProgress replaces the progress callback. Call before Start.
func (c *Controller) SetOnProgress(fn func(pct int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgress = fn
}

// Config returns the normalized session configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// SessionID returns the session's UUID.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the terminal initialization error, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErr
}

// Start runs initialization: backend probe, problem fetch, ordering.
// It blocks until the session is Active or a terminal error occurred, so
// callers run it off the event loop and observe progress via OnProgress.
// At most two end-to-end attempts are made; only backend unavailability
// earns the second one.
func (c *Controller) Start(parent context.Context) error {
	ctx, cancelLink := linkContext(parent, c.ctx)
	defer cancelLink()

	var err error
	for attempt := 1; attempt <= maxInitAttempts; attempt++ {
		err = c.initOnce(ctx, attempt)
		if err == nil {
			return nil
		}
		var unavailable *backend.ErrBackendUnavailable
		if !errors.As(err, &unavailable) || attempt == maxInitAttempts {
			break
		}
		c.logger.Warn("initialization failed, retrying once",
			"attempt", attempt, "reason", err.Error())
	}

	c.mu.Lock()
	c.state.Status = StatusError
	c.initErr = err
	c.mu.Unlock()
	return err
}

func (c *Controller) initOnce(ctx context.Context, attempt int) error {
	c.mu.Lock()
	c.state = State{Status: StatusInitializing}
	c.mu.Unlock()

	c.logger.Info("session initializing",
		"session", c.sessionID, "attempt", attempt,
		"pool", string(c.cfg.Pool), "languages", c.cfg.Languages)

	err := c.probe.WaitUntilReady(ctx, c.probeMaxWait, c.probeInterval, func(pct int) {
		c.reportProgress(pct * loadingPhaseStart / 100)
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Status = StatusLoading
	c.mu.Unlock()
	c.reportProgress(loadingPhaseStart)

	var pool []problem.Problem
	for _, language := range c.cfg.Languages {
		fetched, err := c.source.Fetch(ctx, language, c.cfg.Pool)
		if err != nil {
			return err
		}
		pool = append(pool, fetched...)
	}

	ordered := c.sequencer.Order(pool, c.cfg.Rule, c.cfg.ProblemCount)
	if len(ordered) == 0 {
		return ErrNoProblems
	}

	c.mu.Lock()
	c.state = State{
		Status:           StatusActive,
		Problems:         ordered,
		StartedAt:        time.Now(),
		RemainingSeconds: c.cfg.TimeLimitMinutes * 60,
	}
	c.mu.Unlock()
	c.reportProgress(100)

	c.logger.Info("session active",
		"session", c.sessionID, "problems", len(ordered),
		"timeLimitSeconds", c.cfg.TimeLimitMinutes*60)
	return nil
}

// Current returns the problem under the cursor.
func (c *Controller) Current() (problem.Problem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *Controller) currentLocked() (problem.Problem, bool) {
	if c.state.CurrentIndex >= len(c.state.Problems) {
		return problem.Problem{}, false
	}
	return c.state.Problems[c.state.CurrentIndex], true
}

// Keystroke updates the live comparison with the full typed input so far
// and returns per-character judgments for rendering. An exact match of
// the current target advances to the next problem (advanced=true).
// Ignored outside StatusActive.
func (c *Controller) Keystroke(typed string) (judgments []typing.CharJudgment, advanced bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != StatusActive {
		return nil, false
	}
	current, ok := c.currentLocked()
	if !ok {
		return nil, false
	}

	c.state.CurrentTyped = typed
	judgments = typing.Classify(typed, current.Question)

	if typing.Complete(typed, current.Question) {
		c.state.CompletedChars += len([]rune(typing.Normalize(current.Question)))
		c.state.CompletedProblems++
		c.advanceLocked()
		return judgments, true
	}
	return judgments, false
}

// Skip abandons the current problem with zero credit and advances.
func (c *Controller) Skip() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != StatusActive {
		return
	}
	current, ok := c.currentLocked()
	if !ok {
		return
	}

	c.state.SkippedChars += len([]rune(typing.Normalize(current.Question)))
	c.state.SkippedProblems++
	c.advanceLocked()
}

func (c *Controller) advanceLocked() {
	c.state.CurrentIndex++
	c.state.CurrentTyped = ""
	if c.state.CurrentIndex >= len(c.state.Problems) {
		c.completeLocked()
	}
}

// Pause stops the countdown; input is disabled until Resume.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == StatusActive {
		c.state.Status = StatusPaused
	}
}

// Resume restarts the countdown after a Pause.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == StatusPaused {
		c.state.Status = StatusActive
	}
}

// Tick advances the countdown by one second. Paused sessions don't tick,
// so the clock only counts active time. Expiry abandons the problem in
// progress with zero credit and completes the session.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != StatusActive {
		return
	}
	c.state.RemainingSeconds--
	if c.state.RemainingSeconds > 0 {
		return
	}
	c.state.RemainingSeconds = 0

	if current, ok := c.currentLocked(); ok {
		c.state.SkippedChars += len([]rune(typing.Normalize(current.Question)))
		c.state.SkippedProblems++
		c.state.CurrentIndex = len(c.state.Problems)
		c.state.CurrentTyped = ""
	}
	c.completeLocked()
}

// completeLocked finalizes scoring. Persistence happens separately via
// Finalize so completion never blocks on I/O.
func (c *Controller) completeLocked() {
	c.state.Status = StatusCompleted

	elapsedSeconds := float64(c.cfg.TimeLimitMinutes*60 - c.state.RemainingSeconds)
	effective := scoring.EffectiveChars(c.state.CompletedChars, c.state.SkippedChars, 0)
	judgment := scoring.JudgmentValue(effective, elapsedSeconds)

	totalChars := c.state.CompletedChars + c.state.SkippedChars
	result, err := NewResult(
		c.sessionID,
		c.resultLanguage(),
		c.state.StartedAt,
		int64(elapsedSeconds*1000),
		totalChars,
		c.state.CompletedChars,
		judgment,
	)
	if err != nil {
		// Counts are maintained internally, so this is a programming
		// error; log it and leave the session completed without a result.
		c.logger.Error("result construction failed", "session", c.sessionID, "reason", err.Error())
		return
	}
	c.result = &result

	c.logger.Info("session completed",
		"session", c.sessionID,
		"totalChars", result.TotalCharacters,
		"correctChars", result.CorrectCharacters,
		"accuracy", result.AccuracyPercent,
		"judgment", result.JudgmentValue,
		"rank", result.Rank.String())
}

func (c *Controller) resultLanguage() string {
	if len(c.cfg.Languages) == 1 {
		return c.cfg.Languages[0]
	}
	lang := ""
	for i, l := range c.cfg.Languages {
		if i > 0 {
			lang += ","
		}
		lang += l
	}
	return lang
}

// Result returns the completed session's result, or false before
// completion.
func (c *Controller) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

// Finalize persists the completed result through the sink. Idempotent;
// sink failures surface in the outcome, never as a session abort.
func (c *Controller) Finalize(ctx context.Context) (SyncOutcome, error) {
	c.mu.Lock()
	if c.result == nil {
		c.mu.Unlock()
		return SyncOutcome{}, errors.New("session not completed")
	}
	if c.outcome != nil {
		out := *c.outcome
		c.mu.Unlock()
		return out, nil
	}
	result := *c.result
	sink := c.sink
	c.mu.Unlock()

	if sink == nil {
		return SyncOutcome{}, nil
	}

	outcome, err := sink.Persist(ctx, result)
	if err != nil {
		c.logger.Warn("result persistence failed", "session", c.sessionID, "reason", err.Error())
		return outcome, err
	}

	c.mu.Lock()
	c.outcome = &outcome
	c.mu.Unlock()
	return outcome, nil
}

// Teardown cancels any in-flight probe, retry backoff, or fetch. No
// retry fires after teardown; safe to call more than once.
func (c *Controller) Teardown() {
	c.cancel()
}

func (c *Controller) reportProgress(pct int) {
	c.mu.Lock()
	fn := c.onProgress
	c.mu.Unlock()
	if fn != nil {
		fn(pct)
	}
}

// linkContext derives a context cancelled when either parent is done.
func linkContext(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
