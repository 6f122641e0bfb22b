package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rnakai/typedrill/internal/backend"
	"github.com/rnakai/typedrill/internal/problem"
	"github.com/rnakai/typedrill/internal/scoring"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noSleep(context.Context, time.Duration) error { return nil }

type fakeSink struct {
	calls   int
	last    Result
	outcome SyncOutcome
	err     error
}

func (f *fakeSink) Persist(_ context.Context, result Result) (SyncOutcome, error) {
	f.calls++
	f.last = result
	return f.outcome, f.err
}

func testProblems(n, questionLen int) []problem.Problem {
	problems := make([]problem.Problem, n)
	for i := range problems {
		problems[i] = problem.Problem{
			ID:       string(rune('a' + i)),
			Language: "HTML",
			Question: strings.Repeat("x", questionLen),
		}
	}
	return problems
}

func testController(cfg Config, client *backend.MockClient, sink ResultSink) *Controller {
	logger := quietLogger()
	policy := backend.DefaultFetchPolicy()
	policy.Sleep = noSleep
	policy.Logger = logger
	return New(Options{
		Config:        cfg,
		Probe:         &backend.Probe{Client: client, Logger: logger, Sleep: noSleep},
		Source:        &backend.Source{Client: client, Policy: policy, Logger: logger},
		Sequencer:     &problem.Sequencer{Shuffle: func([]problem.Problem) {}, Logger: logger},
		Sink:          sink,
		ProbeMaxWait:  10 * time.Second,
		ProbeInterval: 2 * time.Second,
		Logger:        logger,
	})
}

func mustStart(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := c.State().Status; got != StatusActive {
		t.Fatalf("status = %s, want active", got)
	}
}

func TestStart_BecomesActiveWithOrderedPool(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(15, 5)},
	}}
	c := testController(Config{TimeLimitMinutes: 10, ProblemCount: 10}, client, nil)
	mustStart(t, c)

	state := c.State()
	if len(state.Problems) != 10 {
		t.Errorf("got %d problems, want 10", len(state.Problems))
	}
	if state.RemainingSeconds != 600 {
		t.Errorf("remaining = %d, want 600", state.RemainingSeconds)
	}
	if state.StartedAt.IsZero() {
		t.Error("StartedAt not set")
	}
}

func TestStart_ProgressReachesHundred(t *testing.T) {
	client := &backend.MockClient{}
	c := testController(Config{}, client, nil)

	var reported []int
	c.SetOnProgress(func(pct int) { reported = append(reported, pct) })
	mustStart(t, c)

	if len(reported) == 0 || reported[len(reported)-1] != 100 {
		t.Errorf("progress %v, want trailing 100", reported)
	}
	prev := -1
	for _, pct := range reported {
		if pct < prev {
			t.Fatalf("progress decreased: %v", reported)
		}
		prev = pct
	}
}

func TestStart_BackendDownRetriesOnceThenErrors(t *testing.T) {
	down := errors.New("connection refused")
	client := &backend.MockClient{HealthReplies: []error{down}}
	clock := time.Now()
	logger := quietLogger()
	c := New(Options{
		Config: Config{},
		Probe: &backend.Probe{
			Client: client,
			Logger: logger,
			Sleep: func(_ context.Context, d time.Duration) error {
				clock = clock.Add(d)
				return nil
			},
			Now: func() time.Time { return clock },
		},
		Source:        backend.NewSource(client, logger),
		ProbeMaxWait:  4 * time.Second,
		ProbeInterval: 2 * time.Second,
		Logger:        logger,
	})

	err := c.Start(context.Background())

	var unavailable *backend.ErrBackendUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("got %v, want *ErrBackendUnavailable", err)
	}
	if got := c.State().Status; got != StatusError {
		t.Errorf("status = %s, want error", got)
	}
	if c.Err() == nil {
		t.Error("terminal error not recorded")
	}
	// Both initialization attempts probed.
	if client.HealthCalls < 4 {
		t.Errorf("got %d health calls, want at least two probe rounds", client.HealthCalls)
	}
}

func TestKeystroke_JudgesAndAdvancesOnExactMatch(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 3)},
	}}
	c := testController(Config{ProblemCount: 2}, client, nil)
	mustStart(t, c)

	judgments, advanced := c.Keystroke("xy")
	if advanced {
		t.Fatal("advanced on partial input")
	}
	if len(judgments) != 3 {
		t.Fatalf("got %d judgments, want 3", len(judgments))
	}

	_, advanced = c.Keystroke("xxx")
	if !advanced {
		t.Fatal("no advance on exact match")
	}

	state := c.State()
	if state.CurrentIndex != 1 {
		t.Errorf("index = %d, want 1", state.CurrentIndex)
	}
	if state.CompletedChars != 3 {
		t.Errorf("completed chars = %d, want 3", state.CompletedChars)
	}
	if state.CurrentTyped != "" {
		t.Error("typed buffer not reset after advance")
	}
}

func TestKeystroke_IgnoredOutsideActive(t *testing.T) {
	c := testController(Config{}, &backend.MockClient{}, nil)
	if judgments, advanced := c.Keystroke("x"); judgments != nil || advanced {
		t.Error("keystroke accepted before start")
	}
}

func TestSkip_CountsFullTargetAsSkipped(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 7)},
	}}
	c := testController(Config{ProblemCount: 3}, client, nil)
	mustStart(t, c)

	c.Skip()

	state := c.State()
	if state.SkippedChars != 7 {
		t.Errorf("skipped chars = %d, want 7", state.SkippedChars)
	}
	if state.SkippedProblems != 1 {
		t.Errorf("skipped problems = %d, want 1", state.SkippedProblems)
	}
	if state.CurrentIndex != 1 {
		t.Errorf("index = %d, want 1", state.CurrentIndex)
	}
}

func TestPause_FreezesCountdownAndInput(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 5)},
	}}
	c := testController(Config{TimeLimitMinutes: 1, ProblemCount: 1}, client, nil)
	mustStart(t, c)

	c.Tick()
	if got := c.State().RemainingSeconds; got != 59 {
		t.Fatalf("remaining = %d, want 59", got)
	}

	c.Pause()
	c.Tick()
	c.Tick()
	if got := c.State().RemainingSeconds; got != 59 {
		t.Errorf("remaining = %d while paused, want 59", got)
	}
	if _, advanced := c.Keystroke("xxxxx"); advanced {
		t.Error("keystroke accepted while paused")
	}

	c.Resume()
	c.Tick()
	if got := c.State().RemainingSeconds; got != 58 {
		t.Errorf("remaining = %d after resume, want 58", got)
	}
}

func TestTick_ExpiryAbandonsCurrentProblem(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 5)},
	}}
	c := testController(Config{TimeLimitMinutes: 1, ProblemCount: 2}, client, nil)
	mustStart(t, c)

	if _, advanced := c.Keystroke("xxxxx"); !advanced {
		t.Fatal("first problem not completed")
	}
	c.Keystroke("xx") // second problem left in progress

	for i := 0; i < 60; i++ {
		c.Tick()
	}

	state := c.State()
	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if state.RemainingSeconds != 0 {
		t.Errorf("remaining = %d, want 0", state.RemainingSeconds)
	}
	// The abandoned problem counts as fully skipped with zero credit.
	if state.SkippedChars != 5 {
		t.Errorf("skipped chars = %d, want 5", state.SkippedChars)
	}

	result, ok := c.Result()
	if !ok {
		t.Fatal("no result after completion")
	}
	if result.TotalCharacters != 10 || result.CorrectCharacters != 5 {
		t.Errorf("chars = %d/%d, want 5/10", result.CorrectCharacters, result.TotalCharacters)
	}
	if result.DurationMs != 60000 {
		t.Errorf("duration = %dms, want 60000", result.DurationMs)
	}
}

func TestSession_FullRunScoresPreOne(t *testing.T) {
	// Ten problems of ten characters typed perfectly over 100 active
	// seconds: 100 effective chars, score 60, rank Pre-1.
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 10)},
	}}
	sink := &fakeSink{outcome: SyncOutcome{SavedLocally: true, Synced: true}}
	c := testController(Config{TimeLimitMinutes: 10, ProblemCount: 10}, client, sink)
	mustStart(t, c)

	for i := 0; i < 100; i++ {
		c.Tick()
	}
	for i := 0; i < 10; i++ {
		if _, advanced := c.Keystroke(strings.Repeat("x", 10)); !advanced {
			t.Fatalf("problem %d not completed", i)
		}
	}

	result, ok := c.Result()
	if !ok {
		t.Fatal("no result after completing all problems")
	}
	if result.JudgmentValue != 60 {
		t.Errorf("judgment = %v, want 60", result.JudgmentValue)
	}
	if result.Rank != scoring.RankPre1 {
		t.Errorf("rank = %v, want Pre-1", result.Rank)
	}
	if result.AccuracyPercent != 100 {
		t.Errorf("accuracy = %v, want 100", result.AccuracyPercent)
	}
}

func TestSession_AllSkippedScoresGradeFour(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 10)},
	}}
	c := testController(Config{TimeLimitMinutes: 10, ProblemCount: 10}, client, nil)
	mustStart(t, c)

	for i := 0; i < 30; i++ {
		c.Tick()
	}
	for i := 0; i < 10; i++ {
		c.Skip()
	}

	result, ok := c.Result()
	if !ok {
		t.Fatal("no result")
	}
	if result.JudgmentValue != 0 {
		t.Errorf("judgment = %v, want 0", result.JudgmentValue)
	}
	if result.Rank != scoring.RankGrade4 {
		t.Errorf("rank = %v, want Grade 4", result.Rank)
	}
	if result.CorrectCharacters != 0 || result.TotalCharacters != 100 {
		t.Errorf("chars = %d/%d, want 0/100", result.CorrectCharacters, result.TotalCharacters)
	}
}

func TestFinalize_Idempotent(t *testing.T) {
	client := &backend.MockClient{FetchReplies: []backend.FetchReply{
		{Problems: testProblems(10, 5)},
	}}
	sink := &fakeSink{outcome: SyncOutcome{SavedLocally: true}}
	c := testController(Config{ProblemCount: 1}, client, sink)
	mustStart(t, c)

	c.Keystroke("xxxxx")

	first, err := c.Finalize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Finalize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sink.calls != 1 {
		t.Errorf("sink called %d times, want 1", sink.calls)
	}
	if first != second {
		t.Errorf("outcomes differ: %+v vs %+v", first, second)
	}
	if sink.last.SessionID != c.SessionID() {
		t.Errorf("persisted session %s, want %s", sink.last.SessionID, c.SessionID())
	}
}

func TestFinalize_BeforeCompletionFails(t *testing.T) {
	c := testController(Config{}, &backend.MockClient{}, &fakeSink{})
	if _, err := c.Finalize(context.Background()); err == nil {
		t.Error("finalize accepted before completion")
	}
}

func TestTeardown_SafeToRepeat(t *testing.T) {
	c := testController(Config{}, &backend.MockClient{}, nil)
	c.Teardown()
	c.Teardown()
}
