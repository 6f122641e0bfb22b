package backend

import (
	"context"
	"sync"

	"github.com/rnakai/typedrill/internal/problem"
)

// FetchReply is a canned FetchProblems response for the MockClient.
type FetchReply struct {
	Problems []problem.Problem
	Err      error
}

// MockClient is a deterministic Client for testing. Canned replies are
// consumed in FIFO order per method; an exhausted queue repeats the last
// reply (or succeeds emptily if none were given). All calls are recorded.
type MockClient struct {
	mu sync.Mutex

	HealthReplies []error
	FetchReplies  []FetchReply
	PostReplies   []error

	HealthCalls int
	FetchCalls  []string // "language/pool" per call
	PostCalls   []ResultPayload
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Health(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthCalls++
	if len(m.HealthReplies) == 0 {
		return nil
	}
	err := m.HealthReplies[0]
	if len(m.HealthReplies) > 1 {
		m.HealthReplies = m.HealthReplies[1:]
	}
	return err
}

func (m *MockClient) FetchProblems(_ context.Context, language string, pool problem.Pool) ([]problem.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls = append(m.FetchCalls, language+"/"+string(pool))
	if len(m.FetchReplies) == 0 {
		return nil, nil
	}
	reply := m.FetchReplies[0]
	if len(m.FetchReplies) > 1 {
		m.FetchReplies = m.FetchReplies[1:]
	}
	return reply.Problems, reply.Err
}

func (m *MockClient) PostResult(_ context.Context, payload ResultPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostCalls = append(m.PostCalls, payload)
	if len(m.PostReplies) == 0 {
		return nil
	}
	err := m.PostReplies[0]
	if len(m.PostReplies) > 1 {
		m.PostReplies = m.PostReplies[1:]
	}
	return err
}

// FetchCount returns the number of FetchProblems calls made.
func (m *MockClient) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchCalls)
}
