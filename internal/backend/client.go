// Package backend talks to the typing-practice backend: reachability
// probing, problem fetching with retry, and result forwarding.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rnakai/typedrill/internal/problem"
)

// ResultPayload is the wire form of a completed session result.
type ResultPayload struct {
	StudyBookID  *string   `json:"studyBookId,omitempty"`
	StartedAt    time.Time `json:"startedAt"`
	DurationMs   int64     `json:"durationMs"`
	TotalChars   int       `json:"totalChars"`
	CorrectChars int       `json:"correctChars"`
	Language     string    `json:"language"`
	Score        float64   `json:"score"`
}

// Client is the transport-agnostic collaborator interface consumed by the
// session engine.
type Client interface {
	// Health returns nil when the backend answers 2xx on its
	// reachability endpoint.
	Health(ctx context.Context) error

	// FetchProblems retrieves the problem pool for one language. pool
	// must be PoolSystem or PoolUser; mixing happens a layer above.
	FetchProblems(ctx context.Context, language string, pool problem.Pool) ([]problem.Problem, error)

	// PostResult forwards a completed session result.
	PostResult(ctx context.Context, payload ResultPayload) error
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the backend at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &ErrTransientFetch{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ErrTransientFetch{Status: resp.StatusCode, Err: fmt.Errorf("health check failed")}
	}
	return nil
}

// problemWire is the JSON shape of one problem as served by the backend.
type problemWire struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Question    string `json:"question"`
	Explanation string `json:"explanation"`
	Category    string `json:"category"`
	Difficulty  int    `json:"difficulty"`
	CreatedAt   string `json:"createdAt"`
}

func (c *HTTPClient) FetchProblems(ctx context.Context, language string, pool problem.Pool) ([]problem.Problem, error) {
	u := fmt.Sprintf("%s/problems?language=%s&pool=%s",
		c.baseURL, url.QueryEscape(language), url.QueryEscape(string(pool)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ErrTransientFetch{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		// Fall through to decoding.
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		return nil, &ErrClientRejected{Status: resp.StatusCode, URL: u}
	default:
		return nil, &ErrTransientFetch{Status: resp.StatusCode, Err: fmt.Errorf("fetch problems")}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrTransientFetch{Err: err}
	}

	if err := validateProblemsPayload(body); err != nil {
		return nil, err
	}

	var wire []problemWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &ErrInvalidPayload{Err: err}
	}

	problems := make([]problem.Problem, 0, len(wire))
	for _, w := range wire {
		createdAt, err := time.Parse(time.RFC3339, w.CreatedAt)
		if err != nil {
			// Tolerate a missing or malformed timestamp; ordering
			// rules treat the zero time as oldest.
			createdAt = time.Time{}
		}
		problems = append(problems, problem.Problem{
			ID:          w.ID,
			Language:    w.Language,
			Question:    w.Question,
			Explanation: w.Explanation,
			Category:    w.Category,
			Difficulty:  w.Difficulty,
			CreatedAt:   createdAt,
		})
	}
	return problems, nil
}

func (c *HTTPClient) PostResult(ctx context.Context, payload ResultPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/typing-results", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &ErrTransientFetch{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		return &ErrClientRejected{Status: resp.StatusCode, URL: c.baseURL + "/typing-results"}
	default:
		return &ErrTransientFetch{Status: resp.StatusCode, Err: fmt.Errorf("post result")}
	}
}
