package backend

import (
	"fmt"
	"time"
)

// ErrBackendUnavailable indicates the reachability probe gave up before
// the backend answered. Fatal for the current initialization attempt.
type ErrBackendUnavailable struct {
	Elapsed time.Duration
	Err     error
}

func (e *ErrBackendUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend unavailable after %s: %v", e.Elapsed, e.Err)
	}
	return fmt.Sprintf("backend unavailable after %s", e.Elapsed)
}

func (e *ErrBackendUnavailable) Unwrap() error { return e.Err }

// ErrClientRejected indicates a 4xx response. Retrying cannot help, so
// fetches fail fast on it.
type ErrClientRejected struct {
	Status int
	URL    string
}

func (e *ErrClientRejected) Error() string {
	return fmt.Sprintf("request rejected with HTTP %d: %s", e.Status, e.URL)
}

// ErrTransientFetch indicates a network failure or 5xx response that is
// worth retrying with backoff. Status is 0 for transport-level errors.
type ErrTransientFetch struct {
	Status int
	Err    error
}

func (e *ErrTransientFetch) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transient fetch failure (HTTP %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transient fetch failure: %v", e.Err)
}

func (e *ErrTransientFetch) Unwrap() error { return e.Err }

// ErrInvalidPayload indicates the backend responded 2xx but the body did
// not match the expected shape. Treated as non-retryable.
type ErrInvalidPayload struct {
	Err error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid backend payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }
