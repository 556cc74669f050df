package httpclient

import (
	"errors"
	"fmt"
)

// ErrRateLimited signals that the sliding-window quota was exhausted.
// Admission failures are never retried; the quota will not free up within
// the lifetime of a single call.
var ErrRateLimited = errors.New("rate limit exceeded")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("http status %d", e.Status)
	}
	return fmt.Sprintf("http status %d: %s", e.Status, e.Reason)
}

// RequestError wraps the final failure after all attempts were consumed.
type RequestError struct {
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
