package retail

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MaxBackoff caps the wait between attempts regardless of the attempt number.
const MaxBackoff = 60 * time.Second

// ErrRetriesExhausted is wrapped into the error returned once every attempt failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// StatusError is a non-200 response from the pricing API.
type StatusError struct {
	StatusCode int
	URL        string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RetryPolicy is the single retry rule used for every page request.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(err error) bool
}

// DefaultRetryPolicy retries rate limiting, server errors and transport
// failures with exponential backoff capped at maxBackoff.
func DefaultRetryPolicy(maxAttempts int, maxBackoff time.Duration) RetryPolicy {
	if maxBackoff <= 0 {
		maxBackoff = MaxBackoff
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     ExponentialBackoff(maxBackoff),
		Retryable:   IsRetryable,
	}
}

// ExponentialBackoff waits min(2^attempt seconds, max).
func ExponentialBackoff(max time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		// 2^6 seconds already exceeds the default cap; avoid shifting into overflow.
		if attempt > 30 {
			return max
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if backoff > max {
			backoff = max
		}
		return backoff
	}
}

// IsRetryable treats status errors by code and everything else that is not a
// decode failure as a transient transport error. Interrupted body reads are
// transport errors.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var decodeErr *DecodeError
	return !errors.As(err, &decodeErr)
}

// DecodeError wraps a complete response body that is not valid JSON for the page.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func retryReason(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return "rate_limited"
		}
		return "server_error"
	}
	return "network"
}
