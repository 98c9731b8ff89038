// Package retry implements the exponential backoff shared by the AI adapters.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"
)

// Defaults match the upstream API guidance: 1s, 2s, 4s ... capped at 30s,
// plus up to 500ms of jitter.
const (
	DefaultMaxRetries = 4
	DefaultCap        = 30 * time.Second
	DefaultMaxJitter  = 500 * time.Millisecond
)

// ErrExhausted is returned when every attempt failed with a retryable error.
var ErrExhausted = errors.New("retries exhausted")

// StatusError is a non-2xx API response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// IsRetryableStatus reports whether an HTTP status should be retried:
// 429 and 500, 502, 503, 504.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsRetryable classifies an error from one attempt.
// Retryable: retryable statuses and transport timeouts.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return IsRetryableStatus(se.StatusCode)
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Policy configures retries.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// Cap bounds the exponential part of the delay.
	Cap time.Duration

	// MaxJitter bounds the uniform random delay added to each sleep.
	MaxJitter time.Duration

	// Sleep waits for d or until ctx is done. Replaceable in tests.
	Sleep func(ctx context.Context, d time.Duration) error

	// Jitter returns a random duration in [0, max). Replaceable in tests.
	Jitter func(max time.Duration) time.Duration
}

// DefaultPolicy returns the default policy with real sleep and jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		Cap:        DefaultCap,
		MaxJitter:  DefaultMaxJitter,
	}
}

// withDefaults fills unset fields. A negative MaxRetries disables retries.
func (p Policy) withDefaults() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Cap <= 0 {
		p.Cap = DefaultCap
	}
	if p.Sleep == nil {
		p.Sleep = sleepContext
	}
	if p.Jitter == nil {
		p.Jitter = randomJitter
	}
	return p
}

// Delay returns the sleep before retry number attempt (0-based):
// min(2^attempt seconds, Cap) plus jitter.
func (p Policy) Delay(attempt int) time.Duration {
	p = p.withDefaults()
	base := p.Cap
	if attempt < 16 {
		if d := time.Duration(1<<attempt) * time.Second; d < p.Cap {
			base = d
		}
	}
	if p.MaxJitter > 0 {
		base += p.Jitter(p.MaxJitter)
	}
	return base
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// retries run out. Exhaustion wraps the last error with ErrExhausted.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p = p.withDefaults()
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt+1, err)
		}
		if serr := p.Sleep(ctx, p.Delay(attempt)); serr != nil {
			return serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	return rand.N(max)
}
