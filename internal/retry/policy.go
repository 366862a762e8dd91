// Package retry retries transient failures with a backoff policy.
package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

// Mode selects how the delay grows between attempts.
type Mode string

const (
	Fixed       Mode = "fixed"
	Linear      Mode = "linear"
	Exponential Mode = "exponential"
)

// Policy holds backoff settings. The zero value never retries.
type Policy struct {
	Mode       Mode
	Initial    time.Duration // first delay
	Max        time.Duration // cap for growth
	MaxRetries int           // attempts after the first failure
}

// DefaultPolicy suits short remote reads: exponential from 250ms, capped at
// 2s, two retries.
func DefaultPolicy() Policy {
	return Policy{Mode: Exponential, Initial: 250 * time.Millisecond, Max: 2 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy; zero or unknown values fall back to DefaultPolicy.
func NewPolicy(mode Mode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case Fixed, Linear, Exponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the wait before retry number n (1-based).
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case Fixed:
		return p.Initial
	case Exponential:
		if n > 32 {
			return p.Max
		}
		d = p.Initial << (n - 1)
	default:
		d = time.Duration(n) * p.Initial
	}
	if d > p.Max || d <= 0 {
		return p.Max
	}
	return d
}

// Do calls fn until it succeeds, returns an error that is not retryable,
// or the policy runs out of retries. Waiting stops when ctx is done.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryable(err) {
			return err
		}
		t := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}

func retryable(err error) bool {
	ce, ok := errors.AsClassified(err)
	return ok && ce.CanRetry()
}
