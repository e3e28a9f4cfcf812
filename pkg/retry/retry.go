// Package retry holds the bounded retry policy used at external I/O
// boundaries such as evidence uploads.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a bounded exponential backoff.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// MaxDelay caps a single wait. Zero means no cap.
	MaxDelay time.Duration
}

// DefaultPolicy is three attempts, waiting 2s then 4s.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   2 * time.Second,
	Multiplier:  2,
}

func (p Policy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
	} else {
		b.MaxInterval = time.Duration(1<<63 - 1)
	}
	b.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithMaxRetries(b, uint64(attempts-1))
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a Permanent error, or the policy is
// exhausted. The sequence is detached from ctx cancellation: once started it
// runs to completion or final failure. op still receives ctx's values.
func (p Policy) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	detached := context.WithoutCancel(ctx)
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return op(detached)
	}, backoff.WithContext(p.backOff(), detached), func(err error, wait time.Duration) {
		slog.Warn("Retrying operation", "operation", name, "attempt", attempt, "wait", wait, "error", err)
	})
}
