// Package retry is the single retry-policy utility for the codebase.
// Telegram sends, Cloudinary uploads and action-queue replays all go
// through the same policy instead of carrying their own backoff loops.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes a bounded exponential backoff with jitter.
type Policy struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	Jitter      time.Duration
}

// Default is used where a call site has no reason to deviate.
var Default = Policy{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      100 * time.Millisecond,
}

// Do runs fn under the policy. fn signals a retryable failure by returning
// Retryable(err); any other error aborts immediately.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.NewExponential(p.BaseDelay)
	if p.Jitter > 0 {
		b = retry.WithJitter(p.Jitter, b)
	}
	if p.MaxAttempts > 0 {
		// WithMaxRetries counts retries after the first attempt.
		b = retry.WithMaxRetries(p.MaxAttempts-1, b)
	}
	return retry.Do(ctx, b, fn)
}

// Retryable marks err so the policy will retry it.
func Retryable(err error) error {
	return retry.RetryableError(err)
}
