// Package retry implements the bounded retry policy applied to every
// per-item network operation.
//
// A Policy wraps an operation tied to one item identifier and classifies
// its errors: transient failures (connection errors, timeouts) are retried
// with a fixed delay up to MaxAttempts total tries, anything else abandons
// the item on the first attempt. The policy never panics and never lets
// one item's failure leak into a sibling item; callers read the Outcome
// and final error instead.
//
//	policy := retry.NewPolicy(5, 10*time.Second)
//	outcome, err := policy.Do(ctx, "abc123", func(ctx context.Context) error {
//	    return fetchSomething(ctx)
//	})
//	if outcome != retry.OutcomeSuccess {
//	    log("post skipped: abc123:", err)
//	}
package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

// Class is the retryability classification of an error.
type Class int

const (
	// ClassTransient errors are worth another attempt.
	ClassTransient Class = iota

	// ClassFatal errors abandon the item immediately.
	ClassFatal
)

// Classifier decides whether an error is transient or fatal.
type Classifier func(error) Class

// Outcome is the terminal state of a wrapped operation.
type Outcome int

const (
	// OutcomeSuccess means some attempt returned nil.
	OutcomeSuccess Outcome = iota

	// OutcomeAbandonedTransient means every attempt hit a transient error
	// and all attempts were used up.
	OutcomeAbandonedTransient

	// OutcomeAbandonedFatal means a non-transient error ended the
	// operation on its first occurrence.
	OutcomeAbandonedFatal
)

// Policy is a bounded fixed-delay retry policy.
type Policy struct {
	// MaxAttempts is the total number of tries, first attempt included.
	MaxAttempts int

	// Delay is the fixed pause between attempts.
	Delay time.Duration

	// Classify maps errors to retryability. Nil means DefaultClassifier.
	Classify Classifier
}

// NewPolicy returns a Policy with the default classifier.
func NewPolicy(maxAttempts int, delay time.Duration) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		Delay:       delay,
		Classify:    DefaultClassifier,
	}
}

// Do runs op under the policy for the item identified by id.
//
// Success at any attempt short-circuits the remaining retries. The returned
// error is the final error for abandoned outcomes and nil on success; it is
// reported, never re-raised, by the caller.
func (p *Policy) Do(ctx context.Context, id string, op func(context.Context) error) (Outcome, error) {
	classify := p.Classify
	if classify == nil {
		classify = DefaultClassifier
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return OutcomeSuccess, nil
		}

		if classify(err) != ClassTransient {
			return OutcomeAbandonedFatal, err
		}

		if attempt < p.MaxAttempts {
			select {
			case <-ctx.Done():
				return OutcomeAbandonedFatal, ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	return OutcomeAbandonedTransient, err
}

// DefaultClassifier treats connection-level and timeout errors as
// transient and everything else, including context cancellation, as fatal.
func DefaultClassifier(err error) Class {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassFatal
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassTransient
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ClassTransient
	}

	// url.Error wraps transport failures that aren't net.Errors, e.g. an
	// EOF on a half-closed connection.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassTransient
	}

	return ClassFatal
}
