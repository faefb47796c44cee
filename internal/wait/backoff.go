// Package wait provides the primitives bounding long-running operations:
// a geometric backoff policy, an immutable time budget, and a generic
// poll-until-state loop built on both.
package wait

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMultiplierTooSmall rejects backoff multipliers below 1.
	ErrMultiplierTooSmall = errors.New("backoff multiplier must be >= 1")

	// ErrMaxBelowInitial rejects a maximum delay smaller than the initial one.
	ErrMaxBelowInitial = errors.New("maximum delay must be >= initial delay")

	// ErrInitialNotPositive rejects non-positive initial delays.
	ErrInitialNotPositive = errors.New("initial delay must be positive")
)

// Backoff produces a monotonically non-decreasing sequence of delays:
// geometric growth capped at a ceiling. One instance serves one poll loop;
// instances are not safe for concurrent use and are not meant to be shared.
type Backoff struct {
	next       time.Duration
	max        time.Duration
	multiplier float64
}

// NewBackoff creates a backoff policy starting at initial and growing by
// multiplier up to max.
func NewBackoff(initial, max time.Duration, multiplier float64) (*Backoff, error) {
	if initial <= 0 {
		return nil, ErrInitialNotPositive
	}

	if multiplier < 1 {
		return nil, ErrMultiplierTooSmall
	}

	if max < initial {
		return nil, ErrMaxBelowInitial
	}

	return &Backoff{next: initial, max: max, multiplier: multiplier}, nil
}

// Next returns the current delay and advances the sequence. The first call
// returns the initial delay.
func (b *Backoff) Next() time.Duration {
	delay := b.next

	grown := time.Duration(float64(b.next) * b.multiplier)
	if grown > b.max {
		grown = b.max
	}

	b.next = grown

	return delay
}

// Sleep blocks for the given duration or until the context is canceled,
// whichever comes first. Cancellation propagates the context's error.
func Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
