package wait

import "time"

// Budget tracks the deadline of a blocking operation. The deadline is fixed
// at construction and never mutated; a Budget is created at the start of an
// operation, queried repeatedly, and discarded when the operation ends.
type Budget struct {
	quota    time.Duration
	deadline time.Time
}

// NewBudget creates a budget expiring quota from now.
func NewBudget(quota time.Duration) *Budget {
	return &Budget{quota: quota, deadline: time.Now().Add(quota)}
}

// TimeLeft returns the time remaining before the deadline. A negative value
// signals expiry.
func (b *Budget) TimeLeft() time.Duration {
	return time.Until(b.deadline)
}

// Quota returns the original quota, for timeout error messages.
func (b *Budget) Quota() time.Duration {
	return b.quota
}

// Expired reports whether the deadline has passed.
func (b *Budget) Expired() bool {
	return b.TimeLeft() <= 0
}
