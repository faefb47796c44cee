package wait

import (
	"context"
	"errors"
	"time"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// Poller repeatedly fetches a resource until it reaches the target state or
// the time budget is exhausted. One Poller serves one wait call.
type Poller[T any] struct {
	// Fetch returns the resource's current value and state.
	Fetch func(ctx context.Context) (*T, string, error)

	// Target is the state that terminates the loop successfully.
	Target string

	// NotFoundIsTarget treats a not-found response as having reached the
	// target. Set when polling for deletion: once the resource is gone the
	// provider reports 404, which confirms rather than contradicts the goal.
	NotFoundIsTarget bool

	// Timeout bounds the whole loop.
	Timeout time.Duration

	// Backoff spaces the poll iterations. Required.
	Backoff *Backoff

	// Logger receives progress lines. Nil disables them.
	Logger doapi.Logger

	// ResourceName names the resource in progress lines.
	ResourceName string

	// ProgressInterval limits progress logging to one line per interval.
	// Zero disables progress logging.
	ProgressInterval time.Duration
}

// Wait runs the loop. It returns the freshly fetched resource once the
// target state is reached, a doapi.TimeoutError when the budget runs out,
// and the underlying error for any non-retryable fetch failure. A rate-limit
// rejection is retryable: the loop sleeps the server-indicated duration
// instead of the backoff delay.
func (p *Poller[T]) Wait(ctx context.Context) (*T, error) {
	budget := NewBudget(p.Timeout)
	started := time.Now()
	lastProgress := started
	lastState := ""

	for {
		resource, state, err := p.Fetch(ctx)

		switch {
		case err == nil:
			if state == p.Target {
				return resource, nil
			}

			lastState = state

		case p.NotFoundIsTarget && doapi.IsNotFound(err):
			return resource, nil

		case !retryable(err):
			return nil, err
		}

		delay := p.Backoff.Next()

		var tooMany *doapi.TooManyRequestsError
		if errors.As(err, &tooMany) && tooMany.SleepFor > delay {
			delay = tooMany.SleepFor
		}

		if budget.Expired() {
			return nil, &doapi.TimeoutError{
				Resource:  p.ResourceName,
				Target:    p.Target,
				LastState: lastState,
				Quota:     budget.Quota(),
			}
		}

		if remaining := budget.TimeLeft(); delay > remaining {
			delay = remaining
		}

		p.logProgress(&lastProgress, started, lastState)

		err = Sleep(ctx, delay)
		if err != nil {
			return nil, err
		}
	}
}

// retryable reports whether the poll loop may simply try again. Only the
// rate-limit rejection is folded into the loop; every other error belongs
// to the caller.
func retryable(err error) bool {
	var tooMany *doapi.TooManyRequestsError

	return errors.As(err, &tooMany)
}

// logProgress emits at most one line per ProgressInterval so tight backoff
// schedules do not flood the log during long waits.
func (p *Poller[T]) logProgress(lastProgress *time.Time, started time.Time, lastState string) {
	if p.Logger == nil || p.ProgressInterval <= 0 {
		return
	}

	now := time.Now()
	if now.Sub(*lastProgress) < p.ProgressInterval {
		return
	}

	*lastProgress = now

	p.Logger.Info("still waiting", map[string]interface{}{
		"resource":     p.ResourceName,
		"target_state": p.Target,
		"last_state":   lastState,
		"elapsed":      now.Sub(started).Round(time.Second).String(),
	})
}
