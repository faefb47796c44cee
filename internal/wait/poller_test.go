package wait_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowwoc/digitalocean-sub002/internal/wait"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

type fakeResource struct {
	ID    int
	State string
}

func newTestBackoff(t *testing.T) *wait.Backoff {
	t.Helper()

	backoff, err := wait.NewBackoff(time.Millisecond, 5*time.Millisecond, 2.0)
	require.NoError(t, err)

	return backoff
}

func TestPollerReachesTarget(t *testing.T) {
	t.Parallel()

	states := []string{"new", "new", "active"}

	var calls atomic.Int32

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			state := states[calls.Add(1)-1]

			return &fakeResource{ID: 42, State: state}, state, nil
		},
		Target:       "active",
		Timeout:      time.Second,
		Backoff:      newTestBackoff(t),
		ResourceName: "droplet 42",
	}

	resource, err := poller.Wait(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resource)
	assert.Equal(t, "active", resource.State)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPollerNotFoundIsTarget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			if calls.Add(1) < 3 {
				return &fakeResource{State: "deleting"}, "deleting", nil
			}

			return nil, "", &doapi.NotFoundError{URL: "http://example.test/v2/droplets/42"}
		},
		Target:           "deleted",
		NotFoundIsTarget: true,
		Timeout:          time.Second,
		Backoff:          newTestBackoff(t),
		ResourceName:     "droplet 42",
	}

	resource, err := poller.Wait(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resource)
}

func TestPollerNotFoundWithoutFlagFails(t *testing.T) {
	t.Parallel()

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			return nil, "", &doapi.NotFoundError{URL: "http://example.test/v2/droplets/42"}
		},
		Target:       "active",
		Timeout:      time.Second,
		Backoff:      newTestBackoff(t),
		ResourceName: "droplet 42",
	}

	_, err := poller.Wait(context.Background())
	assert.True(t, doapi.IsNotFound(err))
}

func TestPollerTimeout(t *testing.T) {
	t.Parallel()

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			return &fakeResource{State: "new"}, "new", nil
		},
		Target:       "active",
		Timeout:      20 * time.Millisecond,
		Backoff:      newTestBackoff(t),
		ResourceName: "droplet 42",
	}

	started := time.Now()
	_, err := poller.Wait(context.Background())
	elapsed := time.Since(started)

	var timeout *doapi.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "droplet 42", timeout.Resource)
	assert.Equal(t, "active", timeout.Target)
	assert.Equal(t, "new", timeout.LastState)
	assert.Equal(t, 20*time.Millisecond, timeout.Quota)
	assert.True(t, doapi.IsTimeout(err))

	// The loop must not overshoot the budget by more than one iteration.
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestPollerRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			if calls.Add(1) == 1 {
				return nil, "", &doapi.TooManyRequestsError{SleepFor: 2 * time.Millisecond}
			}

			return &fakeResource{State: "active"}, "active", nil
		},
		Target:       "active",
		Timeout:      time.Second,
		Backoff:      newTestBackoff(t),
		ResourceName: "droplet 42",
	}

	resource, err := poller.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "active", resource.State)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPollerFatalErrorStopsLoop(t *testing.T) {
	t.Parallel()

	fatal := &doapi.AccessDeniedError{Message: "Unable to authenticate you"}

	var calls atomic.Int32

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			calls.Add(1)

			return nil, "", fatal
		},
		Target:       "active",
		Timeout:      time.Second,
		Backoff:      newTestBackoff(t),
		ResourceName: "droplet 42",
	}

	_, err := poller.Wait(context.Background())
	require.Error(t, err)

	var denied *doapi.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPollerContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	backoff, err := wait.NewBackoff(time.Minute, time.Minute, 2.0)
	require.NoError(t, err)

	poller := &wait.Poller[fakeResource]{
		Fetch: func(_ context.Context) (*fakeResource, string, error) {
			return &fakeResource{State: "new"}, "new", nil
		},
		Target:       "active",
		Timeout:      time.Hour,
		Backoff:      backoff,
		ResourceName: "droplet 42",
	}

	done := make(chan error, 1)

	go func() {
		_, waitErr := poller.Wait(ctx)
		done <- waitErr
	}()

	cancel()

	select {
	case waitErr := <-done:
		assert.True(t, errors.Is(waitErr, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}
