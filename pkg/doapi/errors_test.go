package doapi_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{
			name:      "not found",
			err:       &doapi.NotFoundError{URL: "/v2/droplets/42"},
			predicate: doapi.IsNotFound,
		},
		{
			name:      "access denied",
			err:       &doapi.AccessDeniedError{Message: "Unable to authenticate you"},
			predicate: doapi.IsAccessDenied,
		},
		{
			name:      "conflict",
			err:       &doapi.ConflictError{Message: "name already in use"},
			predicate: doapi.IsConflict,
		},
		{
			name:      "too many requests",
			err:       &doapi.TooManyRequestsError{SleepFor: time.Second},
			predicate: doapi.IsTooManyRequests,
		},
		{
			name:      "pending deletion",
			err:       &doapi.PendingDeletionError{Name: "web-1"},
			predicate: doapi.IsPendingDeletion,
		},
		{
			name:      "timeout",
			err:       &doapi.TimeoutError{Resource: "droplet 42"},
			predicate: doapi.IsTimeout,
		},
		{
			name:      "unexpected response",
			err:       &doapi.UnexpectedResponseError{StatusCode: 418},
			predicate: doapi.IsUnexpectedResponse,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, testCase.predicate(testCase.err))

			// Predicates unwrap.
			wrapped := fmt.Errorf("fetching droplet: %w", testCase.err)
			assert.True(t, testCase.predicate(wrapped))

			// And reject unrelated errors.
			assert.False(t, testCase.predicate(errors.New("something else")))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	timeout := &doapi.TimeoutError{
		Resource:  "droplet 42",
		Target:    "active",
		LastState: "new",
		Quota:     5 * time.Minute,
	}
	assert.Contains(t, timeout.Error(), "5m0s")
	assert.Contains(t, timeout.Error(), "droplet 42")
	assert.Contains(t, timeout.Error(), `"active"`)
	assert.Contains(t, timeout.Error(), `"new"`)

	unexpected := &doapi.UnexpectedResponseError{
		Method:     "GET",
		URL:        "https://api.digitalocean.com/v2/droplets/42",
		StatusCode: 418,
		Body:       "short and stout",
	}
	assert.Contains(t, unexpected.Error(), "GET")
	assert.Contains(t, unexpected.Error(), "418")
	assert.Contains(t, unexpected.Error(), "short and stout")

	pending := &doapi.PendingDeletionError{Name: "web-1"}
	assert.Contains(t, pending.Error(), `"web-1"`)

	tooMany := &doapi.TooManyRequestsError{
		RateLimit: doapi.RateLimit{LimitPerHour: 5000, LimitPerMinute: 250},
		SleepFor:  4 * time.Second,
	}
	assert.Contains(t, tooMany.Error(), "5000")
	assert.Contains(t, tooMany.Error(), "4s")
}

func TestAPIErrorMessage(t *testing.T) {
	t.Parallel()

	err := &doapi.APIError{ID: "not_found", Message: "droplet not found", StatusCode: 404}
	assert.Equal(t, "not_found: droplet not found (status: 404)", err.Error())
}
