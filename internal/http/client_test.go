package http_test

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dohttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

func newTestClient(t *testing.T, handler nethttp.HandlerFunc, opts ...dohttp.Option) *dohttp.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append(opts, dohttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))

	return dohttp.NewClient(server.URL, "test-token", opts...)
}

func TestClientSendsAuthAndHeaders(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.Get(context.Background(), "/v2/account", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestClientPostSendsJSONBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "web-1", body["name"])

		w.WriteHeader(nethttp.StatusCreated)
		_, _ = w.Write([]byte(`{"droplet":{"id":1}}`))
	})

	resp, err := client.Post(context.Background(), "/v2/droplets", map[string]string{"name": "web-1"})
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
}

func TestClientQueryEncoding(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "web-1", r.URL.Query().Get("name"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	query := url.Values{}
	query.Set("name", "web-1")
	query.Set("page", "2")

	_, err := client.Get(context.Background(), "/v2/droplets", query)
	require.NoError(t, err)
}

func TestClientErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 access denied",
			statusCode: nethttp.StatusUnauthorized,
			body:       `{"id":"unauthorized","message":"Unable to authenticate you"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, doapi.IsAccessDenied(err))
			},
		},
		{
			name:       "404 not found",
			statusCode: nethttp.StatusNotFound,
			body:       `{"id":"not_found","message":"The resource you requested could not be found"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, doapi.IsNotFound(err))

				var notFound *doapi.NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Contains(t, notFound.URL, "/v2/droplets/999")
			},
		},
		{
			name:       "412 unsupported combination",
			statusCode: nethttp.StatusPreconditionFailed,
			body:       `{"id":"precondition_failed","message":"size s-32vcpu-192gb is not available in region nyc1"}`,
			check: func(t *testing.T, err error) {
				var unsupported *doapi.UnsupportedCombinationError
				assert.ErrorAs(t, err, &unsupported)
			},
		},
		{
			name:       "412 unknown message is a defect",
			statusCode: nethttp.StatusPreconditionFailed,
			body:       `{"id":"precondition_failed","message":"something new the client has never seen"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, doapi.IsUnexpectedResponse(err))
			},
		},
		{
			name:       "422 conflict",
			statusCode: nethttp.StatusUnprocessableEntity,
			body:       `{"id":"unprocessable_entity","message":"a droplet with that name already exists"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, doapi.IsConflict(err))
			},
		},
		{
			name:       "422 operation in progress",
			statusCode: nethttp.StatusUnprocessableEntity,
			body:       `{"id":"unprocessable_entity","message":"a resize is already in progress"}`,
			check: func(t *testing.T, err error) {
				var inProgress *doapi.OperationInProgressError
				assert.ErrorAs(t, err, &inProgress)
			},
		},
		{
			name:       "422 generic unprocessable",
			statusCode: nethttp.StatusUnprocessableEntity,
			body:       `{"id":"unprocessable_entity","message":"invalid region slug"}`,
			check: func(t *testing.T, err error) {
				var unprocessable *doapi.UnprocessableError
				require.ErrorAs(t, err, &unprocessable)
				assert.Equal(t, "invalid region slug", unprocessable.Message)
			},
		},
		{
			name:       "unknown status is a defect",
			statusCode: nethttp.StatusTeapot,
			body:       `short and stout`,
			check: func(t *testing.T, err error) {
				var unexpected *doapi.UnexpectedResponseError
				require.ErrorAs(t, err, &unexpected)
				assert.Equal(t, nethttp.MethodGet, unexpected.Method)
				assert.Equal(t, nethttp.StatusTeapot, unexpected.StatusCode)
				assert.Contains(t, unexpected.Body, "short and stout")
				assert.Contains(t, unexpected.URL, "/v2/droplets/999")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
				w.WriteHeader(testCase.statusCode)
				_, _ = w.Write([]byte(testCase.body))
			})

			resp, err := client.Get(context.Background(), "/v2/droplets/999", nil)
			require.Error(t, err)
			testCase.check(t, err)

			// The raw response stays available alongside the typed error.
			require.NotNil(t, resp)
			assert.Equal(t, testCase.statusCode, resp.StatusCode)
		})
	}
}

func TestClientTooManyRequests(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.Header().Set("RateLimit-Limit", "5000")
		w.Header().Set("RateLimit-Remaining", "0")
		w.Header().Set("Retry-After", "4")
		w.WriteHeader(nethttp.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"id":"too_many_requests","message":"API Rate limit exceeded"}`))
	})

	_, err := client.Get(context.Background(), "/v2/droplets", nil)
	require.Error(t, err)

	var tooMany *doapi.TooManyRequestsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 5000, tooMany.RateLimit.LimitPerHour)
	assert.Equal(t, 0, tooMany.RateLimit.Remaining)
	assert.Equal(t, 4*time.Second, tooMany.SleepFor)
	assert.True(t, doapi.IsTooManyRequests(err))
}

func TestClientTracksLastRateLimit(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.Header().Set("RateLimit-Limit", "5000")
		w.Header().Set("RateLimit-Burst-Limit", "250")
		w.Header().Set("RateLimit-Remaining", "4998")
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	assert.Nil(t, client.LastRateLimit())

	_, err := client.Get(context.Background(), "/v2/droplets", nil)
	require.NoError(t, err)

	limit := client.LastRateLimit()
	require.NotNil(t, limit)
	assert.Equal(t, 5000, limit.LimitPerHour)
	assert.Equal(t, 250, limit.LimitPerMinute)
	assert.Equal(t, 4998, limit.Remaining)
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(nethttp.StatusInternalServerError)
			return
		}

		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := dohttp.NewClient(server.URL, "test-token",
		dohttp.WithRetryConfig(2, time.Millisecond, 5*time.Millisecond))

	resp, err := client.Get(context.Background(), "/v2/droplets", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientClosedFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	client := newTestClient(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Close())
	require.NoError(t, client.Close()) // idempotent

	_, err := client.Get(context.Background(), "/v2/droplets", nil)
	assert.ErrorIs(t, err, doapi.ErrClientClosed)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClientContextCancellation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})

	client := newTestClient(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		close(started)
		<-r.Context().Done()
		w.WriteHeader(nethttp.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-started
		cancel()
	}()

	_, err := client.Get(ctx, "/v2/droplets", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClientCachesGetResponses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	handler := func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte(`{"droplets":[]}`))
	}

	cache := doapi.NewMemoryCache(10)
	client := newTestClient(t, handler, dohttp.WithCache(cache, time.Minute))

	ctx := context.Background()

	_, err := client.Get(ctx, "/v2/droplets", nil)
	require.NoError(t, err)

	resp, err := client.Get(ctx, "/v2/droplets", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"droplets":[]}`, string(resp.Body))
	assert.Equal(t, int32(1), calls.Load(), "second GET should be served from cache")

	// Writes invalidate the cache, so the next GET goes to the server.
	_, err = client.Post(ctx, "/v2/droplets", map[string]string{"name": "web-1"})
	require.NoError(t, err)

	_, err = client.Get(ctx, "/v2/droplets", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestMetadataClientNoAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(nethttp.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	t.Cleanup(server.Close)

	client := dohttp.NewMetadataClient(server.URL)

	resp, err := client.Get(context.Background(), "/metadata/v1/id", nil)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(resp.Body))
}
