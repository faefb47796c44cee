// Package http implements the request executor shared by all resource
// clients: authenticated requests over a retrying transport, rate-limit
// header tracking, and classification of provider responses into the typed
// error taxonomy.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/cowwoc/digitalocean-sub002/internal/constants"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

const defaultUserAgent = "doapi-go"

// Request describes one API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// Timeout overrides the client's transport timeout for this request.
	Timeout time.Duration
}

// Response is one parsed API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RateLimit  doapi.RateLimit
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger doapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds a single request (connect + response).
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig configures transport-level retries for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithCache serves GET responses from the given cache for up to ttl. Write
// requests invalidate the cache.
func WithCache(cache doapi.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache

		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// Client issues authenticated requests against one API endpoint. It is safe
// for concurrent use; every request is stateless with respect to prior
// calls. Close releases the connection pool exactly once, after which all
// requests fail fast with doapi.ErrClientClosed.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *retryablehttp.Client
	logger     doapi.Logger
	debug      bool
	cache      doapi.Cache
	cacheTTL   time.Duration
	closed     atomic.Bool

	mu            sync.RWMutex
	lastRateLimit *doapi.RateLimit
}

// NewClient creates a client for the main API endpoint.
func NewClient(baseURL, token string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		userAgent:  defaultUserAgent,
		httpClient: retryClient,
		cacheTTL:   constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// NewMetadataClient creates a client for the droplet-local metadata service.
// The expected answer is either fast or the service is simply absent, so the
// timeout is drastically shorter than the default and nothing is retried.
func NewMetadataClient(baseURL string, opts ...Option) *Client {
	client := NewClient(baseURL, "", opts...)
	client.httpClient.RetryMax = 0
	client.httpClient.HTTPClient.Timeout = constants.MetadataTimeout

	return client
}

// Logger returns the configured logger, or nil.
func (c *Client) Logger() doapi.Logger {
	return c.logger
}

// LastRateLimit returns the rate-limit state observed on the most recent
// response, or nil before the first request.
func (c *Client) LastRateLimit() *doapi.RateLimit {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.lastRateLimit == nil {
		return nil
	}

	limit := *c.lastRateLimit

	return &limit
}

// Close releases pooled connections. Subsequent requests fail fast with
// doapi.ErrClientClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	c.httpClient.HTTPClient.CloseIdleConnections()

	if closer, ok := c.cache.(interface{ Close() error }); ok {
		return closer.Close()
	}

	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// Do executes one request and classifies the response. Error statuses return
// both the raw response and the typed error so callers can inspect either.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.closed.Load() {
		return nil, doapi.ErrClientClosed
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	cacheKey := req.Path
	if len(req.Query) > 0 {
		cacheKey += "?" + req.Query.Encode()
	}

	if req.Method == http.MethodGet && c.cache != nil {
		if entry, err := c.cache.Get(ctx, cacheKey); err == nil {
			return &Response{StatusCode: http.StatusOK, Body: entry.Data}, nil
		}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var rawBody []byte

	if req.Body != nil {
		var err error

		rawBody, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if rawBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"body":   string(rawBody),
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Transient I/O failure or context cancellation; safe to surface
		// as-is, the caller owns the retry decision.
		return nil, fmt.Errorf("sending %s %s: %w", req.Method, fullURL, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	rateLimit := parseRateLimit(httpResp.Header)
	c.recordRateLimit(rateLimit)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": httpResp.StatusCode,
			"body":   string(body),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		RateLimit:  rateLimit,
	}

	err = classifyResponse(req.Method, fullURL, resp)
	if err != nil {
		return resp, err
	}

	c.updateCache(ctx, req.Method, cacheKey, resp)

	return resp, nil
}

func (c *Client) recordRateLimit(limit doapi.RateLimit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastRateLimit = &limit
}

// updateCache stores successful GET responses and invalidates everything on
// writes. Invalidation is deliberately coarse: correctness over hit rate.
func (c *Client) updateCache(ctx context.Context, method, cacheKey string, resp *Response) {
	if c.cache == nil {
		return
	}

	if method == http.MethodGet {
		if resp.StatusCode == http.StatusOK {
			_ = c.cache.Set(ctx, cacheKey, &doapi.CacheEntry{
				Data:      resp.Body,
				ExpiresAt: time.Now().Add(c.cacheTTL),
				ETag:      resp.Headers.Get("ETag"),
			})
		}

		return
	}

	_ = c.cache.Clear(ctx)
}

// Phrases the provider uses inside otherwise generic 4xx bodies to signal
// domain-specific failures. Matching is case-insensitive.
var (
	conflictPhrases = []string{
		"already exists",
		"name is already in use",
	}

	inProgressPhrases = []string{
		"already in progress",
	}

	unsupportedPhrases = []string{
		"is not available in",
		"is not supported in",
		"invalid combination",
	}
)

func matchesAny(message string, phrases []string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}

	return false
}

// classifyResponse maps an HTTP status and JSON error body onto the typed
// error taxonomy. A status outside the known set is a contract violation
// and yields an UnexpectedResponseError; that error is a defect, not a
// runtime condition, and must never be silently swallowed.
func classifyResponse(method, fullURL string, resp *Response) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	}

	apiErr := parseAPIError(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &doapi.AccessDeniedError{Message: apiErr.Message}

	case http.StatusNotFound:
		return &doapi.NotFoundError{URL: fullURL, Message: apiErr.Message}

	case http.StatusPreconditionFailed:
		// Only the documented message set is recognized; anything else under
		// 412 is treated as fatal until the provider's message catalog says
		// otherwise.
		if matchesAny(apiErr.Message, unsupportedPhrases) {
			return &doapi.UnsupportedCombinationError{Message: apiErr.Message}
		}

		return &doapi.UnexpectedResponseError{
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}

	case http.StatusUnprocessableEntity:
		if matchesAny(apiErr.Message, conflictPhrases) {
			return &doapi.ConflictError{Message: apiErr.Message}
		}

		if matchesAny(apiErr.Message, inProgressPhrases) {
			return &doapi.OperationInProgressError{Message: apiErr.Message}
		}

		return &doapi.UnprocessableError{ID: apiErr.ID, Message: apiErr.Message}

	case http.StatusTooManyRequests:
		return &doapi.TooManyRequestsError{
			RateLimit: resp.RateLimit,
			SleepFor:  resp.RateLimit.SleepDuration(time.Now()),
		}

	default:
		return &doapi.UnexpectedResponseError{
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}
}

// parseAPIError decodes the provider's {"id","message"} error body. A body
// that does not parse still classifies by status code alone.
func parseAPIError(resp *Response) *doapi.APIError {
	apiErr := &doapi.APIError{StatusCode: resp.StatusCode}

	if len(resp.Body) > 0 {
		_ = json.Unmarshal(resp.Body, apiErr)
	}

	return apiErr
}
