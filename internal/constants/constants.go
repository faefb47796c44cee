package constants

import "time"

// Provider endpoints.
const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.digitalocean.com"

	// DefaultMetadataURL is the droplet-local metadata service. It is only
	// reachable from inside a managed instance.
	DefaultMetadataURL = "http://169.254.169.254"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout bounds a single API request (connect + response).
	DefaultHTTPTimeout = 30 * time.Second

	// MetadataTimeout bounds metadata-service requests. The service either
	// answers fast or is absent, so this must not inherit the default.
	MetadataTimeout = 1 * time.Second
)

// Transport retry limits.
const (
	// DefaultRetryMax is the transport-level retry cap for transient failures.
	DefaultRetryMax = 2

	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between transport retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Polling intervals and budgets.
const (
	// DefaultPollInterval is the initial delay between poll iterations.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollMaxInterval caps the backoff between poll iterations.
	DefaultPollMaxInterval = 15 * time.Second

	// PollBackoffMultiplier is the geometric growth factor of the poll backoff.
	PollBackoffMultiplier = 2.0

	// DefaultPollTimeout bounds a Wait* call when the caller passes zero.
	DefaultPollTimeout = 10 * time.Minute

	// ProgressLogInterval limits progress logging to one line per interval,
	// regardless of how many poll iterations occur within it.
	ProgressLogInterval = 30 * time.Second
)

// Rate-limit response headers.
const (
	// HeaderRateLimit reports the hourly request quota.
	HeaderRateLimit = "RateLimit-Limit"

	// HeaderRateLimitBurst reports the per-minute burst quota.
	HeaderRateLimitBurst = "RateLimit-Burst-Limit"

	// HeaderRateLimitRemaining reports requests left in the current window.
	HeaderRateLimitRemaining = "RateLimit-Remaining"

	// HeaderRateLimitReset reports the window end as unix epoch seconds.
	HeaderRateLimitReset = "RateLimit-Reset"

	// HeaderRetryAfter is the server's explicit wait instruction in seconds.
	HeaderRetryAfter = "Retry-After"
)

// Cache defaults.
const (
	// DefaultCacheTTL bounds how long a GET response is served from cache.
	DefaultCacheTTL = 1 * time.Minute
)
