package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cowwoc/digitalocean-sub002/internal/constants"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// parseRateLimit extracts the provider's rate-limit state from response
// headers. Malformed or missing headers parse to zero values: the tracker
// fails open and lets the next request produce a more informative error.
func parseRateLimit(headers http.Header) doapi.RateLimit {
	limit := doapi.RateLimit{
		LimitPerHour:   parseIntHeader(headers, constants.HeaderRateLimit),
		LimitPerMinute: parseIntHeader(headers, constants.HeaderRateLimitBurst),
		Remaining:      parseIntHeader(headers, constants.HeaderRateLimitRemaining),
	}

	if epoch := parseIntHeader(headers, constants.HeaderRateLimitReset); epoch > 0 {
		limit.Reset = time.Unix(int64(epoch), 0)
	}

	if seconds := parseIntHeader(headers, constants.HeaderRetryAfter); seconds > 0 {
		limit.RetryAfter = time.Duration(seconds) * time.Second
	}

	return limit
}

func parseIntHeader(headers http.Header, name string) int {
	value := headers.Get(name)
	if value == "" {
		return 0
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}

	return parsed
}
