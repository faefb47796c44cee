package doclient

import (
	"fmt"
	"strings"

	"github.com/cowwoc/digitalocean-sub002/internal/client"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// New creates a DigitalOcean API client. The token is required; every other
// field of the configuration has a sensible default.
//
// The returned client is safe for concurrent use. Callers own its lifecycle:
// Close releases the connection pool, and operations issued afterwards fail
// fast with doapi.ErrClientClosed.
func New(config *doapi.Config) (doapi.Client, error) {
	if config == nil {
		return nil, doapi.ErrConfigRequired
	}

	if config.Token == "" {
		return nil, doapi.ErrTokenRequired
	}

	if config.BaseURL != "" {
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return apiClient, nil
}
