package client

import (
	"context"
	"fmt"
	"strings"

	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
)

// MetadataClient implements doapi.MetadataClient against the droplet-local
// metadata service. The service answers plain text and is only reachable
// from inside a managed instance, so the underlying executor uses the short
// metadata timeout instead of the default.
type MetadataClient struct {
	httpClient *inthttp.Client
}

// NewMetadataClient creates a metadata client on the given executor, which
// must have been built with inthttp.NewMetadataClient.
func NewMetadataClient(httpClient *inthttp.Client) *MetadataClient {
	return &MetadataClient{httpClient: httpClient}
}

// DropletID returns the ID of the droplet this process runs on.
func (c *MetadataClient) DropletID(ctx context.Context) (string, error) {
	return c.text(ctx, "/metadata/v1/id")
}

// Region returns the region slug of the droplet this process runs on.
func (c *MetadataClient) Region(ctx context.Context) (string, error) {
	return c.text(ctx, "/metadata/v1/region")
}

// PublicIPv4 returns the droplet's public IPv4 address.
func (c *MetadataClient) PublicIPv4(ctx context.Context) (string, error) {
	return c.text(ctx, "/metadata/v1/interfaces/public/0/ipv4/address")
}

func (c *MetadataClient) text(ctx context.Context, path string) (string, error) {
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return "", fmt.Errorf("querying metadata service: %w", err)
	}

	return strings.TrimSpace(string(resp.Body)), nil
}
