package client

import (
	"time"

	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
)

// NewTestClient creates a client against a test server, with a fast poll
// schedule so wait loops finish quickly under httptest.
func NewTestClient(baseURL string) *Client {
	httpClient := inthttp.NewClient(baseURL, "test-token",
		inthttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))

	poll := pollSettings{
		interval:    time.Millisecond,
		maxInterval: 5 * time.Millisecond,
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}

	client.droplets = NewDropletsClient(httpClient, poll)
	client.databases = NewDatabasesClient(httpClient, poll)
	client.kubernetes = NewKubernetesClient(httpClient, poll)
	client.registry = NewRegistryClient(httpClient)
	client.vpcs = NewVPCsClient(httpClient)
	client.projects = NewProjectsClient(httpClient)
	client.metadata = NewMetadataClient(inthttp.NewMetadataClient(baseURL))

	return client
}
