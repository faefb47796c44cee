// Package client implements the doapi.Client interface: one shared request
// executor, the pagination and create-result plumbing, and the per-resource
// clients built on them.
package client

import (
	"fmt"
	"time"

	"github.com/cowwoc/digitalocean-sub002/internal/constants"
	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// pollSettings bound the backoff of every Wait* call issued through one
// client.
type pollSettings struct {
	interval    time.Duration
	maxInterval time.Duration
}

// orDefaultTimeout substitutes the default poll budget for a zero timeout.
func orDefaultTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return constants.DefaultPollTimeout
	}

	return timeout
}

// Client implements doapi.Client.
type Client struct {
	httpClient *inthttp.Client
	baseURL    string

	droplets   *DropletsClient
	databases  *DatabasesClient
	kubernetes *KubernetesClient
	registry   *RegistryClient
	vpcs       *VPCsClient
	projects   *ProjectsClient
	metadata   *MetadataClient
}

// New creates a client from the given configuration.
func New(config *doapi.Config) (*Client, error) {
	if config == nil {
		return nil, doapi.ErrConfigRequired
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	metadataURL := config.MetadataURL
	if metadataURL == "" {
		metadataURL = constants.DefaultMetadataURL
	}

	httpOpts, err := httpOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := inthttp.NewClient(baseURL, config.Token, httpOpts...)
	metadataClient := inthttp.NewMetadataClient(metadataURL)

	poll := pollSettings{
		interval:    config.PollInterval,
		maxInterval: config.PollMaxInterval,
	}
	if poll.interval <= 0 {
		poll.interval = constants.DefaultPollInterval
	}

	if poll.maxInterval <= 0 {
		poll.maxInterval = constants.DefaultPollMaxInterval
	}

	if poll.maxInterval < poll.interval {
		poll.maxInterval = poll.interval
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
	client.metadata = NewMetadataClient(metadataClient)

	return client, nil
}

// httpOptions builds executor options from the configuration.
func httpOptions(config *doapi.Config) ([]inthttp.Option, error) {
	var opts []inthttp.Option

	if config.Logger != nil {
		opts = append(opts, inthttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, inthttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, inthttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, inthttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, inthttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.Cache != nil {
		cache, err := doapi.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building response cache: %w", err)
		}

		ttl := config.Cache.TTL
		if ttl <= 0 {
			ttl = constants.DefaultCacheTTL
		}

		opts = append(opts, inthttp.WithCache(cache, ttl))
	}

	return opts, nil
}

// Droplets implements doapi.Client.Droplets.
func (c *Client) Droplets() doapi.DropletsClient {
	return c.droplets
}

// Databases implements doapi.Client.Databases.
func (c *Client) Databases() doapi.DatabasesClient {
	return c.databases
}

// Kubernetes implements doapi.Client.Kubernetes.
func (c *Client) Kubernetes() doapi.KubernetesClient {
	return c.kubernetes
}

// Registry implements doapi.Client.Registry.
func (c *Client) Registry() doapi.RegistryClient {
	return c.registry
}

// VPCs implements doapi.Client.VPCs.
func (c *Client) VPCs() doapi.VPCsClient {
	return c.vpcs
}

// Projects implements doapi.Client.Projects.
func (c *Client) Projects() doapi.ProjectsClient {
	return c.projects
}

// Metadata implements doapi.Client.Metadata.
func (c *Client) Metadata() doapi.MetadataClient {
	return c.metadata
}

// RateLimit implements doapi.Client.RateLimit.
func (c *Client) RateLimit() *doapi.RateLimit {
	return c.httpClient.LastRateLimit()
}

// Close implements doapi.Client.Close.
func (c *Client) Close() error {
	return c.httpClient.Close()
}
