package doapi

import (
	"context"
	"time"
)

// Logger is a minimal structured logging interface. Implementations must be
// safe for concurrent use.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config holds the client configuration. It is immutable after the client
// is constructed; the resulting client is safe for concurrent use by
// multiple logical operations.
type Config struct {
	// Token is the API access token. Required.
	Token string

	// BaseURL overrides the provider endpoint. Defaults to the public API.
	BaseURL string

	// MetadataURL overrides the droplet metadata service endpoint.
	MetadataURL string

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// HTTPTimeout bounds a single request (connect + response). Zero means
	// the default transport timeout.
	HTTPTimeout time.Duration

	// RetryMax caps transport-level retries for transient failures.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the transport retry backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// PollInterval is the initial delay between poll iterations; it grows
	// geometrically up to PollMaxInterval.
	PollInterval    time.Duration
	PollMaxInterval time.Duration

	// Logger receives debug and progress logging. Nil disables logging.
	Logger Logger

	// Debug enables request/response logging through Logger.
	Debug bool

	// Cache configures the optional GET response cache.
	Cache *CacheConfig
}

// Client is the typed entry point to the provider API. Implementations are
// safe for concurrent use. Close releases the underlying connection pool
// exactly once; operations issued afterwards fail fast with ErrClientClosed.
type Client interface {
	Droplets() DropletsClient
	Databases() DatabasesClient
	Kubernetes() KubernetesClient
	Registry() RegistryClient
	VPCs() VPCsClient
	Projects() ProjectsClient
	Metadata() MetadataClient

	// RateLimit returns the rate-limit state observed on the most recent
	// response, or nil before the first request.
	RateLimit() *RateLimit

	Close() error
}

// DropletsClient operates on compute instances.
type DropletsClient interface {
	Get(ctx context.Context, id int64) (*Droplet, error)
	GetByName(ctx context.Context, name string) (*Droplet, error)
	List(ctx context.Context, opts *ListOptions) ([]Droplet, error)
	ListByTag(ctx context.Context, tag string) ([]Droplet, error)
	Create(ctx context.Context, request *DropletCreateRequest) (*CreateResult[Droplet], error)
	Delete(ctx context.Context, id int64) error

	// WaitForStatus polls until the droplet reports the given status or the
	// timeout elapses.
	WaitForStatus(ctx context.Context, id int64, status string, timeout time.Duration) (*Droplet, error)

	// WaitUntilDeleted polls until the droplet is gone. A not-found response
	// confirms the deletion and is not an error.
	WaitUntilDeleted(ctx context.Context, id int64, timeout time.Duration) error
}

// DatabasesClient operates on managed database clusters.
type DatabasesClient interface {
	Get(ctx context.Context, id string) (*DatabaseCluster, error)
	GetByName(ctx context.Context, name string) (*DatabaseCluster, error)
	List(ctx context.Context, opts *ListOptions) ([]DatabaseCluster, error)
	Create(ctx context.Context, request *DatabaseClusterCreateRequest) (*CreateResult[DatabaseCluster], error)
	Delete(ctx context.Context, id string) error
	WaitForStatus(ctx context.Context, id string, status string, timeout time.Duration) (*DatabaseCluster, error)
}

// KubernetesClient operates on managed Kubernetes clusters.
type KubernetesClient interface {
	Get(ctx context.Context, id string) (*KubernetesCluster, error)
	GetByName(ctx context.Context, name string) (*KubernetesCluster, error)
	List(ctx context.Context, opts *ListOptions) ([]KubernetesCluster, error)
	Create(ctx context.Context, request *KubernetesClusterCreateRequest) (*CreateResult[KubernetesCluster], error)
	Delete(ctx context.Context, id string) error
	WaitForState(ctx context.Context, id string, state string, timeout time.Duration) (*KubernetesCluster, error)
	WaitUntilDeleted(ctx context.Context, id string, timeout time.Duration) error
}

// RegistryClient operates on the account's container registry, of which the
// provider allows at most one.
type RegistryClient interface {
	Get(ctx context.Context) (*Registry, error)
	Create(ctx context.Context, request *RegistryCreateRequest) (*CreateResult[Registry], error)
	Delete(ctx context.Context) error
}

// VPCsClient operates on virtual private networks.
type VPCsClient interface {
	Get(ctx context.Context, id string) (*VPC, error)
	GetByName(ctx context.Context, name string) (*VPC, error)
	List(ctx context.Context, opts *ListOptions) ([]VPC, error)
	Create(ctx context.Context, request *VPCCreateRequest) (*CreateResult[VPC], error)
	Delete(ctx context.Context, id string) error
}

// ProjectsClient operates on projects.
type ProjectsClient interface {
	Get(ctx context.Context, id string) (*Project, error)
	GetDefault(ctx context.Context) (*Project, error)
	List(ctx context.Context, opts *ListOptions) ([]Project, error)
}

// MetadataClient queries the droplet-local metadata service. It is only
// reachable from inside a managed instance; calls use a very short timeout
// because the service either answers quickly or is absent.
type MetadataClient interface {
	DropletID(ctx context.Context) (string, error)
	Region(ctx context.Context) (string, error)
	PublicIPv4(ctx context.Context) (string, error)
}
