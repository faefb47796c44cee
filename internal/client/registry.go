package client

import (
	"context"

	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

const registryPath = "/v2/registry"

// RegistryClient implements doapi.RegistryClient. The provider allows one
// registry per account, so the endpoint is a singleton.
type RegistryClient struct {
	httpClient *inthttp.Client
}

// NewRegistryClient creates a new registry client.
func NewRegistryClient(httpClient *inthttp.Client) *RegistryClient {
	return &RegistryClient{httpClient: httpClient}
}

// Get retrieves the account's registry.
func (c *RegistryClient) Get(ctx context.Context) (*doapi.Registry, error) {
	return getResource[doapi.Registry](ctx, c.httpClient, registryPath, "registry")
}

// Create creates the registry, or returns the one that already exists. The
// refetch ignores the conflicting name: the account has at most one registry
// and the conflict can only be with it.
func (c *RegistryClient) Create(ctx context.Context, request *doapi.RegistryCreateRequest) (*doapi.CreateResult[doapi.Registry], error) {
	if request.Name == "" {
		return nil, doapi.ErrNameRequired
	}

	return createResource(ctx, c.httpClient, registryPath, "registry", request.Name, request,
		func(ctx context.Context) (*doapi.Registry, error) {
			return c.Get(ctx)
		})
}

// Delete destroys the registry. A registry that is already gone is a success.
func (c *RegistryClient) Delete(ctx context.Context) error {
	return destroyResource(ctx, c.httpClient, registryPath)
}
