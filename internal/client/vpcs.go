package client

import (
	"context"
	"fmt"

	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

const vpcsPath = "/v2/vpcs"

// VPCsClient implements doapi.VPCsClient.
type VPCsClient struct {
	httpClient *inthttp.Client
}

// NewVPCsClient creates a new VPCs client.
func NewVPCsClient(httpClient *inthttp.Client) *VPCsClient {
	return &VPCsClient{httpClient: httpClient}
}

// Get retrieves a VPC by ID.
func (c *VPCsClient) Get(ctx context.Context, id string) (*doapi.VPC, error) {
	return getResource[doapi.VPC](ctx, c.httpClient, vpcsPath+"/"+id, "vpc")
}

// GetByName returns the first VPC with the given name, or a typed not-found
// error when none matches.
func (c *VPCsClient) GetByName(ctx context.Context, name string) (*doapi.VPC, error) {
	vpc, err := firstElement(ctx, c.httpClient, vpcsPath, nil, "vpcs",
		func(v *doapi.VPC) bool { return v.Name == name })
	if err != nil {
		return nil, err
	}

	if vpc == nil {
		return nil, &doapi.NotFoundError{URL: vpcsPath, Message: fmt.Sprintf("no VPC named %q", name)}
	}

	return vpc, nil
}

// List returns all VPCs matching the options, in page order.
func (c *VPCsClient) List(ctx context.Context, opts *doapi.ListOptions) ([]doapi.VPC, error) {
	return listElements[doapi.VPC](ctx, c.httpClient, vpcsPath, opts.ToValues(), "vpcs", nil)
}

// Create creates a VPC, or returns the identically-named VPC that already
// exists.
func (c *VPCsClient) Create(ctx context.Context, request *doapi.VPCCreateRequest) (*doapi.CreateResult[doapi.VPC], error) {
	if request.Name == "" {
		return nil, doapi.ErrNameRequired
	}

	return createResource(ctx, c.httpClient, vpcsPath, "vpc", request.Name, request,
		func(ctx context.Context) (*doapi.VPC, error) {
			return c.GetByName(ctx, request.Name)
		})
}

// Delete destroys a VPC. A VPC that is already gone is a success.
func (c *VPCsClient) Delete(ctx context.Context, id string) error {
	return destroyResource(ctx, c.httpClient, vpcsPath+"/"+id)
}
