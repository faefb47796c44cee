package client

import (
	"context"
	"fmt"
	"time"

	"github.com/cowwoc/digitalocean-sub002/internal/constants"
	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/internal/wait"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

const databasesPath = "/v2/databases"

// DatabasesClient implements doapi.DatabasesClient.
type DatabasesClient struct {
	httpClient *inthttp.Client
	poll       pollSettings
}

// NewDatabasesClient creates a new databases client.
func NewDatabasesClient(httpClient *inthttp.Client, poll pollSettings) *DatabasesClient {
	return &DatabasesClient{httpClient: httpClient, poll: poll}
}

// Get retrieves a database cluster by ID.
func (c *DatabasesClient) Get(ctx context.Context, id string) (*doapi.DatabaseCluster, error) {
	return getResource[doapi.DatabaseCluster](ctx, c.httpClient, databasesPath+"/"+id, "database")
}

// GetByName returns the first database cluster with the given name, or a
// typed not-found error when none matches.
func (c *DatabasesClient) GetByName(ctx context.Context, name string) (*doapi.DatabaseCluster, error) {
	cluster, err := firstElement(ctx, c.httpClient, databasesPath, nil, "databases",
		func(d *doapi.DatabaseCluster) bool { return d.Name == name })
	if err != nil {
		return nil, err
	}

	if cluster == nil {
		return nil, &doapi.NotFoundError{URL: databasesPath, Message: fmt.Sprintf("no database cluster named %q", name)}
	}

	return cluster, nil
}

// List returns all database clusters matching the options, in page order.
func (c *DatabasesClient) List(ctx context.Context, opts *doapi.ListOptions) ([]doapi.DatabaseCluster, error) {
	return listElements[doapi.DatabaseCluster](ctx, c.httpClient, databasesPath, opts.ToValues(), "databases", nil)
}

// Create creates a database cluster, or returns the identically-named
// cluster that already exists.
func (c *DatabasesClient) Create(ctx context.Context, request *doapi.DatabaseClusterCreateRequest) (*doapi.CreateResult[doapi.DatabaseCluster], error) {
	if request.Name == "" {
		return nil, doapi.ErrNameRequired
	}

	return createResource(ctx, c.httpClient, databasesPath, "database", request.Name, request,
		func(ctx context.Context) (*doapi.DatabaseCluster, error) {
			return c.GetByName(ctx, request.Name)
		})
}

// Delete destroys a database cluster. One that is already gone is a success.
func (c *DatabasesClient) Delete(ctx context.Context, id string) error {
	return destroyResource(ctx, c.httpClient, databasesPath+"/"+id)
}

// WaitForStatus polls until the cluster reports the given status, typically
// doapi.DatabaseStatusOnline after creation.
func (c *DatabasesClient) WaitForStatus(ctx context.Context, id string, status string, timeout time.Duration) (*doapi.DatabaseCluster, error) {
	backoff, err := wait.NewBackoff(c.poll.interval, c.poll.maxInterval, constants.PollBackoffMultiplier)
	if err != nil {
		return nil, err
	}

	poller := &wait.Poller[doapi.DatabaseCluster]{
		Fetch: func(ctx context.Context) (*doapi.DatabaseCluster, string, error) {
			cluster, err := c.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}

			return cluster, cluster.Status, nil
		},
		Target:           status,
		Timeout:          orDefaultTimeout(timeout),
		Backoff:          backoff,
		Logger:           c.httpClient.Logger(),
		ResourceName:     "database cluster " + id,
		ProgressInterval: constants.ProgressLogInterval,
	}

	return poller.Wait(ctx)
}
