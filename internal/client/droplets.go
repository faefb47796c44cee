package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cowwoc/digitalocean-sub002/internal/constants"
	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/internal/wait"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

const dropletsPath = "/v2/droplets"

// DropletsClient implements doapi.DropletsClient.
type DropletsClient struct {
	httpClient *inthttp.Client
	poll       pollSettings
}

// NewDropletsClient creates a new droplets client.
func NewDropletsClient(httpClient *inthttp.Client, poll pollSettings) *DropletsClient {
	return &DropletsClient{httpClient: httpClient, poll: poll}
}

// Get retrieves a droplet by ID.
func (c *DropletsClient) Get(ctx context.Context, id int64) (*doapi.Droplet, error) {
	return getResource[doapi.Droplet](ctx, c.httpClient, dropletsPath+"/"+strconv.FormatInt(id, 10), "droplet")
}

// GetByName returns the first droplet with the given name, or a typed
// not-found error when no droplet matches.
func (c *DropletsClient) GetByName(ctx context.Context, name string) (*doapi.Droplet, error) {
	droplet, err := firstElement(ctx, c.httpClient, dropletsPath, nil, "droplets",
		func(d *doapi.Droplet) bool { return d.Name == name })
	if err != nil {
		return nil, err
	}

	if droplet == nil {
		return nil, &doapi.NotFoundError{URL: dropletsPath, Message: fmt.Sprintf("no droplet named %q", name)}
	}

	return droplet, nil
}

// List returns all droplets matching the options, in page order.
func (c *DropletsClient) List(ctx context.Context, opts *doapi.ListOptions) ([]doapi.Droplet, error) {
	return listElements[doapi.Droplet](ctx, c.httpClient, dropletsPath, opts.ToValues(), "droplets", nil)
}

// ListByTag returns all droplets carrying the given tag.
func (c *DropletsClient) ListByTag(ctx context.Context, tag string) ([]doapi.Droplet, error) {
	opts := &doapi.ListOptions{Tag: tag}

	return listElements[doapi.Droplet](ctx, c.httpClient, dropletsPath, opts.ToValues(), "droplets", nil)
}

// Create creates a droplet, or returns the identically-named droplet that
// already exists.
func (c *DropletsClient) Create(ctx context.Context, request *doapi.DropletCreateRequest) (*doapi.CreateResult[doapi.Droplet], error) {
	if request.Name == "" {
		return nil, doapi.ErrNameRequired
	}

	return createResource(ctx, c.httpClient, dropletsPath, "droplet", request.Name, request,
		func(ctx context.Context) (*doapi.Droplet, error) {
			return c.GetByName(ctx, request.Name)
		})
}

// Delete destroys a droplet. A droplet that is already gone is a success.
func (c *DropletsClient) Delete(ctx context.Context, id int64) error {
	return destroyResource(ctx, c.httpClient, dropletsPath+"/"+strconv.FormatInt(id, 10))
}

// WaitForStatus polls until the droplet reports the given status.
func (c *DropletsClient) WaitForStatus(ctx context.Context, id int64, status string, timeout time.Duration) (*doapi.Droplet, error) {
	backoff, err := wait.NewBackoff(c.poll.interval, c.poll.maxInterval, constants.PollBackoffMultiplier)
	if err != nil {
		return nil, err
	}

	poller := &wait.Poller[doapi.Droplet]{
		Fetch: func(ctx context.Context) (*doapi.Droplet, string, error) {
			droplet, err := c.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}

			return droplet, droplet.Status, nil
		},
		Target:           status,
		Timeout:          orDefaultTimeout(timeout),
		Backoff:          backoff,
		Logger:           c.httpClient.Logger(),
		ResourceName:     "droplet " + strconv.FormatInt(id, 10),
		ProgressInterval: constants.ProgressLogInterval,
	}

	return poller.Wait(ctx)
}

// WaitUntilDeleted polls until the droplet is gone. A not-found response
// confirms the deletion.
func (c *DropletsClient) WaitUntilDeleted(ctx context.Context, id int64, timeout time.Duration) error {
	backoff, err := wait.NewBackoff(c.poll.interval, c.poll.maxInterval, constants.PollBackoffMultiplier)
	if err != nil {
		return err
	}

	poller := &wait.Poller[doapi.Droplet]{
		Fetch: func(ctx context.Context) (*doapi.Droplet, string, error) {
			droplet, err := c.Get(ctx, id)
			if err != nil {
				return nil, "", err
			}

			return droplet, droplet.Status, nil
		},
		Target:           doapi.DropletStatusArchive,
		NotFoundIsTarget: true,
		Timeout:          orDefaultTimeout(timeout),
		Backoff:          backoff,
		Logger:           c.httpClient.Logger(),
		ResourceName:     "droplet " + strconv.FormatInt(id, 10),
		ProgressInterval: constants.ProgressLogInterval,
	}

	_, err = poller.Wait(ctx)

	return err
}
