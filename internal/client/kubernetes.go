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

const kubernetesPath = "/v2/kubernetes/clusters"

// KubernetesClient implements doapi.KubernetesClient.
type KubernetesClient struct {
	httpClient *inthttp.Client
	poll       pollSettings
}

// NewKubernetesClient creates a new Kubernetes client.
func NewKubernetesClient(httpClient *inthttp.Client, poll pollSettings) *KubernetesClient {
	return &KubernetesClient{httpClient: httpClient, poll: poll}
}

// Get retrieves a cluster by ID.
func (c *KubernetesClient) Get(ctx context.Context, id string) (*doapi.KubernetesCluster, error) {
	return getResource[doapi.KubernetesCluster](ctx, c.httpClient, kubernetesPath+"/"+id, "kubernetes_cluster")
}

// GetByName returns the first cluster with the given name, or a typed
// not-found error when no cluster matches.
func (c *KubernetesClient) GetByName(ctx context.Context, name string) (*doapi.KubernetesCluster, error) {
	cluster, err := firstElement(ctx, c.httpClient, kubernetesPath, nil, "kubernetes_clusters",
		func(k *doapi.KubernetesCluster) bool { return k.Name == name })
	if err != nil {
		return nil, err
	}

	if cluster == nil {
		return nil, &doapi.NotFoundError{URL: kubernetesPath, Message: fmt.Sprintf("no cluster named %q", name)}
	}

	return cluster, nil
}

// List returns all clusters matching the options, in page order.
func (c *KubernetesClient) List(ctx context.Context, opts *doapi.ListOptions) ([]doapi.KubernetesCluster, error) {
	return listElements[doapi.KubernetesCluster](ctx, c.httpClient, kubernetesPath, opts.ToValues(), "kubernetes_clusters", nil)
}

// Create creates a cluster, or returns the identically-named cluster that
// already exists.
func (c *KubernetesClient) Create(ctx context.Context, request *doapi.KubernetesClusterCreateRequest) (*doapi.CreateResult[doapi.KubernetesCluster], error) {
	if request.Name == "" {
		return nil, doapi.ErrNameRequired
	}

	return createResource(ctx, c.httpClient, kubernetesPath, "kubernetes_cluster", request.Name, request,
		func(ctx context.Context) (*doapi.KubernetesCluster, error) {
			return c.GetByName(ctx, request.Name)
		})
}

// Delete destroys a cluster. A cluster that is already gone is a success.
func (c *KubernetesClient) Delete(ctx context.Context, id string) error {
	return destroyResource(ctx, c.httpClient, kubernetesPath+"/"+id)
}

// WaitForState polls until the cluster reports the given state.
func (c *KubernetesClient) WaitForState(ctx context.Context, id string, state string, timeout time.Duration) (*doapi.KubernetesCluster, error) {
	backoff, err := wait.NewBackoff(c.poll.interval, c.poll.maxInterval, constants.PollBackoffMultiplier)
	if err != nil {
		return nil, err
	}

	poller := &wait.Poller[doapi.KubernetesCluster]{
		Fetch:            c.fetchStateFor(id),
		Target:           state,
		Timeout:          orDefaultTimeout(timeout),
		Backoff:          backoff,
		Logger:           c.httpClient.Logger(),
		ResourceName:     "kubernetes cluster " + id,
		ProgressInterval: constants.ProgressLogInterval,
	}

	return poller.Wait(ctx)
}

// WaitUntilDeleted polls until the cluster is gone. The provider reports a
// deleting cluster as "deleting" and then drops it from the API entirely, so
// a not-found response confirms the deletion.
func (c *KubernetesClient) WaitUntilDeleted(ctx context.Context, id string, timeout time.Duration) error {
	backoff, err := wait.NewBackoff(c.poll.interval, c.poll.maxInterval, constants.PollBackoffMultiplier)
	if err != nil {
		return err
	}

	poller := &wait.Poller[doapi.KubernetesCluster]{
		Fetch:            c.fetchStateFor(id),
		Target:           doapi.KubernetesStateDeleted,
		NotFoundIsTarget: true,
		Timeout:          orDefaultTimeout(timeout),
		Backoff:          backoff,
		Logger:           c.httpClient.Logger(),
		ResourceName:     "kubernetes cluster " + id,
		ProgressInterval: constants.ProgressLogInterval,
	}

	_, err = poller.Wait(ctx)

	return err
}

func (c *KubernetesClient) fetchStateFor(id string) func(context.Context) (*doapi.KubernetesCluster, string, error) {
	return func(ctx context.Context) (*doapi.KubernetesCluster, string, error) {
		cluster, err := c.Get(ctx, id)
		if err != nil {
			return nil, "", err
		}

		return cluster, cluster.Status.State, nil
	}
}
