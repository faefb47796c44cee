package client

import (
	"context"

	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

const projectsPath = "/v2/projects"

// ProjectsClient implements doapi.ProjectsClient.
type ProjectsClient struct {
	httpClient *inthttp.Client
}

// NewProjectsClient creates a new projects client.
func NewProjectsClient(httpClient *inthttp.Client) *ProjectsClient {
	return &ProjectsClient{httpClient: httpClient}
}

// Get retrieves a project by ID.
func (c *ProjectsClient) Get(ctx context.Context, id string) (*doapi.Project, error) {
	return getResource[doapi.Project](ctx, c.httpClient, projectsPath+"/"+id, "project")
}

// GetDefault retrieves the account's default project.
func (c *ProjectsClient) GetDefault(ctx context.Context) (*doapi.Project, error) {
	project, err := firstElement(ctx, c.httpClient, projectsPath, nil, "projects",
		func(p *doapi.Project) bool { return p.IsDefault })
	if err != nil {
		return nil, err
	}

	if project == nil {
		return nil, doapi.ErrNoDefaultProject
	}

	return project, nil
}

// List returns all projects matching the options, in page order.
func (c *ProjectsClient) List(ctx context.Context, opts *doapi.ListOptions) ([]doapi.Project, error) {
	return listElements[doapi.Project](ctx, c.httpClient, projectsPath, opts.ToValues(), "projects", nil)
}
