// Package doapi defines the public surface of the DigitalOcean API client:
// the Client interface, resource types, query parameters, the typed error
// taxonomy, and the create-result protocol shared by all resource-creation
// operations.
//
// Basic usage:
//
//	client, err := doclient.New(&doapi.Config{
//	    Token: os.Getenv("DIGITALOCEAN_TOKEN"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	droplets, err := client.Droplets().List(ctx, nil)
//
// Creation operations return a CreateResult rather than failing on name
// conflicts. A second create with the same name yields the resource that
// already exists:
//
//	result, err := client.Kubernetes().Create(ctx, &doapi.KubernetesClusterCreateRequest{
//	    Name: "prod", RegionSlug: "nyc1", VersionSlug: "1.31",
//	})
//	if result.Conflicted() {
//	    // result.Resource() is the pre-existing cluster
//	}
//
// Long-running transitions are awaited with the Wait* methods, which poll
// with capped exponential backoff until the target state is reached or the
// caller-supplied timeout elapses:
//
//	cluster, err := client.Kubernetes().WaitForState(ctx, id, doapi.KubernetesStateRunning, 5*time.Minute)
//
// All errors the provider can report are surfaced as distinct types; see
// errors.go for the taxonomy and the Is* predicates.
package doapi
