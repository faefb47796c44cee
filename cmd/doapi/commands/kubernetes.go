package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// NewKubernetesCommand creates the kubernetes command group.
func NewKubernetesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kubernetes",
		Aliases: []string{"k8s"},
		Short:   "Manage Kubernetes clusters",
		Long:    "List, create, and delete managed Kubernetes clusters",
	}

	cmd.AddCommand(newKubernetesListCommand())
	cmd.AddCommand(newKubernetesGetCommand())
	cmd.AddCommand(newKubernetesCreateCommand())
	cmd.AddCommand(newKubernetesDeleteCommand())

	return cmd
}

func newKubernetesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List Kubernetes clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			clusters, err := client.Kubernetes().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list clusters: %w", err)
			}

			return renderOutput(clusters, func() error {
				rows := make([][]string, 0, len(clusters))
				for i := range clusters {
					cluster := &clusters[i]
					rows = append(rows, []string{
						cluster.ID,
						cluster.Name,
						cluster.Status.State,
						cluster.RegionSlug,
						cluster.VersionSlug,
						strconv.Itoa(len(cluster.NodePools)),
					})
				}

				return renderRows([]string{"ID", "Name", "State", "Region", "Version", "Node Pools"}, rows)
			})
		},
	}
}

func newKubernetesGetCommand() *cobra.Command {
	var byName string

	cmd := &cobra.Command{
		Use:   "get [cluster-id]",
		Short: "Get a Kubernetes cluster",
		Long:  "Get a cluster by ID, or by name with --name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			ctx := context.Background()

			var cluster *doapi.KubernetesCluster

			switch {
			case byName != "":
				cluster, err = client.Kubernetes().GetByName(ctx, byName)
			case len(args) == 1:
				cluster, err = client.Kubernetes().Get(ctx, args[0])
			default:
				return ErrClusterIDRequired
			}

			if err != nil {
				return fmt.Errorf("failed to get cluster: %w", err)
			}

			return renderOutput(cluster, func() error {
				return renderRows(
					[]string{"Property", "Value"},
					[][]string{
						{"ID", cluster.ID},
						{"Name", cluster.Name},
						{"State", cluster.Status.State},
						{"Region", cluster.RegionSlug},
						{"Version", cluster.VersionSlug},
						{"Endpoint", orNotAvailable(cluster.Endpoint)},
						{"VPC", orNotAvailable(cluster.VPCID)},
						{"Tags", formatTags(cluster.Tags)},
						{"Created", formatTime(cluster.CreatedAt)},
					})
			})
		},
	}

	cmd.Flags().StringVar(&byName, "name", "", "look up by name instead of ID")

	return cmd
}

func newKubernetesCreateCommand() *cobra.Command {
	var (
		region    string
		version   string
		poolSize  string
		poolCount int
		vpcID     string
		tags      []string
		wait      bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a Kubernetes cluster",
		Long: `Create a Kubernetes cluster with a single node pool. When a cluster with
the same name already exists it is returned instead of erroring. With
--wait the command blocks until the cluster is running.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			ctx := context.Background()

			result, err := client.Kubernetes().Create(ctx, &doapi.KubernetesClusterCreateRequest{
				Name:        args[0],
				RegionSlug:  region,
				VersionSlug: version,
				VPCID:       vpcID,
				Tags:        tags,
				NodePools: []doapi.KubernetesNodePoolCreateRequest{
					{Name: "default", SizeSlug: poolSize, Count: poolCount},
				},
			})
			if err != nil {
				return fmt.Errorf("failed to create cluster: %w", err)
			}

			cluster := result.Resource()
			if result.Conflicted() {
				fmt.Printf("Cluster '%s' already exists (ID %s), returning it\n", cluster.Name, cluster.ID)
			} else {
				fmt.Printf("Created cluster '%s' (ID %s)\n", cluster.Name, cluster.ID)
			}

			if wait {
				cluster, err = client.Kubernetes().WaitForState(ctx, cluster.ID, doapi.KubernetesStateRunning, timeout)
				if err != nil {
					return fmt.Errorf("waiting for cluster: %w", err)
				}

				fmt.Printf("Cluster '%s' is running at %s\n", cluster.Name, orNotAvailable(cluster.Endpoint))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "region slug (required)")
	cmd.Flags().StringVar(&version, "version", "", "Kubernetes version slug (required)")
	cmd.Flags().StringVar(&poolSize, "pool-size", "", "node pool size slug (required)")
	cmd.Flags().IntVar(&poolCount, "pool-count", 1, "number of nodes in the pool")
	cmd.Flags().StringVar(&vpcID, "vpc", "", "VPC to place the cluster in")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags to apply (repeatable)")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the cluster is running")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wait timeout (default 10m)")

	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("version")
	_ = cmd.MarkFlagRequired("pool-size")

	return cmd
}

func newKubernetesDeleteCommand() *cobra.Command {
	var (
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "delete <cluster-id>",
		Short: "Delete a Kubernetes cluster",
		Long:  "Delete a cluster. A cluster that is already gone counts as success.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			ctx := context.Background()

			if err := client.Kubernetes().Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete cluster: %w", err)
			}

			if wait {
				if err := client.Kubernetes().WaitUntilDeleted(ctx, args[0], timeout); err != nil {
					return fmt.Errorf("waiting for deletion: %w", err)
				}
			}

			fmt.Printf("Deleted cluster %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the cluster is gone")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wait timeout (default 10m)")

	return cmd
}
