package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// NewDatabasesCommand creates the databases command group.
func NewDatabasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "databases",
		Aliases: []string{"database", "db"},
		Short:   "Manage database clusters",
		Long:    "List, create, and delete managed database clusters",
	}

	cmd.AddCommand(newDatabasesListCommand())
	cmd.AddCommand(newDatabasesCreateCommand())
	cmd.AddCommand(newDatabasesDeleteCommand())

	return cmd
}

func newDatabasesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List database clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			clusters, err := client.Databases().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list database clusters: %w", err)
			}

			return renderOutput(clusters, func() error {
				rows := make([][]string, 0, len(clusters))
				for i := range clusters {
					cluster := &clusters[i]
					rows = append(rows, []string{
						cluster.ID,
						cluster.Name,
						cluster.EngineSlug,
						cluster.Status,
						cluster.RegionSlug,
						strconv.Itoa(cluster.NumNodes),
					})
				}

				return renderRows([]string{"ID", "Name", "Engine", "Status", "Region", "Nodes"}, rows)
			})
		},
	}
}

func newDatabasesCreateCommand() *cobra.Command {
	var (
		request doapi.DatabaseClusterCreateRequest
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a database cluster",
		Long: `Create a managed database cluster. When a cluster with the same name
already exists it is returned instead of erroring. With --wait the command
blocks until the cluster is online.`,
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
			request.Name = args[0]

			result, err := client.Databases().Create(ctx, &request)
			if err != nil {
				return fmt.Errorf("failed to create database cluster: %w", err)
			}

			cluster := result.Resource()
			if result.Conflicted() {
				fmt.Printf("Database cluster '%s' already exists (ID %s), returning it\n", cluster.Name, cluster.ID)
			} else {
				fmt.Printf("Created database cluster '%s' (ID %s)\n", cluster.Name, cluster.ID)
			}

			if wait {
				cluster, err = client.Databases().WaitForStatus(ctx, cluster.ID, doapi.DatabaseStatusOnline, timeout)
				if err != nil {
					return fmt.Errorf("waiting for database cluster: %w", err)
				}

				fmt.Printf("Database cluster '%s' is online\n", cluster.Name)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&request.EngineSlug, "engine", "", "database engine slug, e.g. pg (required)")
	cmd.Flags().StringVar(&request.Version, "engine-version", "", "engine version")
	cmd.Flags().StringVar(&request.RegionSlug, "region", "", "region slug (required)")
	cmd.Flags().StringVar(&request.SizeSlug, "size", "", "size slug (required)")
	cmd.Flags().IntVar(&request.NumNodes, "nodes", 1, "number of nodes")
	cmd.Flags().StringSliceVar(&request.Tags, "tag", nil, "tags to apply (repeatable)")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the cluster is online")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wait timeout (default 10m)")

	_ = cmd.MarkFlagRequired("engine")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func newDatabasesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cluster-id>",
		Short: "Delete a database cluster",
		Long:  "Delete a database cluster. One that is already gone counts as success.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			if err := client.Databases().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete database cluster: %w", err)
			}

			fmt.Printf("Deleted database cluster %s\n", args[0])

			return nil
		},
	}
}
