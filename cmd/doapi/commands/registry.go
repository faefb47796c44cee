package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the container registry",
		Long:  "Inspect, create, and delete the account's container registry",
	}

	cmd.AddCommand(newRegistryGetCommand())
	cmd.AddCommand(newRegistryCreateCommand())
	cmd.AddCommand(newRegistryDeleteCommand())

	return cmd
}

func newRegistryGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			registry, err := client.Registry().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get registry: %w", err)
			}

			return renderOutput(registry, func() error {
				return renderRows(
					[]string{"Property", "Value"},
					[][]string{
						{"Name", registry.Name},
						{"Region", orNotAvailable(registry.RegionSlug)},
						{"Tier", registry.Tier},
						{"Created", formatTime(registry.CreatedAt)},
					})
			})
		},
	}
}

func newRegistryCreateCommand() *cobra.Command {
	var request doapi.RegistryCreateRequest

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create the registry",
		Long: `Create the account's container registry. The provider allows one registry
per account; when it already exists it is returned instead of erroring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			request.Name = args[0]

			result, err := client.Registry().Create(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to create registry: %w", err)
			}

			registry := result.Resource()
			if result.Conflicted() {
				fmt.Printf("Registry '%s' already exists, returning it\n", registry.Name)
			} else {
				fmt.Printf("Created registry '%s'\n", registry.Name)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&request.RegionSlug, "region", "", "region slug")
	cmd.Flags().StringVar(&request.Tier, "tier", "basic", "subscription tier slug")

	return cmd
}

func newRegistryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the registry",
		Long:  "Delete the account's container registry. A registry that is already gone counts as success.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			if err := client.Registry().Delete(context.Background()); err != nil {
				return fmt.Errorf("failed to delete registry: %w", err)
			}

			fmt.Println("Deleted registry")

			return nil
		},
	}
}
