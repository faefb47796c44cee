package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// NewVPCsCommand creates the vpcs command group.
func NewVPCsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vpcs",
		Aliases: []string{"vpc"},
		Short:   "Manage VPCs",
		Long:    "List, create, and delete virtual private networks",
	}

	cmd.AddCommand(newVPCsListCommand())
	cmd.AddCommand(newVPCsCreateCommand())
	cmd.AddCommand(newVPCsDeleteCommand())

	return cmd
}

func newVPCsListCommand() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List VPCs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			vpcs, err := client.VPCs().List(context.Background(), &doapi.ListOptions{Region: region})
			if err != nil {
				return fmt.Errorf("failed to list VPCs: %w", err)
			}

			return renderOutput(vpcs, func() error {
				rows := make([][]string, 0, len(vpcs))
				for i := range vpcs {
					vpc := &vpcs[i]
					rows = append(rows, []string{
						vpc.ID,
						vpc.Name,
						vpc.RegionSlug,
						vpc.IPRange,
						strconv.FormatBool(vpc.Default),
					})
				}

				return renderRows([]string{"ID", "Name", "Region", "IP Range", "Default"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "filter by region slug")

	return cmd
}

func newVPCsCreateCommand() *cobra.Command {
	var request doapi.VPCCreateRequest

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a VPC",
		Long: `Create a VPC. When a VPC with the same name already exists it is returned
instead of erroring.`,
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

			result, err := client.VPCs().Create(context.Background(), &request)
			if err != nil {
				return fmt.Errorf("failed to create VPC: %w", err)
			}

			vpc := result.Resource()
			if result.Conflicted() {
				fmt.Printf("VPC '%s' already exists (ID %s), returning it\n", vpc.Name, vpc.ID)
			} else {
				fmt.Printf("Created VPC '%s' (ID %s)\n", vpc.Name, vpc.ID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&request.RegionSlug, "region", "", "region slug (required)")
	cmd.Flags().StringVar(&request.IPRange, "ip-range", "", "CIDR range, assigned by the provider when omitted")

	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func newVPCsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vpc-id>",
		Short: "Delete a VPC",
		Long:  "Delete a VPC. A VPC that is already gone counts as success.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			if err := client.VPCs().Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete VPC: %w", err)
			}

			fmt.Printf("Deleted VPC %s\n", args[0])

			return nil
		},
	}
}
