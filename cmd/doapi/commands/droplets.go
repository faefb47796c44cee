package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// NewDropletsCommand creates the droplets command group.
func NewDropletsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "droplets",
		Aliases: []string{"droplet"},
		Short:   "Manage droplets",
		Long:    "List, create, and delete droplets",
	}

	cmd.AddCommand(newDropletsListCommand())
	cmd.AddCommand(newDropletsGetCommand())
	cmd.AddCommand(newDropletsCreateCommand())
	cmd.AddCommand(newDropletsDeleteCommand())

	return cmd
}

func newDropletsListCommand() *cobra.Command {
	var (
		tag    string
		region string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List droplets",
		Long:  "List all droplets the token has access to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			ctx := context.Background()

			var droplets []doapi.Droplet
			if tag != "" {
				droplets, err = client.Droplets().ListByTag(ctx, tag)
			} else {
				droplets, err = client.Droplets().List(ctx, &doapi.ListOptions{Region: region})
			}

			if err != nil {
				return fmt.Errorf("failed to list droplets: %w", err)
			}

			return renderOutput(droplets, func() error {
				rows := make([][]string, 0, len(droplets))
				for i := range droplets {
					droplet := &droplets[i]
					rows = append(rows, []string{
						strconv.FormatInt(droplet.ID, 10),
						droplet.Name,
						droplet.Status,
						droplet.Region.Slug,
						droplet.SizeSlug,
						orNotAvailable(droplet.PublicIPv4()),
						formatTags(droplet.Tags),
					})
				}

				return renderRows([]string{"ID", "Name", "Status", "Region", "Size", "Public IPv4", "Tags"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "filter by tag")
	cmd.Flags().StringVar(&region, "region", "", "filter by region slug")

	return cmd
}

func newDropletsGetCommand() *cobra.Command {
	var byName string

	cmd := &cobra.Command{
		Use:   "get [droplet-id]",
		Short: "Get a droplet",
		Long:  "Get a droplet by ID, or by name with --name",
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

			var droplet *doapi.Droplet

			switch {
			case byName != "":
				droplet, err = client.Droplets().GetByName(ctx, byName)
			case len(args) == 1:
				id, parseErr := strconv.ParseInt(args[0], 10, 64)
				if parseErr != nil {
					return fmt.Errorf("parsing droplet ID %q: %w", args[0], parseErr)
				}

				droplet, err = client.Droplets().Get(ctx, id)
			default:
				return ErrDropletIDRequired
			}

			if err != nil {
				return fmt.Errorf("failed to get droplet: %w", err)
			}

			return renderOutput(droplet, func() error {
				return renderRows(
					[]string{"Property", "Value"},
					[][]string{
						{"ID", strconv.FormatInt(droplet.ID, 10)},
						{"Name", droplet.Name},
						{"Status", droplet.Status},
						{"Region", droplet.Region.Slug},
						{"Size", droplet.SizeSlug},
						{"Public IPv4", orNotAvailable(droplet.PublicIPv4())},
						{"VPC", orNotAvailable(droplet.VPCID)},
						{"Tags", formatTags(droplet.Tags)},
						{"Created", formatTime(droplet.CreatedAt)},
					})
			})
		},
	}

	cmd.Flags().StringVar(&byName, "name", "", "look up by name instead of ID")

	return cmd
}

func newDropletsCreateCommand() *cobra.Command {
	var (
		request doapi.DropletCreateRequest
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a droplet",
		Long: `Create a droplet. When a droplet with the same name already exists it is
returned instead of erroring. With --wait the command blocks until the
droplet is active.`,
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

			result, err := client.Droplets().Create(ctx, &request)
			if err != nil {
				return fmt.Errorf("failed to create droplet: %w", err)
			}

			droplet := result.Resource()
			if result.Conflicted() {
				fmt.Printf("Droplet '%s' already exists (ID %d), returning it\n", droplet.Name, droplet.ID)
			} else {
				fmt.Printf("Created droplet '%s' (ID %d)\n", droplet.Name, droplet.ID)
			}

			if wait {
				droplet, err = client.Droplets().WaitForStatus(ctx, droplet.ID, doapi.DropletStatusActive, timeout)
				if err != nil {
					return fmt.Errorf("waiting for droplet: %w", err)
				}

				fmt.Printf("Droplet '%s' is active at %s\n", droplet.Name, orNotAvailable(droplet.PublicIPv4()))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&request.RegionSlug, "region", "", "region slug (required)")
	cmd.Flags().StringVar(&request.SizeSlug, "size", "", "size slug (required)")
	cmd.Flags().StringVar(&request.ImageSlug, "image", "", "image slug (required)")
	cmd.Flags().StringSliceVar(&request.Tags, "tag", nil, "tags to apply (repeatable)")
	cmd.Flags().StringVar(&request.VPCID, "vpc", "", "VPC to place the droplet in")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the droplet is active")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wait timeout (default 10m)")

	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func newDropletsDeleteCommand() *cobra.Command {
	var (
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "delete <droplet-id>",
		Short: "Delete a droplet",
		Long:  "Delete a droplet. A droplet that is already gone counts as success.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing droplet ID %q: %w", args[0], err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			ctx := context.Background()

			if err := client.Droplets().Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete droplet: %w", err)
			}

			if wait {
				if err := client.Droplets().WaitUntilDeleted(ctx, id, timeout); err != nil {
					return fmt.Errorf("waiting for deletion: %w", err)
				}
			}

			fmt.Printf("Deleted droplet %d\n", id)

			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the droplet is gone")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wait timeout (default 10m)")

	return cmd
}
