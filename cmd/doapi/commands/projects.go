package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects",
		Long:    "List and inspect projects",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsGetCommand())

	return cmd
}

func newProjectsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			projects, err := client.Projects().List(context.Background(), nil)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			return renderOutput(projects, func() error {
				rows := make([][]string, 0, len(projects))
				for i := range projects {
					project := &projects[i]
					rows = append(rows, []string{
						project.ID,
						project.Name,
						orNotAvailable(project.Environment),
						strconv.FormatBool(project.IsDefault),
					})
				}

				return renderRows([]string{"ID", "Name", "Environment", "Default"}, rows)
			})
		},
	}
}

func newProjectsGetCommand() *cobra.Command {
	var defaultProject bool

	cmd := &cobra.Command{
		Use:   "get [project-id]",
		Short: "Get a project",
		Long:  "Get a project by ID, or the account default with --default",
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

			var project *doapi.Project

			switch {
			case defaultProject:
				project, err = client.Projects().GetDefault(ctx)
			case len(args) == 1:
				project, err = client.Projects().Get(ctx, args[0])
			default:
				return ErrProjectIDRequired
			}

			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			return renderOutput(project, func() error {
				return renderRows(
					[]string{"Property", "Value"},
					[][]string{
						{"ID", project.ID},
						{"Name", project.Name},
						{"Description", orNotAvailable(project.Description)},
						{"Purpose", orNotAvailable(project.Purpose)},
						{"Environment", orNotAvailable(project.Environment)},
						{"Default", strconv.FormatBool(project.IsDefault)},
						{"Created", formatTime(project.CreatedAt)},
					})
			})
		},
	}

	cmd.Flags().BoolVar(&defaultProject, "default", false, "get the account's default project")

	return cmd
}
