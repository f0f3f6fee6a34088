package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dori/worklog/internal/app"
	"github.com/dori/worklog/internal/model"
	"github.com/dori/worklog/internal/ui"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// NewProjectsCommand creates the projects command
func NewProjectsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				projects, err := a.DB.ListProjects()
				if err != nil {
					return fmt.Errorf("failed to list projects: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderProjects(projects))
				return nil
			})
		},
	}
}

// NewProjectAddCommand creates the project-add command
func NewProjectAddCommand(opts *rootOptions) *cobra.Command {
	var (
		hourly bool
		rate   string
	)

	cmd := &cobra.Command{
		Use:   "project-add NAME",
		Short: "Add a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := model.Project{Name: args[0], IsBilledHourly: hourly}
			if rate != "" {
				r, err := parseRate(rate)
				if err != nil {
					return err
				}
				p.HourRate = r
			}

			return withApp(opts, func(a *app.App) error {
				id, err := a.DB.CreateProject(p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project '%s' created with ID %d\n", p.Name, id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&hourly, "hourly", false, "Bill this project by the hour")
	cmd.Flags().StringVar(&rate, "rate", "", "Hourly rate, e.g. 75.50")

	return cmd
}

// NewProjectUpdateCommand creates the project-update command
func NewProjectUpdateCommand(opts *rootOptions) *cobra.Command {
	var (
		name     string
		hourly   bool
		noHourly bool
		rate     string
	)

	cmd := &cobra.Command{
		Use:   "project-update ID",
		Short: "Update a project's name, billing mode or rate",
		Long: `Update a project. Only the given flags change; pass --rate "" to clear
the hourly rate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withApp(opts, func(a *app.App) error {
				p, err := a.DB.GetProject(id)
				if err != nil {
					return fmt.Errorf("failed to load project %d: %w", id, err)
				}
				if p == nil {
					return &model.ProjectNotFoundError{Ref: args[0]}
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					p.Name = name
				}
				if flags.Changed("hourly") {
					p.IsBilledHourly = hourly
				}
				if flags.Changed("no-hourly") {
					p.IsBilledHourly = !noHourly
				}
				if flags.Changed("rate") {
					p.HourRate = nil
					if rate != "" {
						if p.HourRate, err = parseRate(rate); err != nil {
							return err
						}
					}
				}

				if _, err := a.DB.UpdateProject(*p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %d updated\n", p.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().BoolVar(&hourly, "hourly", false, "Bill this project by the hour")
	cmd.Flags().BoolVar(&noHourly, "no-hourly", false, "Stop billing this project by the hour")
	cmd.Flags().StringVar(&rate, "rate", "", "Hourly rate, e.g. 75.50")
	cmd.MarkFlagsMutuallyExclusive("hourly", "no-hourly")

	return cmd
}

// NewProjectDeleteCommand creates the project-delete command
func NewProjectDeleteCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "project-delete ID",
		Short: "Delete a project",
		Long: `Delete a project. Work entries recorded against it are kept in the
database but no longer appear in reports.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withApp(opts, func(a *app.App) error {
				p, err := a.DB.GetProject(id)
				if err != nil {
					return fmt.Errorf("failed to load project %d: %w", id, err)
				}
				if p == nil {
					return &model.ProjectNotFoundError{Ref: args[0]}
				}

				out := cmd.OutOrStdout()
				if !force && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete project '%s'?", p.Name)) {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}

				if _, err := a.DB.DeleteProject(id); err != nil {
					return fmt.Errorf("failed to delete project %d: %w", id, err)
				}
				a.Logger.Info("project deleted", "project_id", id, "project", p.Name)
				fmt.Fprintf(out, "Project '%s' deleted\n", p.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking")

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "id", Message: fmt.Sprintf("'%s' is not a project id", s)}
	}
	return id, nil
}

func parseRate(s string) (*decimal.Decimal, error) {
	r, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, &model.ValidationError{Field: "rate", Message: fmt.Sprintf("'%s' is not a number", s)}
	}
	return &r, nil
}
