package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/worklog/internal/app"
	"github.com/dori/worklog/internal/model"
	"github.com/dori/worklog/internal/session"
	"github.com/dori/worklog/internal/ui"
	"github.com/spf13/cobra"
)

// NewStartCommand creates the start command
func NewStartCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "start PROJECT DESCRIPTION...",
		Short: "Start working on a project",
		Long: `Start a work session. PROJECT is a project id or name. If work is already
in progress you are asked whether to stop it first; --yes stops it without asking.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args[1:], " ")
			out := cmd.OutOrStdout()

			resolve := session.StopActive
			if !yes {
				resolve = askToStop(cmd.InOrStdin(), out)
			}

			return withApp(opts, func(a *app.App) error {
				res, err := a.Tracker.Start(args[0], description, resolve)
				var conflict *model.ConflictError
				if errors.As(err, &conflict) {
					fmt.Fprintln(out, "Cancelled; current work continues")
					return nil
				}
				if err != nil {
					return err
				}

				if res.Stopped != nil {
					reportStopped(out, *res.Stopped)
					notifyStopped(a, *res.Stopped)
				}
				fmt.Fprintf(out, "Started work on '%s' for project '%s' at %s\n",
					res.Entry.Description, res.Project.Name, res.Entry.StartTime.Format("15:04:05"))
				if err := a.Notifier.SendSessionStarted(res.Project.Name, res.Entry.Description); err != nil {
					a.Logger.Warn("notification failed", "error", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Stop current work without asking")

	return cmd
}

func askToStop(in io.Reader, out io.Writer) session.ConflictResolver {
	return func(active model.WorkEntry, project *model.Project) bool {
		name := "a deleted project"
		if project != nil {
			name = "'" + project.Name + "'"
		}
		fmt.Fprintf(out, "Already working on '%s' for %s since %s\n",
			active.Description, name, active.StartTime.Format("15:04"))
		return confirm(in, out, "Stop current work and start new work?")
	}
}

// NewStopCommand creates the stop command
func NewStopCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the current work session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				res, err := a.Tracker.Stop()
				if err != nil {
					return err
				}
				if !res.Stopped {
					fmt.Fprintln(cmd.OutOrStdout(), "No active work to stop")
					return nil
				}
				reportStopped(cmd.OutOrStdout(), res)
				notifyStopped(a, res)
				return nil
			})
		},
	}
}

// NewStatusCommand creates the status command
func NewStatusCommand(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current work session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app.App) error {
				if watch {
					m := ui.NewStatusModel(a.Tracker)
					m.OnStop = func(res session.StopResult) { notifyStopped(a, res) }
					p := tea.NewProgram(m,
						tea.WithInput(cmd.InOrStdin()),
						tea.WithOutput(cmd.OutOrStdout()),
					)
					_, err := p.Run()
					return err
				}

				st, err := a.Tracker.Status()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStatus(st))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep the status open and update it every second")

	return cmd
}

func projectName(p *model.Project, id int64) string {
	if p == nil {
		return fmt.Sprintf("#%d (deleted)", id)
	}
	return p.Name
}

func reportStopped(out io.Writer, res session.StopResult) {
	fmt.Fprintf(out, "Stopped work on '%s' for project '%s'\n",
		res.Entry.Description, projectName(res.Project, res.Entry.ProjectID))
	fmt.Fprintf(out, "Duration: %.2f hours\n", res.Hours)
}

func notifyStopped(a *app.App, res session.StopResult) {
	name := projectName(res.Project, res.Entry.ProjectID)
	if err := a.Notifier.SendSessionStopped(name, res.Entry.Description, res.Hours); err != nil {
		a.Logger.Warn("notification failed", "error", err)
	}
}
