package commands

import (
	"fmt"
	"time"

	"github.com/dori/worklog/internal/app"
	"github.com/dori/worklog/internal/period"
	"github.com/dori/worklog/internal/ui"
	"github.com/spf13/cobra"
)

// NewTodayCommand creates the today command
func NewTodayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return daily(cmd, opts, time.Now())
		},
	}
}

// NewYesterdayCommand creates the yesterday command
func NewYesterdayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "yesterday",
		Short: "Show yesterday's report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return daily(cmd, opts, time.Now().AddDate(0, 0, -1))
		},
	}
}

// NewDayCommand creates the day command
func NewDayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "day YYYY-MM-DD",
		Short: "Show the report for a specific day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := period.ParseDay(args[0])
			if err != nil {
				return err
			}
			return daily(cmd, opts, day)
		},
	}
}

// NewWeekCommand creates the week command
func NewWeekCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week [YYYY-MM-DD]",
		Short: "Show the weekly report for the week containing a day",
		Long:  `Show the Monday to Sunday summary for the week containing the given day, or the current week.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if len(args) == 1 {
				var err error
				if day, err = period.ParseDay(args[0]); err != nil {
					return err
				}
			}

			return withApp(opts, func(a *app.App) error {
				rep, err := a.Reports.Weekly(day)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderWeekly(rep))
				return nil
			})
		},
	}
}

func daily(cmd *cobra.Command, opts *rootOptions, day time.Time) error {
	return withApp(opts, func(a *app.App) error {
		rep, err := a.Reports.Daily(day)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderDaily(rep))
		return nil
	})
}
