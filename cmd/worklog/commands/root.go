package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dori/worklog/internal/app"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	dbPath string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "work-log",
		Short: "Track time spent on projects",
		Long: `work-log records work sessions against projects and reports the hours,
per day or per week, with billing for projects charged by the hour.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the database file (overrides WORKLOG_DB_PATH)")

	rootCmd.AddCommand(NewProjectsCommand(opts))
	rootCmd.AddCommand(NewProjectAddCommand(opts))
	rootCmd.AddCommand(NewProjectUpdateCommand(opts))
	rootCmd.AddCommand(NewProjectDeleteCommand(opts))
	rootCmd.AddCommand(NewStartCommand(opts))
	rootCmd.AddCommand(NewStopCommand(opts))
	rootCmd.AddCommand(NewStatusCommand(opts))
	rootCmd.AddCommand(NewTodayCommand(opts))
	rootCmd.AddCommand(NewYesterdayCommand(opts))
	rootCmd.AddCommand(NewDayCommand(opts))
	rootCmd.AddCommand(NewWeekCommand(opts))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openApp loads the configuration, applies flag overrides and opens the app
func openApp(opts *rootOptions) (*app.App, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	return app.New(cfg)
}

// withApp opens the app for the duration of fn
func withApp(opts *rootOptions, fn func(a *app.App) error) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("failed to close app", "error", err)
		}
	}()
	return fn(a)
}

// confirm asks a yes/no question on in. Anything but y or yes is a no,
// including end of input.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
