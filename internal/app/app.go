package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/dori/worklog/internal/db"
	"github.com/dori/worklog/internal/log"
	"github.com/dori/worklog/internal/notify"
	"github.com/dori/worklog/internal/report"
	"github.com/dori/worklog/internal/session"
	"github.com/dori/worklog/internal/ui/theme"
	"github.com/gofrs/flock"
)

// App holds the application state and dependencies
type App struct {
	Config   *Config
	DB       *db.DB
	Tracker  *session.Tracker
	Reports  *report.Reporter
	Notifier *notify.Notifier
	Logger   *log.Logger
	lockFile *flock.Flock
}

// New creates a new application instance
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: "app",
		Output:    os.Stderr,
	})

	if t, ok := theme.ByName(cfg.Theme); ok {
		theme.SetTheme(t)
	}

	database, err := db.Open(cfg.DBPath, db.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	notifier := notify.NewNotifier()
	notifier.SetEnabled(cfg.Notify)

	// Held only while a session transition runs, not for the process lifetime
	lockFile := flock.New(cfg.LockPath)

	tracker := session.New(database,
		session.WithLocker(lockFile),
		session.WithTransaction(func(fn func(session.Store) error) error {
			return database.Transaction(func(tx *db.DB) error { return fn(tx) })
		}),
		session.WithLogger(logger),
	)

	return &App{
		Config:   cfg,
		DB:       database,
		Tracker:  tracker,
		Reports:  report.New(database),
		Notifier: notifier,
		Logger:   logger,
		lockFile: lockFile,
	}, nil
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if a.lockFile != nil {
		if err := a.lockFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close lock file: %w", err))
		}
	}

	return errors.Join(errs...)
}
