package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/worklog/internal/log"
	"github.com/dori/worklog/internal/model"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// TimeLayout is how timestamps are stored: local wall-clock ISO-8601 with a
// fixed width, so comparing the text in SQL orders it chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000"

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// DB wraps the SQL database connection. Store methods run on conn, which is
// the pool itself or, inside Transaction, the open transaction.
type DB struct {
	*sql.DB
	conn      querier
	logger    *log.Logger
	validator *model.Validator
}

// DefaultDataDir returns the default data directory path
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".work-log"
	}
	return filepath.Join(home, ".work-log")
}

// Option configures a DB at open time
type Option func(*DB)

// WithLogger sets the logger used for storage warnings
func WithLogger(l *log.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l.WithComponent("db")
		}
	}
}

// Open opens a database connection and runs migrations
func Open(dbPath string, opts ...Option) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Foreign keys stay off: project_id is declarative only
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports one writer
	sqlDB.SetMaxIdleConns(1)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:        sqlDB,
		conn:      sqlDB,
		logger:    log.Discard(),
		validator: model.NewValidator(),
	}
	for _, opt := range opts {
		opt(db)
	}

	// Run migrations
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *DB) migrate() error {
	// goose logs to stdout by default, which would mix into command output
	goose.SetLogger(stdlog.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction runs fn with a DB whose store methods all go through one
// transaction, committed if fn returns nil and rolled back otherwise.
// Called on a DB that is already transaction-scoped, fn joins that
// transaction.
func (db *DB) Transaction(fn func(tx *DB) error) error {
	if _, ok := db.conn.(*sql.Tx); ok {
		return fn(db)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	scoped := *db
	scoped.conn = tx
	if err := fn(&scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
