package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dori/worklog/internal/db"
	"github.com/dori/worklog/internal/log"
	"github.com/dori/worklog/internal/ui/theme"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir   string
	DBPath    string
	LockPath  string
	LogLevel  string
	LogFormat string
	Theme     string
	Notify    bool
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	dataDir := db.DefaultDataDir()
	return &Config{
		DataDir:   dataDir,
		DBPath:    filepath.Join(dataDir, "work-log.db"),
		LockPath:  filepath.Join(dataDir, "work-log.lock"),
		LogLevel:  "warn",
		LogFormat: "text",
		Theme:     theme.Nord.Name,
	}
}

// LoadConfig starts from the defaults, loads .env files from the data dir
// and the working directory if present, then applies WORKLOG_* variables.
// Variables already set in the environment win over .env values.
func LoadConfig() (*Config, error) {
	dataDir := getEnv("WORKLOG_DATA_DIR", db.DefaultDataDir())
	for _, path := range []string{filepath.Join(dataDir, ".env"), ".env"} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	cfg.DataDir = getEnv("WORKLOG_DATA_DIR", cfg.DataDir)
	cfg.DBPath = getEnv("WORKLOG_DB_PATH", filepath.Join(cfg.DataDir, "work-log.db"))
	cfg.LockPath = filepath.Join(cfg.DataDir, "work-log.lock")
	cfg.LogLevel = getEnv("WORKLOG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("WORKLOG_LOG_FORMAT", cfg.LogFormat)
	cfg.Theme = getEnv("WORKLOG_THEME", cfg.Theme)

	notify, err := getEnvBool("WORKLOG_NOTIFY", false)
	if err != nil {
		return nil, fmt.Errorf("parse WORKLOG_NOTIFY: %w", err)
	}
	cfg.Notify = notify

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "database path is required")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if !log.ValidFormat(c.LogFormat) {
		problems = append(problems, fmt.Sprintf("unknown log format %q: must be text or json", c.LogFormat))
	}
	if _, ok := theme.ByName(c.Theme); !ok {
		problems = append(problems, fmt.Sprintf("unknown theme %q", c.Theme))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(v)
}
