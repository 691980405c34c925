package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the filterwatch binaries.
type Config struct {
	// DatabaseDSN is the connection string of the relational store holding
	// conditions, decisions, processed events, reminders and readings.
	DatabaseDSN string `yaml:"database_dsn"`
	// ListenAddress is where the operator HTTP API listens.
	ListenAddress string `yaml:"listen_addr"`
	// TickInterval is the cadence of the periodic orchestrator evaluation.
	TickInterval time.Duration `yaml:"tick_interval"`
	// SessionFile is the path of the JSON file persisting dialog flags
	// across restarts.
	SessionFile string `yaml:"session_file"`
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// LogFile, when set, tees log output into a rotating file at this path.
	LogFile string `yaml:"log_file"`
	// SensorProcesses lists executable names of the external sensor
	// ingestion pipeline; missing ones are reported at startup.
	SensorProcesses []string `yaml:"sensor_processes"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "filterwatch-settings.yaml"

	// DefaultSessionFilename is the default filename for session-flag JSON.
	DefaultSessionFilename = "filterwatch-session.json"

	// DefaultListenAddress is the default operator API listen address.
	DefaultListenAddress = ":8050"

	// DefaultTickInterval is the default orchestrator evaluation cadence.
	DefaultTickInterval = 10 * time.Second

	// DefaultLogLevel is the default minimum log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errDatabaseDSNRequired is returned when the store DSN is missing.
	errDatabaseDSNRequired = errors.New("database DSN must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and applies defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DatabaseDSN == "" {
		return errDatabaseDSNRequired
	}

	// Set default listen address if not specified.
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	// Set default tick interval if not specified.
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	// Set default session file if not specified.
	if cfg.SessionFile == "" {
		cfg.SessionFile = DefaultSessionFilename
	}

	// Set default log level if not specified.
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
