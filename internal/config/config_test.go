package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing DSN.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad listen address.
	cfg = &Config{
		DatabaseDSN:   "postgres://filterwatch@localhost/sapphires?sslmode=disable",
		ListenAddress: "bad:address",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay; defaults filled in.
	cfg = &Config{
		DatabaseDSN: "postgres://filterwatch@localhost/sapphires?sslmode=disable",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	require.Equal(t, DefaultTickInterval, cfg.TickInterval)
	require.Equal(t, DefaultSessionFilename, cfg.SessionFile)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		DatabaseDSN:   "postgres://filterwatch@localhost/sapphires?sslmode=disable",
		ListenAddress: "127.0.0.1:8050",
		TickInterval:  15 * time.Second,
		LogLevel:      "debug",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.DatabaseDSN, loaded.DatabaseDSN)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, cfg.TickInterval, loaded.TickInterval)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
