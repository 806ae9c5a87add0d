// Package daemon wires the platform together: configuration, logging,
// storage, services, and the HTTP server lifecycle.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ecosphere-platform/ecosphere/internal/app/emissions"
	"github.com/ecosphere-platform/ecosphere/internal/app/ledger"
	"github.com/ecosphere-platform/ecosphere/internal/app/score"
)

// Config is the daemon configuration, loaded from TOML.
type Config struct {
	API       APIConfig         `toml:"api"`
	Ledger    ledger.Config     `toml:"ledger"`
	Emissions emissions.Factors `toml:"emissions"`
	Score     score.Config      `toml:"score"`
	Storage   StorageConfig     `toml:"storage"`
	Models    ModelsConfig      `toml:"models"`
	Log       LogConfig         `toml:"log"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

// Addr returns the listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig configures the ledger record store.
type StorageConfig struct {
	// Path to the SQLite database. ":memory:" for an ephemeral store.
	Path string `toml:"path"`
}

// ModelsConfig points at the optional prediction model artifacts.
// An empty path disables the corresponding endpoint.
type ModelsConfig struct {
	CropPath string `toml:"crop_path"`
	FirePath string `toml:"fire_path"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`  // optional file tee, empty for stdout only
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8990,
		},
		Ledger:    ledger.DefaultConfig(),
		Emissions: emissions.DefaultFactors(),
		Score:     score.DefaultConfig(),
		Storage: StorageConfig{
			Path: filepath.Join(homeDir(), ".ecosphere", "ledger.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(homeDir(), ".ecosphere", "config.toml")
}

// Load reads the config file at path, layered over the defaults.
// A missing file is not an error: the defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
