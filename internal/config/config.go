// Package config holds the analyzer's settings: application-level options
// plus the statistical tuning thresholds consumed by the engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/seansalv/FFXIV-Market-Analyzer/internal/engine"
)

// Config is the in-memory representation of the analyzer settings.
type Config struct {
	DBPath       string `json:"db_path"`
	DefaultScope string `json:"default_scope"` // world or data-center name
	DefaultTopN  int    `json:"default_top_n"`

	Tuning engine.Tuning `json:"tuning"`
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		DBPath:       "analyzer.db",
		DefaultScope: "Gilgamesh",
		DefaultTopN:  25,
		Tuning:       engine.DefaultTuning(),
	}
}

// Load reads the config file at path, returning defaults when the file
// does not exist. Environment variables MARKET_DB_PATH, MARKET_SCOPE and
// MARKET_TOP_N override the file in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults plus env.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("MARKET_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MARKET_SCOPE"); v != "" {
		cfg.DefaultScope = v
	}
	if v := os.Getenv("MARKET_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultTopN = n
		}
	}
	return cfg, nil
}

// Save writes the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
