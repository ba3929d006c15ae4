package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Logging      LoggingConfig      `toml:"logging"`       // Application logging settings
	Storage      StorageConfig      `toml:"storage"`       // Flight database settings
	Filter       FilterConfig       `toml:"filter"`        // Live message filter policy
	StandingData StandingDataConfig `toml:"standing_data"` // Static reference data settings
	Pictures     PicturesConfig     `toml:"pictures"`      // Aircraft picture and image directory settings
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains flight database configuration
type StorageConfig struct {
	Type           string `toml:"type"`             // Storage backend type (currently only "sqlite" is supported)
	SQLitePath     string `toml:"sqlite_path"`      // Path to the SQLite flight database file
	BusyTimeoutMs  int    `toml:"busy_timeout_ms"`  // SQLite busy timeout in milliseconds (default: 5000)
	CacheSizePages int    `toml:"cache_size_pages"` // SQLite page cache size (default: 10000)
}

// FilterConfig contains the live message filter policy. It is consulted on
// every incoming message, and can be changed at runtime via the config
// watcher without restarting the process.
type FilterConfig struct {
	Enabled                   bool     `toml:"enabled"`                     // Master switch; when false every prohibition check passes
	ProhibitMLAT              bool     `toml:"prohibit_mlat"`               // Strip MLAT-derived positions / drop MLAT raw messages
	ProhibitUnfilterableFeeds bool     `toml:"prohibit_unfilterable_feeds"` // Advisory flag consulted by the feed layer for feeds that cannot be filtered per-message
	ProhibitICAOs             bool     `toml:"prohibit_icaos"`              // true = icaos is a blacklist, false = icaos is a whitelist
	ICAOs                     []string `toml:"icaos"`                       // ICAO24 hex addresses; malformed entries are dropped during normalization
}

// StandingDataConfig contains static reference data configuration
type StandingDataConfig struct {
	SQLitePath   string `toml:"sqlite_path"`   // Path to the standing data SQLite file (aircraft types, code blocks, routes)
	CacheEntries int    `toml:"cache_entries"` // Size of the in-process LRU cache over standing data lookups (default: 4096)
}

// PicturesConfig contains aircraft picture and image directory configuration
type PicturesConfig struct {
	PicturesDir                   string `toml:"pictures_dir"`                      // Directory of aircraft pictures keyed by registration
	SilhouettesDir                string `toml:"silhouettes_dir"`                   // Directory of aircraft silhouette images
	OperatorFlagsDir              string `toml:"operator_flags_dir"`                // Directory of operator flag images
	InternetClientsCanSeePictures bool   `toml:"internet_clients_can_see_pictures"` // Whether internet clients may receive picture details in reports
}

// Load loads the configuration from the specified file path
func Load(path string) (*Config, error) {
	var config Config

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate logging config
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	// Validate storage config
	if c.Storage.Type == "" {
		c.Storage.Type = "sqlite"
	}
	if c.Storage.Type != "sqlite" {
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}
	if c.Storage.SQLitePath == "" {
		return fmt.Errorf("storage sqlite_path is required")
	}
	if c.Storage.BusyTimeoutMs <= 0 {
		c.Storage.BusyTimeoutMs = 5000
	}
	if c.Storage.CacheSizePages <= 0 {
		c.Storage.CacheSizePages = 10000
	}

	// Validate standing data config
	if c.StandingData.SQLitePath == "" {
		return fmt.Errorf("standing_data sqlite_path is required")
	}
	if c.StandingData.CacheEntries <= 0 {
		c.StandingData.CacheEntries = 4096
	}

	return nil
}
