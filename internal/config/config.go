// Package config provides configuration management for stillpoint.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

const (
	// DefaultWorkerPort is the default HTTP port for the worker service.
	DefaultWorkerPort = 38555
)

// Config holds the application configuration.
type Config struct {
	// Worker settings
	WorkerPort int `json:"worker_port"`

	// Database settings
	DBPath   string `json:"db_path"`
	MaxConns int    `json:"max_conns"`

	// Catalog settings
	CatalogPath  string `json:"catalog_path"`  // YAML catalog file watched for changes
	WatchCatalog bool   `json:"watch_catalog"` // reload the catalog on file changes

	// Recommendation settings
	RecommendResults int `json:"recommend_results"` // ranked candidates to return (default 10)
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DataDir returns the data directory path (~/.stillpoint).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".stillpoint")
}

// DBPath returns the database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "stillpoint.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// CatalogPath returns the default catalog file path.
func CatalogPath() string {
	return filepath.Join(DataDir(), "catalog.yaml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// EnsureSettings creates a default settings file if it doesn't exist.
func EnsureSettings() error {
	path := SettingsPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	defaultSettings := `{
  "STILLPOINT_WORKER_PORT": 38555,
  "STILLPOINT_RECOMMEND_RESULTS": 10,
  "STILLPOINT_WATCH_CATALOG": true
}
`
	return os.WriteFile(path, []byte(defaultSettings), 0600)
}

// EnsureAll ensures all required directories and files exist.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		WorkerPort:       DefaultWorkerPort,
		DBPath:           DBPath(),
		MaxConns:         4,
		CatalogPath:      CatalogPath(),
		WatchCatalog:     true,
		RecommendResults: 10,
	}
}

// Load loads configuration from the settings file, merging with defaults.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Load settings into a map to preserve unknown fields
	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return cfg, nil // Return defaults on parse error
	}

	if v, ok := settings["STILLPOINT_WORKER_PORT"].(float64); ok && v > 0 {
		cfg.WorkerPort = int(v)
	}
	if v, ok := settings["STILLPOINT_DB_PATH"].(string); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := settings["STILLPOINT_MAX_CONNS"].(float64); ok && v > 0 {
		cfg.MaxConns = int(v)
	}
	if v, ok := settings["STILLPOINT_CATALOG_PATH"].(string); ok && v != "" {
		cfg.CatalogPath = v
	}
	if v, ok := settings["STILLPOINT_WATCH_CATALOG"].(bool); ok {
		cfg.WatchCatalog = v
	}
	if v, ok := settings["STILLPOINT_RECOMMEND_RESULTS"].(float64); ok && v > 0 {
		cfg.RecommendResults = int(v)
	}

	return cfg, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})

	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// GetWorkerPort returns the worker port from environment or config.
func GetWorkerPort() int {
	if port := os.Getenv("STILLPOINT_WORKER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			return p
		}
	}
	return Get().WorkerPort
}

// GetDBPath returns the database path from environment or config.
func GetDBPath() string {
	if path := os.Getenv("STILLPOINT_DB_PATH"); path != "" {
		return path
	}
	return Get().DBPath
}

// GetCatalogPath returns the catalog path from environment or config.
func GetCatalogPath() string {
	if path := os.Getenv("STILLPOINT_CATALOG_PATH"); path != "" {
		return path
	}
	return Get().CatalogPath
}
