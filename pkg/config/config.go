// Package config handles loading and managing furrow configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/succession"
)

// Config is the top-level configuration for furrow.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
}

// EngineConfig tunes the scoring engines.
type EngineConfig struct {
	Companion  companion.Weights  `yaml:"companion"`
	Succession succession.Weights `yaml:"succession"`

	DefaultLimit int `yaml:"default_limit"`
	// Used when a bed has no hardiness zone of its own.
	DefaultZone      *float64 `yaml:"default_hardiness_zone"`
	CompositionSlots int      `yaml:"composition_slots"`
}

// StorageConfig selects the blob backend for catalogs and plan archives.
type StorageConfig struct {
	Backend    string `yaml:"backend"` // local, s3, gcs
	Bucket     string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"` // S3-compatible endpoint override
	LocalDir   string `yaml:"local_dir"`
	Prefix     string `yaml:"prefix"` // key prefix inside the bucket (s3, gcs)
	CatalogKey string `yaml:"catalog_key"`
}

// DatabaseConfig selects the garden store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres, sqlite
	DSN    string `yaml:"dsn"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port      string `yaml:"port"`
	APIKey    string `yaml:"api_key"`
	CacheSize int    `yaml:"cache_size"`
}

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Companion:        companion.Defaults(),
			Succession:       succession.Defaults(),
			DefaultLimit:     10,
			CompositionSlots: 4,
		},
		Storage: StorageConfig{
			Backend:    BackendLocal,
			LocalDir:   filepath.Join(DataDir(), "blobs"),
			CatalogKey: "catalog/crops.yaml",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    filepath.Join(DataDir(), "furrow.db"),
		},
		Server: ServerConfig{
			Port:      "8080",
			CacheSize: 256,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks weights and enumerated settings.
func (c *Config) Validate() error {
	if err := c.Engine.Companion.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Succession.Validate(); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case BackendLocal, BackendS3, BackendGCS:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend != BackendLocal && c.Storage.Bucket == "" {
		return fmt.Errorf("storage backend %s requires a bucket", c.Storage.Backend)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Engine.DefaultLimit < 0 {
		return fmt.Errorf("engine.default_limit is negative: %d", c.Engine.DefaultLimit)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables, the way the
// daemon is configured in containers. Unset variables leave the value
// alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("DATABASE_URL"); v != "" {
		c.Database.Driver = DriverPostgres
		c.Database.DSN = v
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("FURROW_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := getenv("RESULT_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("RESULT_CACHE_SIZE must be a non-negative integer, got %q", v)
		}
		c.Server.CacheSize = n
	}
	if v := getenv("FURROW_DEFAULT_ZONE"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FURROW_DEFAULT_ZONE must be a number, got %q", v)
		}
		c.Engine.DefaultZone = &z
	}

	// Bucket variables pick the backend; GCS wins when both are set.
	if v := getenv("S3_BUCKET"); v != "" {
		c.Storage.Backend = BackendS3
		c.Storage.Bucket = v
	}
	if v := getenv("GCS_BUCKET"); v != "" {
		c.Storage.Backend = BackendGCS
		c.Storage.Bucket = v
	}
	if v := getenv("AWS_REGION"); v != "" {
		c.Storage.Region = v
	}
	if v := getenv("S3_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}
	if v := getenv("STORAGE_PREFIX"); v != "" {
		c.Storage.Prefix = v
	}
	if v := getenv("LOCAL_STORAGE_PATH"); v != "" {
		c.Storage.LocalDir = v
	}
	if v := getenv("CATALOG_KEY"); v != "" {
		c.Storage.CatalogKey = v
	}
	return c.Validate()
}

// FindConfigFile looks for .furrow/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".furrow", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// DataDir returns the per-user data directory used by the local CLI
// store and blob archive.
func DataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "furrow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "share", "furrow")
}
