package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pipsleuth/pipsleuth/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "pipsleuth"

// Config holds user-level defaults loaded from the TOML config file.
// Command-line flags override config values, which override built-in defaults.
type Config struct {
	// Python is the interpreter whose environment is scanned.
	// Empty means auto-detect (python3, then python, on PATH).
	Python string `toml:"python"`

	// Source selects where license names come from: meta, classifier,
	// mixed, or all.
	Source string `toml:"source"`

	// NoFiles disables reading license/notice/SBOM file contents.
	NoFiles bool `toml:"no_files"`

	// NoNormalize disables PEP 503 normalization of package names.
	NoNormalize bool `toml:"no_normalize"`

	Store StoreConfig `toml:"store"`
}

// StoreConfig selects and configures the scan record backend.
type StoreConfig struct {
	// Backend is one of: file, redis, mongo, none.
	Backend string `toml:"backend"`

	// Dir is the directory for the file backend.
	// Empty means XDG data dir (~/.local/share/pipsleuth/scans).
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"` // Go duration string, e.g. "720h"; empty means keep forever
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// defaultConfig returns the built-in defaults used when no config file exists.
func defaultConfig() Config {
	return Config{
		Source: "mixed",
		Store: StoreConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
		},
	}
}

// loadConfig reads the config file at path, or the default location when path
// is empty. A missing file is not an error; defaults are returned.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config %s", path)
	}
	return cfg, nil
}

// redisTTL parses the configured TTL, returning zero (no expiry) when unset.
func (c RedisConfig) redisTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing store.redis.ttl")
	}
	return ttl, nil
}

// configDir returns the config directory using XDG standard (~/.config/pipsleuth/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/pipsleuth/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
