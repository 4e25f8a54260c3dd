// Package config loads reqsmith configuration from a TOML file.
//
// The default location is ~/.config/reqsmith/config.toml; every field
// has a working default so a missing file is not an error.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/reqsmith/reqsmith/pkg/errors"
)

// Defaults.
const (
	DefaultIndexURL = "https://pypi.org/pypi"
	DefaultCacheTTL = 24 * time.Hour
)

// Config is the top-level configuration.
type Config struct {
	Index Index `toml:"index"`
	Cache Cache `toml:"cache"`
	Serve Serve `toml:"serve"`
}

// Index configures the package registry.
type Index struct {
	// URL is the JSON API base, e.g. "https://pypi.org/pypi".
	URL string `toml:"url"`
}

// Cache configures metadata caching.
type Cache struct {
	// Backend selects the cache implementation: file, redis, mongo, or none.
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means ~/.cache/reqsmith.
	Dir string `toml:"dir"`

	// TTL is how long registry responses stay fresh.
	TTL duration `toml:"ttl"`

	RedisURL string `toml:"redis_url"`
	MongoURL string `toml:"mongo_url"`
	MongoDB  string `toml:"mongo_db"`
}

// Serve configures the HTTP API server.
type Serve struct {
	Addr string `toml:"addr"`
}

// duration wraps time.Duration so TOML values like "12h" parse.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		Index: Index{URL: DefaultIndexURL},
		Cache: Cache{Backend: "file", TTL: duration(DefaultCacheTTL)},
		Serve: Serve{Addr: ":8080"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "reqsmith", "config.toml")
}

// Load reads the config file at path, applying defaults for anything the
// file does not set. An empty path means the default location; a missing
// file at the default location returns the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	usingDefault := path == ""
	if usingDefault {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && usingDefault {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config")
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration returns the cache TTL as a time.Duration.
func (c Cache) TTLDuration() time.Duration { return time.Duration(c.TTL) }

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "mongo", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (want file, redis, mongo, or none)", c.Cache.Backend)
	}
	if c.Index.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "index url must not be empty")
	}
	if time.Duration(c.Cache.TTL) < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}
