// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game  GameConfig  `toml:"game"`
	Cache CacheConfig `toml:"cache"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	APIURL   *string `toml:"api-url"`
	Timeout  *string `toml:"timeout"`
	DB       *string `toml:"db"`
	LogLevel *string `toml:"log-level"`
}

// CacheConfig maps the optional Redis catalog cache.
type CacheConfig struct {
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
	TTL           *string `toml:"ttl"`
	Session       *string `toml:"session"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if _, err := ParseDuration("game.timeout", c.Game.Timeout); err != nil {
		return err
	}
	if _, err := ParseDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}
	return nil
}

// ParseDuration parses an optional duration value. A nil value yields nil.
func ParseDuration(name string, value *string) (*time.Duration, error) {
	if value == nil {
		return nil, nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, *value, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("invalid %s %q: must not be negative", name, *value)
	}
	return &d, nil
}
