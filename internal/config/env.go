package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POKEGUESS_"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays POKEGUESS_* variables on top of file values.
func ApplyEnv(cfg *FileConfig, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(name string, target **string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*target = &v
		}
	}
	str("API_URL", &cfg.Game.APIURL)
	str("TIMEOUT", &cfg.Game.Timeout)
	str("DB", &cfg.Game.DB)
	str("LOG_LEVEL", &cfg.Game.LogLevel)
	str("REDIS_ADDR", &cfg.Cache.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	str("CACHE_TTL", &cfg.Cache.TTL)
	str("SESSION", &cfg.Cache.Session)
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_DB %q: %w", EnvPrefix, v, err)
		}
		cfg.Cache.RedisDB = &n
	}
	return cfg.validate()
}
