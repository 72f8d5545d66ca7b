package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all helium settings.
const envPrefix = "HELIUM"

// newViper builds a Viper instance with the standard settings: YAML files,
// HELIUM_ env prefix, automatic env binding, and a key replacer so that
// nested keys like "database.host" resolve to "HELIUM_DATABASE_HOST".
// configKeys lists every settable key.  Viper only honors environment
// overrides for keys it knows about, so each one is bound explicitly.
var configKeys = []string{
	"server.addr", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
	"log.level", "log.format", "log.output_paths",
	"database.host", "database.port", "database.user", "database.password",
	"database.database", "database.ssl_mode", "database.max_conns", "database.min_conns",
	"database.conn_max_lifetime", "database.migrate", "database.migrations_path",
	"redis.addr", "redis.password", "redis.db", "redis.ttl", "redis.enabled",
	"metrics.namespace", "metrics.runtime_collectors",
	"search.pattern_cache_size", "search.max_matches",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges HELIUM_* environment
// overrides, applies defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", configPath, err)
	}

	return finalize(v)
}

// LoadFromEnv builds a Config from HELIUM_* environment variables alone,
// which suits containerized deployments with no config file.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with each successfully
// re-parsed Config.  Changes that fail to parse or validate are skipped so a
// bad edit cannot push the process into a broken state.  Watch starts a
// background goroutine managed by viper and returns immediately.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig() // callers Load first; a failure here repeats theirs

	v.WatchConfig()
	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := finalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error, for use in main() where a config
// failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
