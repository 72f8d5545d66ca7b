// Package config provides configuration loading, defaults, and validation
// for the helium services.
package config

import (
	"fmt"
	"time"

	"github.com/heliumchem/helium/internal/observability/logging"
)

// Config is the root configuration shared by heliumd and the helium CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" mapstructure:"server"`
	Log      logging.Config `yaml:"log" json:"log" mapstructure:"log"`
	Database DatabaseConfig `yaml:"database" json:"database" mapstructure:"database"`
	Redis    RedisConfig    `yaml:"redis" json:"redis" mapstructure:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
	Search   SearchConfig   `yaml:"search" json:"search" mapstructure:"search"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" json:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// DatabaseConfig configures the PostgreSQL molecule registry.
type DatabaseConfig struct {
	Host     string `yaml:"host" json:"host" mapstructure:"host"`
	Port     int    `yaml:"port" json:"port" mapstructure:"port"`
	User     string `yaml:"user" json:"user" mapstructure:"user"`
	Password string `yaml:"password" json:"-" mapstructure:"password"`
	Database string `yaml:"database" json:"database" mapstructure:"database"`
	SSLMode  string `yaml:"ssl_mode" json:"ssl_mode" mapstructure:"ssl_mode"`

	MaxConns        int32         `yaml:"max_conns" json:"max_conns" mapstructure:"max_conns"`
	MinConns        int32         `yaml:"min_conns" json:"min_conns" mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`

	// Migrate runs pending schema migrations at startup when true.
	Migrate        bool   `yaml:"migrate" json:"migrate" mapstructure:"migrate"`
	MigrationsPath string `yaml:"migrations_path" json:"migrations_path" mapstructure:"migrations_path"`
}

// DSN renders the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig configures the search result cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" json:"-" mapstructure:"password"`
	DB       int           `yaml:"db" json:"db" mapstructure:"db"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`

	// Enabled switches result caching on; searches degrade gracefully to
	// uncached operation when false.
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
}

// MetricsConfig configures the Prometheus exposition.
type MetricsConfig struct {
	Namespace         string `yaml:"namespace" json:"namespace" mapstructure:"namespace"`
	RuntimeCollectors bool   `yaml:"runtime_collectors" json:"runtime_collectors" mapstructure:"runtime_collectors"`
}

// SearchConfig bounds the search service.
type SearchConfig struct {
	// PatternCacheSize is the number of compiled SMARTS patterns kept in
	// memory.  Zero disables the cache.
	PatternCacheSize int `yaml:"pattern_cache_size" json:"pattern_cache_size" mapstructure:"pattern_cache_size"`

	// MaxMatches caps the embeddings reported for list-mode searches.
	MaxMatches int `yaml:"max_matches" json:"max_matches" mapstructure:"max_matches"`
}

// Validate checks the invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port %d out of range", c.Database.Port)
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns %d below min_conns %d",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr must not be empty when redis is enabled")
	}
	if c.Search.PatternCacheSize < 0 {
		return fmt.Errorf("search.pattern_cache_size must not be negative")
	}
	if c.Search.MaxMatches <= 0 {
		return fmt.Errorf("search.max_matches must be positive")
	}
	return nil
}
