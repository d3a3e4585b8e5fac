// Package config provides configuration management for the forum backend.
// It supports loading configuration from YAML files and environment variables
// with automatic validation and default value application.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml", "FORUM")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or panic on error:
//	cfg := config.MustLoad("config.yaml", "FORUM")
package config

import (
	"time"
)

// Config represents the complete configuration for the forum service.
type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServiceConfig contains general service information.
type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// Storage backend names accepted by StorageConfig.Backend.
const (
	StorageBackendMemory   = "memory"
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// StorageConfig selects and configures the repository backend.
type StorageConfig struct {
	// Backend is one of "memory", "file", or "postgres".
	Backend string `mapstructure:"backend"`

	// Dir is the directory holding the flat-file JSON stores (file backend only).
	Dir string `mapstructure:"dir"`

	// Seed populates the memory backend with demo data when true.
	Seed bool `mapstructure:"seed"`
}

// DatabaseConfig contains PostgreSQL connection configuration (postgres backend only).
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"` // disable, require, verify-ca, verify-full
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// CacheConfig contains response cache configuration.
// The cache is process-local; entries age out by their own expiration policy.
type CacheConfig struct {
	// ListTTL is the absolute expiration applied to whole-collection entries.
	ListTTL time.Duration `mapstructure:"list_ttl"`

	// EntrySliding is the sliding expiration applied to single-entity entries.
	EntrySliding time.Duration `mapstructure:"entry_sliding"`

	// EntryAbsolute is the absolute cap applied to single-entity entries.
	// Whichever of sliding/absolute triggers first evicts the entry.
	EntryAbsolute time.Duration `mapstructure:"entry_absolute"`

	// JanitorInterval is how often the background sweep removes expired entries.
	// Zero disables the janitor; expired entries are still dropped lazily on read.
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

// LogConfig contains structured logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"` // Metric prefix
}

// AuthConfig contains login token configuration.
type AuthConfig struct {
	// Enabled gates bearer-token enforcement on mutating endpoints.
	// The login endpoint issues tokens regardless.
	Enabled bool `mapstructure:"enabled"`

	// Secret is the HS256 signing secret.
	Secret string `mapstructure:"secret"`

	// Issuer is the value stamped into the token's iss claim.
	Issuer string `mapstructure:"issuer"`

	// TokenTTL is how long issued tokens stay valid.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}
