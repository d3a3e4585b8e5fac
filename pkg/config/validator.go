package config

import (
	"fmt"
	"time"
)

// Validate validates the configuration and returns an error if any required
// fields are missing or have invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.HTTPPort == 0 {
		return fmt.Errorf("server.http_port is required")
	}

	switch cfg.Storage.Backend {
	case "memory", "file", "postgres":
	default:
		return fmt.Errorf("storage.backend must be one of memory, file, postgres (got %q)", cfg.Storage.Backend)
	}

	if cfg.Storage.Backend == "postgres" {
		if cfg.Database.Host == "" {
			return fmt.Errorf("database.host is required for the postgres backend")
		}
		if cfg.Database.Port == 0 {
			return fmt.Errorf("database.port is required for the postgres backend")
		}
		if cfg.Database.User == "" {
			return fmt.Errorf("database.user is required for the postgres backend")
		}
		if cfg.Database.Database == "" {
			return fmt.Errorf("database.database is required for the postgres backend")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics.port is required when metrics are enabled")
	}

	if cfg.Auth.Enabled && cfg.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required when auth is enabled")
	}

	return nil
}

// applyDefaults applies default values to the configuration where values are not set.
func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "forum"
	}
	if cfg.Service.Env == "" {
		cfg.Service.Env = "development"
	}

	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20 // 1 MB
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "data"
	}

	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.ConnectTimeout == 0 {
		cfg.Database.ConnectTimeout = 5 * time.Second
	}

	if cfg.Cache.ListTTL == 0 {
		cfg.Cache.ListTTL = 10 * time.Minute
	}
	if cfg.Cache.EntrySliding == 0 {
		cfg.Cache.EntrySliding = 2 * time.Minute
	}
	if cfg.Cache.EntryAbsolute == 0 {
		cfg.Cache.EntryAbsolute = 10 * time.Minute
	}
	if cfg.Cache.JanitorInterval == 0 {
		cfg.Cache.JanitorInterval = time.Minute
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "forum"
	}

	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "forum"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
}
