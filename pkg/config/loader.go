package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from a file and environment variables.
// The prefix parameter is used for environment variable names (e.g., "FORUM" -> FORUM_STORAGE_BACKEND).
// If configPath is empty, only environment variables will be used.
func Load(configPath, envPrefix string) (*Config, error) {
	v := viper.New()

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only resolves environment variables for keys it knows about, so
	// every key needs a registered default for env-only loading to work.
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// This is useful in main() where configuration errors should be fatal.
func MustLoad(configPath, envPrefix string) *Config {
	cfg, err := Load(configPath, envPrefix)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFromEnv loads configuration only from environment variables (no config file).
func LoadFromEnv(envPrefix string) (*Config, error) {
	return Load("", envPrefix)
}

// setViperDefaults registers every configuration key with viper. The values
// mirror applyDefaults; keys without a meaningful default register their zero
// value so environment overrides still bind to them.
func setViperDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"service.name":    "forum",
		"service.version": "",
		"service.env":     "development",

		"server.http_port":        8080,
		"server.read_timeout":     30 * time.Second,
		"server.write_timeout":    30 * time.Second,
		"server.shutdown_timeout": 30 * time.Second,
		"server.max_header_bytes": 1 << 20,

		"storage.backend": "memory",
		"storage.dir":     "data",
		"storage.seed":    false,

		"database.host":               "",
		"database.port":               0,
		"database.database":           "",
		"database.user":               "",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_conns":          10,
		"database.min_conns":          0,
		"database.max_conn_lifetime":  time.Duration(0),
		"database.max_conn_idle_time": time.Duration(0),
		"database.connect_timeout":    5 * time.Second,

		"cache.list_ttl":         10 * time.Minute,
		"cache.entry_sliding":    2 * time.Minute,
		"cache.entry_absolute":   10 * time.Minute,
		"cache.janitor_interval": time.Minute,

		"log.level":  "info",
		"log.format": "json",
		"log.output": "stdout",

		"metrics.enabled":   false,
		"metrics.port":      0,
		"metrics.path":      "/metrics",
		"metrics.namespace": "forum",

		"auth.enabled":   false,
		"auth.secret":    "",
		"auth.issuer":    "forum",
		"auth.token_ttl": 24 * time.Hour,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
