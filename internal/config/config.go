package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

// Config is the service configuration. Every field has a default, so an empty
// or absent file is a valid configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Audit      AuditConfig      `yaml:"audit"`
	Notify     NotifyConfig     `yaml:"notify"`
	Watch      WatchConfig      `yaml:"watch"`
	LinkCheck  LinkCheckConfig  `yaml:"link_check"`
	MCP        MCPConfig        `yaml:"mcp"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port         int        `yaml:"port"`           // Listen port (PORT overrides)
	SiteDir      string     `yaml:"site_dir"`       // Built front-end assets; index.html is the SPA entry
	MaxBodyBytes int64      `yaml:"max_body_bytes"` // Request body cap for the config API
	CORS         CORSConfig `yaml:"cors"`
}

// CORSConfig lists allowed origins. An empty list allows any origin.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig represents document storage configuration
type StorageConfig struct {
	DocumentPath string `yaml:"document_path"` // ABOUTME_DOCUMENT overrides
}

// AuthConfig holds the admin secret (ADMIN_PASSWORD overrides).
type AuthConfig struct {
	AdminPassword string `yaml:"admin_password"`
}

// AuditConfig controls the SQLite audit trail of admin actions.
type AuditConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Database string `yaml:"database"`
}

// NotifyConfig controls NATS change notifications.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// WatchConfig controls the document file watcher.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce"`
}

// LinkCheckConfig controls periodic verification of links in the document.
type LinkCheckConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Interval      string `yaml:"interval"`
	Timeout       string `yaml:"timeout"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// MCPConfig controls the read-only MCP endpoint.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringConfig represents monitoring and observability configuration
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Logging MonitoringLogging `yaml:"logging"`
}

// MonitoringMetrics represents metrics configuration
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringLogging represents logging configuration
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// DebounceDuration returns the parsed watch debounce.
func (w WatchConfig) DebounceDuration() time.Duration { return mustDuration(w.Debounce) }

// IntervalDuration returns the parsed link check interval.
func (l LinkCheckConfig) IntervalDuration() time.Duration { return mustDuration(l.Interval) }

// TimeoutDuration returns the parsed per-request link check timeout.
func (l LinkCheckConfig) TimeoutDuration() time.Duration { return mustDuration(l.Timeout) }

// mustDuration is only used on validated configs.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// Load reads the configuration file at configPath. A missing file is not an
// error; defaults and environment overrides are applied either way.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	var cfg Config
	// #nosec G304 -- path comes from a CLI flag
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, derrors.ConfigError("failed to unmarshal config").WithCause(err).WithContext("file", configPath).Build()
		}
	case errors.Is(err, fs.ErrNotExist) || configPath == "":
	default:
		return nil, derrors.ConfigError("failed to read config file").WithCause(err).WithContext("file", configPath).Build()
	}

	applyEnvOverrides(&cfg)

	if err := applyDefaults(&cfg); err != nil {
		return nil, derrors.ConfigError("failed to apply defaults").WithCause(err).Build()
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, derrors.ConfigError("invalid configuration: " + err.Error()).WithCause(err).Build()
	}
	return &cfg, nil
}

// Default returns a configuration with only defaults and environment applied.
func Default() *Config {
	var cfg Config
	applyEnvOverrides(&cfg)
	_ = applyDefaults(&cfg)
	return &cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("file", configPath).
			Build()
	}

	example := Config{
		Server: ServerConfig{
			Port:         8080,
			SiteDir:      "./dist",
			MaxBodyBytes: DefaultMaxBodyBytes,
			CORS:         CORSConfig{Enabled: true},
		},
		Storage: StorageConfig{DocumentPath: "./config.json"},
		Auth:    AuthConfig{AdminPassword: "${ADMIN_PASSWORD}"},
		Audit:   AuditConfig{Enabled: true, Database: "./aboutme-audit.db"},
		Notify: NotifyConfig{
			Enabled: false,
			URL:     "nats://localhost:4222",
			Subject: "aboutme.config",
		},
		Watch: WatchConfig{Enabled: true, Debounce: "500ms"},
		LinkCheck: LinkCheckConfig{
			Enabled:       false,
			Interval:      "6h",
			Timeout:       "10s",
			MaxConcurrent: 4,
		},
		MCP: MCPConfig{Enabled: false, Path: "/mcp"},
		Monitoring: MonitoringConfig{
			Metrics: MonitoringMetrics{Enabled: true, Path: "/metrics"},
			Logging: MonitoringLogging{Level: LogLevelInfo, Format: LogFormatText},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// #nosec G306 -- example config is not secret; the password is an env reference
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
