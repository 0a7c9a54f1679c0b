package config

import (
	"strings"

	"git.home.luguber.info/inful/aboutme/internal/auth"
)

// Defaults.
const (
	DefaultPort          = 8080
	DefaultMaxBodyBytes  = 1 << 20
	DefaultSiteDir       = "dist"
	DefaultDocumentPath  = "config.json"
	DefaultAuditDatabase = "aboutme-audit.db"
	DefaultNotifySubject = "aboutme.config"
	DefaultNATSURL       = "nats://127.0.0.1:4222"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.SiteDir == "" {
		cfg.Server.SiteDir = DefaultSiteDir
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Storage.DocumentPath == "" {
		cfg.Storage.DocumentPath = DefaultDocumentPath
	}
	if cfg.Auth.AdminPassword == "" {
		cfg.Auth.AdminPassword = auth.DefaultAdminPassword
	}
	return nil
}

type integrationDefaults struct{}

func (integrationDefaults) Domain() string { return "integrations" }

func (integrationDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Audit.Database == "" {
		cfg.Audit.Database = DefaultAuditDatabase
	}
	if cfg.Notify.URL == "" {
		cfg.Notify.URL = DefaultNATSURL
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	cfg.Notify.Subject = strings.TrimSuffix(cfg.Notify.Subject, ".")
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "500ms"
	}
	if cfg.LinkCheck.Interval == "" {
		cfg.LinkCheck.Interval = "6h"
	}
	if cfg.LinkCheck.Timeout == "" {
		cfg.LinkCheck.Timeout = "10s"
	}
	if cfg.LinkCheck.MaxConcurrent <= 0 {
		cfg.LinkCheck.MaxConcurrent = 4
	}
	if cfg.MCP.Path == "" {
		cfg.MCP.Path = "/mcp"
	}
	return nil
}

type monitoringDefaults struct{}

func (monitoringDefaults) Domain() string { return "monitoring" }

func (monitoringDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = "/metrics"
	}
	cfg.Monitoring.Logging.Level = NormalizeLogLevel(string(cfg.Monitoring.Logging.Level))
	cfg.Monitoring.Logging.Format = NormalizeLogFormat(string(cfg.Monitoring.Logging.Format))
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{serverDefaults{}, integrationDefaults{}, monitoringDefaults{}}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
