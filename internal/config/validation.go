package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks a configuration after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateServer(); err != nil {
		return err
	}
	if err := cv.validateDurations(); err != nil {
		return err
	}
	if err := cv.validateNotify(); err != nil {
		return err
	}
	return cv.validatePaths()
}

func (cv *configurationValidator) validateServer() error {
	s := cv.config.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", s.Port)
	}
	for _, origin := range s.CORS.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid CORS origin: %q", origin)
		}
	}
	return nil
}

func (cv *configurationValidator) validateDurations() error {
	durations := map[string]string{
		"watch.debounce":      cv.config.Watch.Debounce,
		"link_check.interval": cv.config.LinkCheck.Interval,
		"link_check.timeout":  cv.config.LinkCheck.Timeout,
	}
	for field, raw := range durations {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive", field)
		}
	}
	if cv.config.LinkCheck.Enabled && cv.config.LinkCheck.IntervalDuration() < time.Minute {
		return fmt.Errorf("link_check.interval must be at least 1m")
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if !n.Enabled {
		return nil
	}
	if !strings.HasPrefix(n.URL, "nats://") && !strings.HasPrefix(n.URL, "tls://") {
		return fmt.Errorf("invalid notify.nats_url: %q", n.URL)
	}
	if strings.ContainsAny(n.Subject, " *>") {
		return fmt.Errorf("invalid notify.subject: %q", n.Subject)
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	for name, p := range map[string]string{
		"monitoring.metrics.path": cv.config.Monitoring.Metrics.Path,
		"mcp.path":                cv.config.MCP.Path,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with /: %q", name, p)
		}
		if strings.HasPrefix(p, "/api/") {
			return fmt.Errorf("%s must not be under /api/: %q", name, p)
		}
	}
	return nil
}
