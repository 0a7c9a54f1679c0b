package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPort, EnvAdminPassword, EnvDocumentPath} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aboutme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "admin123", cfg.Auth.AdminPassword)
	assert.Equal(t, DefaultDocumentPath, cfg.Storage.DocumentPath)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, LogLevelInfo, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Monitoring.Logging.Format)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceDuration())
	assert.Equal(t, "/mcp", cfg.MCP.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvAdminPassword, "from-env")
	t.Setenv(EnvDocumentPath, "/srv/doc.json")

	path := writeConfig(t, `
server:
  port: 3000
auth:
  admin_password: from-file
storage:
  document_path: ./other.json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.AdminPassword)
	assert.Equal(t, "/srv/doc.json", cfg.Storage.DocumentPath)
}

func TestLoad_ExpandsEnvInYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("ABOUTME_TEST_SUBJECT", "portfolio.events")
	path := writeConfig(t, `
notify:
  enabled: true
  nats_url: nats://nats:4222
  subject: ${ABOUTME_TEST_SUBJECT}
monitoring:
  logging:
    level: WARNING
    format: JSON
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "portfolio.events", cfg.Notify.Subject)
	assert.Equal(t, LogLevelWarn, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Monitoring.Logging.Format)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  string
	}{
		{name: "port out of range", body: "server:\n  port: 70000\n"},
		{name: "non-numeric PORT", env: "eighty"},
		{name: "bad duration", body: "watch:\n  debounce: soon\n"},
		{name: "negative timeout", body: "link_check:\n  timeout: -1s\n"},
		{name: "bad nats url", body: "notify:\n  enabled: true\n  nats_url: http://x\n"},
		{name: "wildcard subject", body: "notify:\n  enabled: true\n  subject: a.*\n"},
		{name: "metrics under api", body: "monitoring:\n  metrics:\n    path: /api/metrics\n"},
		{name: "relative mcp path", body: "mcp:\n  path: mcp\n"},
		{name: "bad cors origin", body: "server:\n  cors:\n    allowed_origins: [\"not a url\"]\n"},
		{name: "link check too frequent", body: "link_check:\n  enabled: true\n  interval: 5s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.env != "" {
				t.Setenv(EnvPort, tt.env)
			}
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "server: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
	assert.Equal(t, 7, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInit(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "aboutme.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "admin123", cfg.Auth.AdminPassword, "unset ${ADMIN_PASSWORD} falls back to the default")
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 6*time.Hour, cfg.LinkCheck.IntervalDuration())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := MonitoringLogging{Level: LogLevelWarn, Format: LogFormatJSON}.NewLogger(&buf, false)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	logger = MonitoringLogging{Level: LogLevelError}.NewLogger(&buf, true)
	logger.Debug("verbose wins")
	assert.Contains(t, buf.String(), "msg=\"verbose wins\"")
}
