package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  driver: redis
  redis_addr: redis:6379
  redis_ttl: 48h
interview:
  question_delay: 500ms
  tick_interval: 1s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, 48*time.Hour, cfg.Storage.RedisTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Interview.QuestionDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("QUESTION_DELAY", "0s")
	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, time.Duration(0), cfg.Interview.QuestionDelay)
	assert.True(t, cfg.Export.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown driver":   "storage:\n  driver: etcd\n",
		"bad port":         "server:\n  port: 70000\n",
		"zero tick":        "interview:\n  tick_interval: 0s\n",
		"sqlite no path":   "storage:\n  driver: sqlite\n  sqlite_path: \"\"\n",
		"export no sched":  "export:\n  enabled: true\n  schedule: \"\"\n",
		"bad level":        "log:\n  level: loud\n",
		"malformed yaml":   "server: [\n",
		"negative delay":   "interview:\n  question_delay: -1s\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}
