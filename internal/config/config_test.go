package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/campus-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "file", cfg.State.Driver)
	assert.Equal(t, "auth-storage", cfg.State.Namespace)
	assert.Equal(t, 2000, cfg.Chat.MaxInputLength)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
backend:
  base_url: http://campus.internal:9000
state:
  driver: sqlite
  sqlite:
    path: /tmp/state.db
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("STATE_ENCRYPTION_KEY", "passphrase")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://campus.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, "sqlite", cfg.State.Driver)
	assert.Equal(t, "/tmp/state.db", cfg.State.SQLite.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "passphrase", cfg.State.EncryptionKey)
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CAMPUS_API_BASE_URL", "https://api.campus.example")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.campus.example", cfg.Backend.BaseURL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/d?sslmode=disable", c.DSN())

	c.Port = 3306
	assert.Equal(t, "u:p@tcp(db:3306)/d?parseTime=true", c.MySQLDSN())
}
