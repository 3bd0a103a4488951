package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/orgs-directory-service/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestConfigLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "data/db.json", cfg.Store.File.Path)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.False(t, cfg.Pagination.StrictPages)
	assert.Equal(t, "127.0.0.1:3000", cfg.App.Addr())
}

func TestConfigLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "orgs-directory-service", cfg.App.Name)
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	yaml := `
app:
  name: orgs
  env: test
  port: 18080
  shutdown_timeout: 3s

logger:
  level: info
  format: json
  output_target: stdout

store:
  driver: postgres

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5

pagination:
  strict_pages: true
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, 3*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Pagination.StrictPages)
}

func TestConfigLoad_PostgresWithoutCredentialsFails(t *testing.T) {
	path := writeTempConfig(t, "store:\n  driver: postgres\n")
	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_DB", "")
	t.Setenv("APP_POSTGRES_URL", "")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_UnknownDriverFails(t *testing.T) {
	t.Setenv("APP_STORE_DRIVER", "mongo")
	_, err := config.Load("")
	assert.Error(t, err)
}

func TestConfigLoad_RedisInMemory(t *testing.T) {
	t.Setenv("APP_STORE_DRIVER", "redis")
	t.Setenv("APP_REDIS_IN_MEMORY", "true")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Redis.InMemory)
	assert.Equal(t, "orgs:document", cfg.Redis.Key)
}
