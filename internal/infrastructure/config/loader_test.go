package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfigDir(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	original := ConfigPaths
	ConfigPaths = []string{dir}
	t.Cleanup(func() { ConfigPaths = original })
}

func TestLoadConfigFromFile(t *testing.T) {
	useConfigDir(t, map[string]string{
		"test.yaml": `
server:
  port: 9090
  writeTimeout: 45
database:
  driver: sqlite
  database: cashely.db
gateway:
  driver: sandbox
  timeout: 3
  verifyIdentity: false
  preferredBanks: ["035", "50515"]
ledger:
  workerIdleTime: 30
`,
	})
	t.Setenv("CASHELY_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "defaults fill keys missing from the file")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "cashely.db", cfg.Database.Database)
	assert.Equal(t, "sandbox", cfg.Gateway.Driver)
	assert.Equal(t, 3*time.Second, cfg.Gateway.Timeout)
	assert.False(t, cfg.Gateway.VerifyIdentity)
	assert.Equal(t, []string{"035", "50515"}, cfg.Gateway.PreferredBanks)
	assert.Equal(t, 30*time.Second, cfg.Ledger.WorkerIdleTime)
	assert.Equal(t, "NGN", cfg.Ledger.DefaultCurrency)
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	useConfigDir(t, nil)
	t.Setenv("CASHELY_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, 15*time.Second, cfg.Gateway.Timeout)
	assert.True(t, cfg.Gateway.VerifyIdentity)
	assert.Equal(t, []string{"50515"}, cfg.Gateway.PreferredBanks)
	assert.Equal(t, 100, cfg.Ledger.QueueSize)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	useConfigDir(t, map[string]string{
		"test.yaml": "database:\n  host: from-file\n",
	})
	t.Setenv("CASHELY_ENV", "TEST")
	t.Setenv("CASHELY_DB_HOST", "db.internal")
	t.Setenv("CASHELY_DB_PASSWORD", "s3cret")
	t.Setenv("CASHELY_MONNIFY_API_KEY", "MK_TEST_KEY")
	t.Setenv("CASHELY_LEDGER_QUEUESIZE", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "MK_TEST_KEY", cfg.Gateway.APIKey)
	assert.Equal(t, 7, cfg.Ledger.QueueSize)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	useConfigDir(t, map[string]string{
		"test.yaml": "server: [unclosed",
	})
	t.Setenv("CASHELY_ENV", "test")

	_, err := LoadConfig()
	assert.Error(t, err)
}
