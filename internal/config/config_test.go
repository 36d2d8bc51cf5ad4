package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultOracleBaseURL, cfg.Oracle.BaseURL)
	assert.Equal(t, DefaultOracleModel, cfg.Oracle.Model)
	assert.Equal(t, DefaultOracleTimeout, cfg.Oracle.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.Oracle.MaxRetries)
	assert.Equal(t, DefaultBackoff, cfg.Oracle.Backoff)
	assert.Equal(t, DefaultConcurrency, cfg.Engine.Concurrency)
	assert.Equal(t, float64(DefaultNominalUsage), cfg.Engine.NominalUsage)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "procura.yaml")
	content := `
oracle:
  base_url: https://llm.internal.example/v1
  model: test-model
  timeout: 5s
  max_retries: 1
engine:
  concurrency: 8
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://llm.internal.example/v1", cfg.Oracle.BaseURL)
	assert.Equal(t, "test-model", cfg.Oracle.Model)
	assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 1, cfg.Oracle.MaxRetries)
	assert.Equal(t, 8, cfg.Engine.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, DefaultBackoff, cfg.Oracle.Backoff)
	assert.Equal(t, float64(DefaultNominalUsage), cfg.Engine.NominalUsage)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestOracleAPIKeyFromEnv(t *testing.T) {
	t.Setenv("PROCURA_TEST_ORACLE_KEY", "sk-test")
	o := Oracle{APIKeyEnv: "PROCURA_TEST_ORACLE_KEY"}
	assert.Equal(t, "sk-test", o.APIKey())

	o = Oracle{APIKeyEnv: "PROCURA_TEST_ORACLE_KEY_UNSET"}
	assert.Empty(t, o.APIKey())
}
