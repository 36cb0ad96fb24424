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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Recipes.ExpiringDays)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
log:
  level: debug
  format: json
sales:
  feed: https://example.com/files/sales_data.csv
  refresh_interval: 5m
recipes:
  provider: azure
  expiring_days: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://example.com/files/sales_data.csv", cfg.Sales.Feed)
	assert.Equal(t, 5*time.Minute, cfg.Sales.RefreshInterval)
	assert.Equal(t, "azure", cfg.Recipes.Provider)
	assert.Equal(t, 3, cfg.Recipes.ExpiringDays)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RESTODASH_JWT_SECRET", "s3cret")
	t.Setenv("RESTODASH_SALES_FEED", "/tmp/sales.csv")

	cfg, err := Load(writeConfig(t, "recipes:\n  openai_key: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Recipes.OpenAIKey)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "/tmp/sales.csv", cfg.Sales.Feed)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"driver":   "database:\n  driver: mysql\n",
		"provider": "recipes:\n  provider: gemini\n",
		"format":   "log:\n  format: xml\n",
		"port":     "server:\n  port: -1\n",
		"yaml":     "server: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
