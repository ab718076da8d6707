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

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "postgres:\n  dsn: postgres://localhost/wh\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/wh", c.Postgres.DSN)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.False(t, c.Audit.InventoryUpdates)
	assert.Equal(t, 30*time.Second, c.Dashboard.CacheTTL)
	assert.Equal(t, time.UTC, c.Location())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "postgres:\n  dsn: postgres://localhost/wh\naudit:\n  inventory_updates: false\n")
	t.Setenv("APP_POSTGRES_DSN", "postgres://db/override")
	t.Setenv("APP_AUDIT_INVENTORY_UPDATES", "true")
	t.Setenv("APP_DASHBOARD_CACHE_TTL", "2m")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/override", c.Postgres.DSN)
	assert.True(t, c.Audit.InventoryUpdates)
	assert.Equal(t, 2*time.Minute, c.Dashboard.CacheTTL)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	var c Config
	c.App.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, c.Location())
}
