package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no .env is picked up.
func chdirTemp(t *testing.T) string {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 30, cfg.Scheduling.SlotMinutes)
	assert.False(t, cfg.Scheduling.RequireContainment)
	assert.Equal(t, 24*time.Hour, cfg.Scheduling.QueueCacheTTL)
	assert.Equal(t, "clinic:appointments", cfg.Notify.Channel)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.False(t, cfg.JWT.AuthEnabled)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SCHEDULING_SLOT_MINUTES", "15")
	t.Setenv("SCHEDULING_REQUIRE_CONTAINMENT", "true")
	t.Setenv("QUEUE_CACHE_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Scheduling.SlotMinutes)
	assert.True(t, cfg.Scheduling.RequireContainment)
	assert.Equal(t, 5*time.Minute, cfg.Scheduling.QueueCacheTTL)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_PORT=9090\nDB_NAME=clinic\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "clinic", cfg.DB.Name)
}

func TestLoadConfig_AuthNeedsSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_CORSOriginsList(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://frontdesk.local, ,http://admin.local")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://frontdesk.local", "http://admin.local"}, cfg.App.CORSOrigins)
}
