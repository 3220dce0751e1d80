package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"db_driver":"postgres","app_port":"9000","bcrypt_cost":12}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nJWT_TTL=\"2h\"\n# comment\n"), 0o644))
	t.Setenv("STATS_CACHE_TTL", "5s")

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env")) })

	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "9100", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "12", get("BCRYPT_COST", ""))
	assert.Equal(t, 2*time.Hour, duration("JWT_TTL", time.Minute))
	assert.Equal(t, 5*time.Second, duration("STATS_CACHE_TTL", time.Minute))
}

func TestMissingFilesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env")))

	assert.Equal(t, defaultDatabaseDriver, get("DB_DRIVER", ""))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
	assert.Equal(t, defaultStatsCacheTTL, duration("STATS_CACHE_TTL", defaultStatsCacheTTL))
}

func TestMalformedJSONIsReported(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{not json`), 0o644))

	assert.Error(t, loadFromFiles(jsonPath, filepath.Join(dir, ".env")))
}
