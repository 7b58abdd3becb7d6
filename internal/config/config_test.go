package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COINDASH_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "exports"), cfg.ExportDir)
	assert.DirExists(t, cfg.ExportDir)
	assert.Equal(t, StoreBackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "@every 3s", cfg.PriceFeedSchedule)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.False(t, cfg.DevMode)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COINDASH_DATA_DIR", dir)
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "out"))
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("GO_PORT", "9090")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("ITEMS_PER_PAGE", "25")
	t.Setenv("PRICE_FEED_SCHEDULE", "@every 1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out"), cfg.ExportDir)
	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 25, cfg.ItemsPerPage)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "@every 1m", cfg.PriceFeedSchedule)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("COINDASH_DATA_DIR", t.TempDir())
	t.Setenv("GO_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
}

func TestValidate(t *testing.T) {
	valid := Config{StoreBackend: StoreBackendSQLite, Port: 8001, ItemsPerPage: 10}
	assert.NoError(t, valid.Validate())

	badBackend := valid
	badBackend.StoreBackend = "redis"
	assert.Error(t, badBackend.Validate())

	badPort := valid
	badPort.Port = 70000
	assert.Error(t, badPort.Validate())

	badPage := valid
	badPage.ItemsPerPage = 0
	assert.Error(t, badPage.Validate())
}
