package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8082/api/v1", cfg.Backend.Endpoint())
	assert.Equal(t, 500*time.Millisecond, cfg.Storefront.SearchDebounce)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
backend:
  host: 10.0.0.5
  port: 9000
storefront:
  search_debounce: 250ms
redis:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9000/api/v1", cfg.Backend.Endpoint())
	assert.Equal(t, 250*time.Millisecond, cfg.Storefront.SearchDebounce)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestBackendEndpoint_BaseURLWins(t *testing.T) {
	b := BackendConfig{BaseURL: "https://shop.example.com/api/v1/", Host: "ignored", Port: 1}
	assert.Equal(t, "https://shop.example.com/api/v1", b.Endpoint())

	b = BackendConfig{Host: "h", Port: 80, PathPrefix: ""}
	assert.Equal(t, "http://h:80", b.Endpoint())
}
