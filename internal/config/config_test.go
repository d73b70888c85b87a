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
	path := filepath.Join(t.TempDir(), "pmadmin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendRemote, cfg.Backend.Mode)
	assert.Equal(t, SessionDriverFile, cfg.Session.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Stub.Security.JWTAccessTTL)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
backend:
  mode: stub
session:
  driver: memory
api:
  timeout: 5s
stub:
  allowcorsorigins: "http://a.test,http://b.test"
`)
	t.Setenv("API_BASE_URL", "https://pm.example.com/api")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendStub, cfg.Backend.Mode)
	assert.Equal(t, SessionDriverMemory, cfg.Session.Driver)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "https://pm.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Stub.AllowCORSOrigins)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, "backend:\n  mode: mock\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.mode")
}
