package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every CREDVAULT_ env var that Load() reads.
var allConfigKeys = []string{
	"CREDVAULT_STORE_PATH",
	"CREDVAULT_BACKEND",
	"CREDVAULT_LOG_LEVEL",
	"CREDVAULT_SKILLS_DIR",
}

// isolateConfigEnv saves and unsets all CREDVAULT_ env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "credvault.sqlite", cfg.StorePath)
	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.SkillsDir)
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CREDVAULT_STORE_PATH", "/tmp/creds.json")
	t.Setenv("CREDVAULT_BACKEND", "json")
	t.Setenv("CREDVAULT_LOG_LEVEL", "debug")
	t.Setenv("CREDVAULT_SKILLS_DIR", "/srv/skills")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/creds.json", cfg.StorePath)
	assert.Equal(t, "json", cfg.Backend)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/srv/skills", cfg.SkillsDir)
}

func TestLoad_InvalidBackend(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CREDVAULT_BACKEND", "postgres")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CREDVAULT_BACKEND")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CREDVAULT_LOG_LEVEL", "loud")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CREDVAULT_LOG_LEVEL")
}
