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
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 24*7, cfg.SessionTTLHours)
	assert.False(t, cfg.Debug)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attackmode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
session_secret: file-secret
timezone: America/New_York
debug: true
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "file-secret", cfg.SessionSecret)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.True(t, cfg.Debug)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attackmode.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\n"), 0600))

	t.Setenv("ATTACKMODE_ADDR", ":7777")
	t.Setenv("ATTACKMODE_SESSION_SECRET", "env-secret")
	t.Setenv("ATTACKMODE_SESSION_TTL_HOURS", "48")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "env-secret", cfg.SessionSecret)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attackmode.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	assert.Error(t, cfg.Validate(), "missing session secret must fail")

	cfg.SessionSecret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.Timezone = "Neither/Here"
	assert.Error(t, cfg.Validate())
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
