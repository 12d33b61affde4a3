package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva-Kanherkar/reverie/internal/insights"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "reverie", filepath.Base(cfg.StoragePath))
	assert.Equal(t, insights.DefaultSettings(), cfg.Insights.Settings)
	assert.Equal(t, insights.DefaultLookbackDays, cfg.Insights.LookbackDays)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage_path: /var/lib/reverie
timezone: America/New_York
log:
  level: debug
  format: json
insights:
  frequency: weekly
  min_confidence: 0.75
  allow_coach_mentions: false
  lookback_days: 30
`), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/reverie", cfg.StoragePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, insights.FrequencyWeekly, cfg.Insights.Frequency)
	assert.Equal(t, 0.75, cfg.Insights.MinConfidence)
	assert.False(t, cfg.Insights.AllowCoachMentions)
	assert.True(t, cfg.Insights.Enabled, "unset keys keep their defaults")
	assert.Equal(t, 30, cfg.Insights.LookbackDays)
	assert.Equal(t, insights.DefaultContextLimit, cfg.Insights.ContextLimit)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("insights:\n  frequency: hourly\n"), 0600))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	tz := filepath.Join(dir, "tz.yaml")
	require.NoError(t, os.WriteFile(tz, []byte("timezone: Mars/Olympus\n"), 0600))
	_, err = LoadFile(tz)
	assert.Error(t, err)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_path: /from/file\n"), 0600))

	t.Setenv(EnvStoragePath, filepath.Join(dir, "data"))
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvTimezone, "UTC")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.StoragePath)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoad_UsesHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvStoragePath, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvTimezone, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "reverie"), cfg.StoragePath)

	cfg.Timezone = "UTC"
	cfg.StoragePath = filepath.Join(home, "elsewhere")
	require.NoError(t, cfg.Save())

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(home, ".config", "reverie", "config.yaml"), path)

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "UTC", reloaded.Timezone)
	assert.Equal(t, filepath.Join(home, "elsewhere"), reloaded.StoragePath)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Setenv(EnvStoragePath, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Insights.Frequency = insights.FrequencyManual
	cfg.Insights.ContextLimit = 5
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, insights.FrequencyManual, loaded.Insights.Frequency)
	assert.Equal(t, 5, loaded.Insights.ContextLimit)
	assert.Equal(t, cfg.StoragePath, loaded.StoragePath)
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), expandTilde("~/data"))
	assert.Equal(t, "/abs/path", expandTilde("/abs/path"))
	assert.Equal(t, "", expandTilde(""))
}

func TestEnsureStorageDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StoragePath = filepath.Join(t.TempDir(), "nested", "store")
	require.NoError(t, cfg.EnsureStorageDir())

	info, err := os.Stat(cfg.StoragePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
