package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calaudit/internal/timeline"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "07:00", cfg.DayStart)
	assert.Equal(t, "17:00", cfg.DayEnd)
	assert.Equal(t, 60, cfg.LongBlockThresholdMinutes)

	// The file was created with restrictive permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{
		DayStart:                  "08:30",
		DayEnd:                    "16:00",
		LongBlockThresholdMinutes: 45,
		Timezone:                  "UTC",
		Users:                     []string{"a@example.com", "b@example.com"},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRejectsInvalidWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("day_start: \"18:00\"\nday_end: \"09:00\"\n"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, timeline.ErrInvalidWorkdayConfig)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()
	assert.Equal(t, "07:00", cfg.DayStart)
	assert.Equal(t, "17:00", cfg.DayEnd)
	assert.Equal(t, 60, cfg.LongBlockThresholdMinutes)
	assert.NotNil(t, cfg.Users)
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.NotNil(t, loc)

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
