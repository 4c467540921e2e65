package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/calaudit/internal/timeline"
)

// Config is the top-level application configuration.
type Config struct {
	// DayStart and DayEnd bound the audited workday window ("HH:MM").
	DayStart string `yaml:"day_start"`
	DayEnd   string `yaml:"day_end"`

	// LongBlockThresholdMinutes marks busy blocks strictly longer than this
	// as long.
	LongBlockThresholdMinutes int `yaml:"long_block_threshold_minutes"`

	// Timezone is the IANA timezone used to resolve civil dates
	// (e.g. "Europe/Berlin"). Empty means the system local zone.
	Timezone string `yaml:"timezone"`

	// Users are the calendar IDs (email addresses) audited by default when
	// no --users flag is given.
	Users []string `yaml:"users"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DayStart:                  "07:00",
		DayEnd:                    "17:00",
		LongBlockThresholdMinutes: 60,
		Users:                     []string{},
	}
}

// Normalize fills missing/zero values with defaults so partially-filled
// configs from older versions still behave correctly.
func (c *Config) Normalize() {
	if c.DayStart == "" {
		c.DayStart = "07:00"
	}
	if c.DayEnd == "" {
		c.DayEnd = "17:00"
	}
	if c.LongBlockThresholdMinutes <= 0 {
		c.LongBlockThresholdMinutes = 60
	}
	if c.Users == nil {
		c.Users = []string{}
	}
}

// Workday returns the timeline workday configuration derived from c.
func (c *Config) Workday() timeline.WorkdayConfig {
	return timeline.WorkdayConfig{
		DayStart:                  c.DayStart,
		DayEnd:                    c.DayEnd,
		LongBlockThresholdMinutes: c.LongBlockThresholdMinutes,
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the workday window invariant and the timezone.
func (c *Config) Validate() error {
	if err := c.Workday().Validate(); err != nil {
		return err
	}
	_, err := c.Location()
	return err
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(userConfigDir(), "calaudit", "config.yaml")
}

// Load loads configuration from the given YAML path. A missing file is a
// first run: a default config is written and returned. An existing file is
// parsed, normalized, and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calaudit-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func userConfigDir() string {
	if runtime.GOOS == "windows" {
		if v := os.Getenv("APPDATA"); v != "" {
			return v
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}
