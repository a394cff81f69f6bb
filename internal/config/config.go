package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server's runtime settings, loaded from an optional
// YAML file and then overridden by ATTACKMODE_* environment variables.
type Config struct {
	Addr            string `yaml:"addr"`
	DBPath          string `yaml:"db_path"`
	SessionSecret   string `yaml:"session_secret"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
	// Timezone is the IANA zone used for calendar-day bucketing and
	// streak day keys. All users share it.
	Timezone string `yaml:"timezone"`
	Debug    bool   `yaml:"debug"`
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "attackmode.yaml"
	}
	return filepath.Join(home, ".config", "attackmode", "attackmode.yaml")
}

func defaults() Config {
	dataDir := "attackmode.db"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".config", "attackmode", "attackmode.db")
	}
	return Config{
		Addr:            ":8080",
		DBPath:          dataDir,
		SessionTTLHours: 24 * 7,
		Timezone:        "UTC",
	}
}

// Load reads the config file at path if it exists, then applies env
// overrides. A missing file is not an error; missing required values
// surface from Validate instead.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ATTACKMODE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("ATTACKMODE_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ATTACKMODE_SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv("ATTACKMODE_SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			c.SessionTTLHours = hours
		}
	}
	if v := os.Getenv("ATTACKMODE_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("ATTACKMODE_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

// Validate checks the settings a running server cannot do without.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required (or set ATTACKMODE_SESSION_SECRET)")
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("session_ttl_hours must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured reference timezone. Call Validate
// first; an invalid zone falls back to UTC here.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}
