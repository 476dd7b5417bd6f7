// Package config provides configuration loading functionality.
// Settings merge in order: defaults <- global (XDG) <- workspace file,
// with later sources taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	Owner        string             `toml:"owner,omitempty"` // Owner id used by the CLI (default: "local")
	Store        StoreConfig        `toml:"store"`
	Log          LogConfig          `toml:"log"`
	Timer        TimerConfig        `toml:"timer"`
	Achievements AchievementsConfig `toml:"achievements"`
	HTTP         HTTPConfig         `toml:"http"`
}

// StoreConfig holds settings from the [store] section.
type StoreConfig struct {
	Backend string `toml:"backend,omitempty"` // "memory", "file" (default) or "postgres"
	Path    string `toml:"path,omitempty"`    // File store path (default: XDG data dir)
	DSN     string `toml:"dsn,omitempty"`     // PostgreSQL connection string
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	File  string `toml:"file,omitempty"`  // Log file path (default: XDG data dir)
}

// TimerConfig holds settings from the [timer] section.
// Durations are TOML strings in time.ParseDuration syntax.
type TimerConfig struct {
	Tick      string `toml:"tick,omitempty"`       // UI tick interval (default: "1s")
	MinUpdate string `toml:"min_update,omitempty"` // Throttle between elapsed updates (default: "1s")
	ErrorTTL  string `toml:"error_ttl,omitempty"`  // How long a surfaced error stays visible (default: "5s")
}

// AchievementsConfig holds settings from the [achievements] section.
type AchievementsConfig struct {
	Catalog  string `toml:"catalog,omitempty"`   // Catalog YAML path (empty = built-in defaults)
	CacheTTL string `toml:"cache_ttl,omitempty"` // Catalog cache lifetime (default: "30m")
}

// HTTPConfig holds settings from the [http] section.
type HTTPConfig struct {
	Listen         string   `toml:"listen,omitempty"`          // Listen address (default: "127.0.0.1:8868")
	JWTSecret      string   `toml:"jwt_secret,omitempty"`      // HMAC secret for bearer tokens
	AllowedOrigins []string `toml:"allowed_origins,omitempty"` // CORS origins (default: none)
}

// Default configuration values.
const (
	DefaultOwner     = "local"
	DefaultLogLevel  = "info"
	DefaultListen    = "127.0.0.1:8868"
	DefaultTick      = time.Second
	DefaultMinUpdate = time.Second
	DefaultErrorTTL  = 5 * time.Second
	DefaultCacheTTL  = 30 * time.Minute
)

// File names.
const (
	AppDirName          = "focusflow"
	ConfigFileName      = "config.toml"
	WorkspaceConfigName = ".focusflow.toml"
	StoreFileName       = "store.json"
	LogFileName         = "focusflow.log"
)

// NewDefault returns a Config with default values.
func NewDefault() *Config {
	return &Config{
		Owner: DefaultOwner,
		Store: StoreConfig{
			Backend: StoreFile,
			Path:    filepath.Join(defaultDataDir(), StoreFileName),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			File:  filepath.Join(defaultDataDir(), LogFileName),
		},
		HTTP: HTTPConfig{
			Listen: DefaultListen,
		},
	}
}

// defaultDataDir returns the XDG data directory for the app.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppDirName
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDirName, ConfigFileName)
}

// TickInterval returns the parsed [timer].tick value.
func (c *Config) TickInterval() (time.Duration, error) {
	return parseDuration(c.Timer.Tick, DefaultTick, "timer.tick")
}

// MinUpdateInterval returns the parsed [timer].min_update value.
func (c *Config) MinUpdateInterval() (time.Duration, error) {
	return parseDuration(c.Timer.MinUpdate, DefaultMinUpdate, "timer.min_update")
}

// ErrorTTL returns the parsed [timer].error_ttl value.
func (c *Config) ErrorTTL() (time.Duration, error) {
	return parseDuration(c.Timer.ErrorTTL, DefaultErrorTTL, "timer.error_ttl")
}

// CacheTTL returns the parsed [achievements].cache_ttl value.
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration(c.Achievements.CacheTTL, DefaultCacheTTL, "achievements.cache_ttl")
}

func parseDuration(s string, fallback time.Duration, key string) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

// Validate checks cross-field constraints not covered by parsing.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StorePostgres:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if c.Store.Backend == StorePostgres && c.Store.DSN == "" {
		return fmt.Errorf("store backend %q requires store.dsn", StorePostgres)
	}
	for _, fn := range []func() (time.Duration, error){
		c.TickInterval, c.MinUpdateInterval, c.ErrorTTL, c.CacheTTL,
	} {
		if _, err := fn(); err != nil {
			return err
		}
	}
	return nil
}
