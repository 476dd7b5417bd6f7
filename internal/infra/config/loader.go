package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Loader loads configuration from TOML files.
type Loader struct {
	globalPath   string // Global config path (XDG)
	workspaceDir string // Directory searched for the workspace config
}

// NewLoader creates a new Loader rooted at the given workspace directory.
func NewLoader(workspaceDir string) *Loader {
	return &Loader{
		globalPath:   GlobalConfigPath(),
		workspaceDir: workspaceDir,
	}
}

// NewLoaderWithGlobalPath creates a Loader with a custom global config
// path. This is useful for testing.
func NewLoaderWithGlobalPath(workspaceDir, globalPath string) *Loader {
	return &Loader{
		globalPath:   globalPath,
		workspaceDir: workspaceDir,
	}
}

// Load returns the merged configuration (defaults <- global <- workspace).
func (l *Loader) Load() (*Config, error) {
	cfg := NewDefault()

	if l.globalPath != "" {
		if err := mergeFile(cfg, l.globalPath); err != nil {
			return nil, err
		}
	}
	if l.workspaceDir != "" {
		if err := mergeFile(cfg, filepath.Join(l.workspaceDir, WorkspaceConfigName)); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the file's settings onto cfg. A missing file is
// not an error.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var overlay Config
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	merge(cfg, &overlay)
	return nil
}

// merge overlays non-zero fields of override onto base.
func merge(base, override *Config) {
	if override.Owner != "" {
		base.Owner = override.Owner
	}
	if override.Store.Backend != "" {
		base.Store.Backend = override.Store.Backend
	}
	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}
	if override.Store.DSN != "" {
		base.Store.DSN = override.Store.DSN
	}
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		base.Log.File = override.Log.File
	}
	if override.Timer.Tick != "" {
		base.Timer.Tick = override.Timer.Tick
	}
	if override.Timer.MinUpdate != "" {
		base.Timer.MinUpdate = override.Timer.MinUpdate
	}
	if override.Timer.ErrorTTL != "" {
		base.Timer.ErrorTTL = override.Timer.ErrorTTL
	}
	if override.Achievements.Catalog != "" {
		base.Achievements.Catalog = override.Achievements.Catalog
	}
	if override.Achievements.CacheTTL != "" {
		base.Achievements.CacheTTL = override.Achievements.CacheTTL
	}
	if override.HTTP.Listen != "" {
		base.HTTP.Listen = override.HTTP.Listen
	}
	if override.HTTP.JWTSecret != "" {
		base.HTTP.JWTSecret = override.HTTP.JWTSecret
	}
	if len(override.HTTP.AllowedOrigins) > 0 {
		base.HTTP.AllowedOrigins = override.HTTP.AllowedOrigins
	}
}
