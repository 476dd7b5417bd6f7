// Package catalog loads the achievement catalog from a YAML file.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// fileData is the YAML file structure.
type fileData struct {
	Achievements []domain.Achievement `yaml:"achievements"`
}

// File implements domain.AchievementCatalog backed by a YAML file.
// An empty path serves the built-in defaults.
type File struct {
	path string
}

// New creates a catalog for the given file path.
func New(path string) *File {
	return &File{path: path}
}

// List reads and parses the catalog. Each call re-reads the file;
// callers wanting caching wrap this in achievements.Cache.
func (f *File) List(_ context.Context) ([]domain.Achievement, error) {
	content := defaultsYAML
	if f.path != "" {
		read, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		content = read
	}
	return parse(content)
}

func parse(content []byte) ([]domain.Achievement, error) {
	var data fileData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(data.Achievements))
	for _, a := range data.Achievements {
		if a.ID == "" {
			return nil, fmt.Errorf("catalog entry %q: missing id", a.Title)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", a.ID)
		}
		seen[a.ID] = true
	}
	return data.Achievements, nil
}

var _ domain.AchievementCatalog = (*File)(nil)
