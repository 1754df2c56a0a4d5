package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// ManifestName is the YAML index file looked up at the corpus root.
const ManifestName = "manifest.yaml"

// ManifestEntry describes one catalogued corpus source.
type ManifestEntry struct {
	Path     string   `yaml:"path" json:"path"`
	Title    string   `yaml:"title" json:"title"`
	Composer string   `yaml:"composer,omitempty" json:"composer,omitempty"`
	Tags     []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Manifest is the optional corpus catalog: source metadata keyed by
// relative path. Corpora without one still work through glob search.
type Manifest struct {
	Sources []ManifestEntry `yaml:"sources"`
}

// Entry returns the catalog entry for a relative path.
func (m *Manifest) Entry(relPath string) (ManifestEntry, bool) {
	for _, e := range m.Sources {
		if e.Path == relPath {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// Manifest reads the corpus catalog from the root directory. A missing
// manifest yields an empty catalog, not an error; a malformed one is a
// real error.
func (l *Library) Manifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(l.root, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for _, e := range manifest.Sources {
		if e.Path == "" {
			return nil, fmt.Errorf("parse manifest: entry %q has no path", e.Title)
		}
	}
	return &manifest, nil
}
