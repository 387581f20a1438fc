// Package manifest loads and validates the build manifest: the declarative
// description of what the bundler packages — entry point, embedded data
// directories, hidden imports, exclusions, and macOS bundle metadata.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrMissingField indicates a required manifest field is absent.
var ErrMissingField = errors.New("missing required field")

// ErrMissingPath indicates a path named by the manifest does not exist.
var ErrMissingPath = errors.New("path does not exist")

// DataDir is one source → destination pair embedded into the bundle.
// Source is relative to the manifest's directory; Dest is the path inside
// the bundle the data is unpacked to at run time.
type DataDir struct {
	Source string `toml:"source"`
	Dest   string `toml:"dest"`
}

// Manifest is the declarative packaging input read from packaging.toml.
type Manifest struct {
	// Name is the bundle name ("ExpenseHelper" → ExpenseHelper.app /
	// ExpenseHelper.exe). Required.
	Name string `toml:"name"`
	// Entry is the application entry-point script. Required, must exist.
	Entry string `toml:"entry"`
	// Windowed selects GUI mode (no console window) for the bundle.
	Windowed bool `toml:"windowed"`

	// macOS bundle metadata.
	BundleID       string `toml:"bundle_id"`
	MinOSVersion   string `toml:"min_os_version"`
	HighResolution bool   `toml:"high_resolution"`

	// Icon is an optional platform icon file (icns/ico). Must exist if set.
	Icon string `toml:"icon"`

	Data          []DataDir `toml:"data"`
	HiddenImports []string  `toml:"hidden_imports"`
	Excludes      []string  `toml:"excludes"`

	// Dir is the directory the manifest was loaded from. All relative
	// paths in the manifest resolve against it.
	Dir string `toml:"-"`
}

// Load reads and parses the manifest at path. The result is not yet
// validated; call Validate before handing it to the bundler.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// Resolve returns the absolute form of a manifest-relative path.
func (m *Manifest) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir, rel)
}

// Validate checks the manifest for structural correctness: required
// fields present, entry point and every data source on disk. The bundler
// fails late and cryptically on missing inputs, so this runs first.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if m.Entry == "" {
		return fmt.Errorf("%w: entry", ErrMissingField)
	}
	if _, err := os.Stat(m.Resolve(m.Entry)); err != nil {
		return fmt.Errorf("entry point %s: %w", m.Entry, ErrMissingPath)
	}
	for _, d := range m.Data {
		if d.Source == "" || d.Dest == "" {
			return fmt.Errorf("%w: data entries need both source and dest", ErrMissingField)
		}
		if _, err := os.Stat(m.Resolve(d.Source)); err != nil {
			return fmt.Errorf("data directory %s: %w", d.Source, ErrMissingPath)
		}
	}
	if m.Icon != "" {
		if _, err := os.Stat(m.Resolve(m.Icon)); err != nil {
			return fmt.Errorf("icon %s: %w", m.Icon, ErrMissingPath)
		}
	}
	return nil
}
