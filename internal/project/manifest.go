package project

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest is the project configuration file (refu.toml): the root module's
// name, where to find the standard library, and extra module search paths.
type Manifest struct {
	Root       string   `toml:"root"`
	StdlibPath string   `toml:"stdlib_path"`
	SearchPath []string `toml:"search_path"`
}

// DefaultManifest returns sensible defaults for a project with no refu.toml.
func DefaultManifest() Manifest {
	return Manifest{
		Root:       "main",
		StdlibPath: "std",
		SearchPath: nil,
	}
}

// LoadManifest reads and decodes a refu.toml file at path. A missing file is
// not an error; DefaultManifest is returned instead, matching the teacher's
// project_manifest.go fallback behavior.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("project: reading manifest %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &m); err != nil {
		return m, fmt.Errorf("project: decoding manifest %s: %w", path, err)
	}
	if m.Root == "" {
		m.Root = "main"
	}
	if m.StdlibPath == "" {
		m.StdlibPath = "std"
	}
	return m, nil
}
