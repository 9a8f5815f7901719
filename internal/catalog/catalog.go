// Package catalog loads build definitions from the YAML build catalog.
//
// Build names are exposed as an explicit sorted slice so every consumer
// iterates builds in the same deterministic order.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/firmware-releaser/internal/domain/release"
)

// Catalog holds the build definitions for one run, keyed by build name.
type Catalog struct {
	// names are the build names in deterministic (sorted) order.
	names []string
	// builds maps a build name to its definition.
	builds map[string]*release.BuildDefinition
}

// Load reads the catalog from the provided YAML path.
// Relative build file paths are resolved against the catalog's directory.
// An empty catalog is valid and means there is nothing to do.
func Load(path string) (*Catalog, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var builds map[string]*release.BuildDefinition
	if err := yaml.Unmarshal(contents, &builds); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	baseDir := filepath.Dir(path)
	names := make([]string, 0, len(builds))

	for name, def := range builds {
		if def == nil {
			def = new(release.BuildDefinition)
			builds[name] = def
		}

		if def.File != "" && !filepath.IsAbs(def.File) {
			def.File = filepath.Join(baseDir, def.File)
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return &Catalog{names: names, builds: builds}, nil
}

// Names returns the build names in deterministic order.
func (c *Catalog) Names() []string {
	return c.names
}

// Definition returns the build definition for the given name, nil if unknown.
func (c *Catalog) Definition(name string) *release.BuildDefinition {
	return c.builds[name]
}

// Len returns the number of builds in the catalog.
func (c *Catalog) Len() int {
	return len(c.names)
}
