package plugins

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the manifest file looked for in each plugin directory.
const ManifestFileName = "plugin.yaml"

// Manifest describes a discovered plugin. Its one required observable effect
// is declaring the single build unit that implements the plugin; everything
// else is informational.
type Manifest struct {
	Unit        string `yaml:"unit"`        // Build unit implementing the plugin
	Name        string `yaml:"name"`        // Display name
	Version     string `yaml:"version"`     // Plugin version
	Description string `yaml:"description"` // Short description
	Author      string `yaml:"author"`      // Author name
}

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// LoadManifest loads and parses a plugin manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}

// LoadManifestFromDir loads a plugin manifest from a directory (looks for
// plugin.yaml).
func LoadManifestFromDir(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, ManifestFileName))
}

// ValidateManifest performs basic validation on a plugin manifest.
func ValidateManifest(manifest *Manifest) []ValidationError {
	var errors []ValidationError

	if manifest.Unit == "" {
		errors = append(errors, ValidationError{
			Field:   "unit",
			Message: "Build unit is required",
		})
	}

	return errors
}
