package config

import (
	"os"
)

// Loader loads the manifest from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses and validates the manifest at the given path.
func (l *Loader) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, NewParseError(path, err)
	}

	if err := Validate(manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}
