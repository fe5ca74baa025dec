package config

import (
	"gopkg.in/yaml.v3"
)

// Default locations used when the manifest leaves them unset.
const (
	DefaultInstallDir = "/opt/dockhand/stack"
	DefaultLogDir     = "/var/log/dockhand"
)

// Bundle describes the versioned release archive to install.
type Bundle struct {
	// Version is the release version, with leading "v" (e.g. "v1.6.0").
	Version string `yaml:"version"`
	// URL is the full download location of the release archive.
	URL string `yaml:"url"`
	// Checksum is the optional SHA-256 of the archive, hex encoded.
	Checksum string `yaml:"checksum,omitempty"`
}

// Kernel holds the sysctl parameters applied by the kernel tuning step.
type Kernel struct {
	Parameters map[string]string `yaml:"parameters"`
}

// Service is one entry of the static service registry. Whether a service
// declares a health probe is discovered from the runtime, not configured.
type Service struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port,omitempty"`
}

// Manifest is the single configuration file driving both the installer and
// the health reporter. Loaded once, never mutated.
type Manifest struct {
	Bundle     Bundle            `yaml:"bundle"`
	InstallDir string            `yaml:"install_dir,omitempty"`
	LogDir     string            `yaml:"log_dir,omitempty"`
	Kernel     Kernel            `yaml:"kernel,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
	Services   []Service         `yaml:"services"`
}

// ParseManifest parses manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	if m.InstallDir == "" {
		m.InstallDir = DefaultInstallDir
	}
	if m.LogDir == "" {
		m.LogDir = DefaultLogDir
	}

	return &m, nil
}

// ServiceNames returns the registry names in declaration order.
func (m *Manifest) ServiceNames() []string {
	names := make([]string, 0, len(m.Services))
	for _, s := range m.Services {
		names = append(names, s.Name)
	}
	return names
}
