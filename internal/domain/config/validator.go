package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Validate checks the manifest for field-level problems before any step
// runs. All returned errors are *UserError.
func Validate(m *Manifest) error {
	if m.Bundle.Version == "" {
		return NewValidationError("bundle.version", "bundle version is required",
			"set bundle.version to the release to install, e.g. v1.6.0")
	}
	if !semver.IsValid(m.Bundle.Version) {
		return &UserError{
			Code:       ErrCodeBundleInvalid,
			Message:    fmt.Sprintf("bundle version %q is not a valid semantic version", m.Bundle.Version),
			Context:    "bundle.version",
			Suggestion: "use a v-prefixed semantic version, e.g. v1.6.0",
		}
	}

	if m.Bundle.URL == "" {
		return NewValidationError("bundle.url", "bundle download URL is required",
			"set bundle.url to the release archive location")
	}
	if !strings.HasPrefix(m.Bundle.URL, "http://") && !strings.HasPrefix(m.Bundle.URL, "https://") {
		return &UserError{
			Code:       ErrCodeBundleInvalid,
			Message:    fmt.Sprintf("bundle URL %q must use http or https", m.Bundle.URL),
			Context:    "bundle.url",
			Suggestion: "use a full https:// download URL",
		}
	}

	if m.Bundle.Checksum != "" {
		if _, err := hex.DecodeString(m.Bundle.Checksum); err != nil || len(m.Bundle.Checksum) != 64 {
			return &UserError{
				Code:       ErrCodeBundleInvalid,
				Message:    "bundle checksum must be a 64-character hex SHA-256",
				Context:    "bundle.checksum",
				Suggestion: "copy the sha256 from the release page, or remove the field to skip verification",
			}
		}
	}

	if len(m.Services) == 0 {
		return NewValidationError("services", "at least one service is required",
			"list the stack's services so health reporting knows what to check")
	}

	seen := make(map[string]bool, len(m.Services))
	for i, svc := range m.Services {
		field := fmt.Sprintf("services[%d]", i)
		if svc.Name == "" {
			return &UserError{
				Code:       ErrCodeServiceInvalid,
				Message:    "service name is required",
				Context:    field,
				Suggestion: "give every registry entry a name matching its container",
			}
		}
		if seen[svc.Name] {
			return &UserError{
				Code:       ErrCodeServiceInvalid,
				Message:    fmt.Sprintf("duplicate service name %q", svc.Name),
				Context:    field,
				Suggestion: "service names must be unique within the registry",
			}
		}
		seen[svc.Name] = true

		if svc.Port < 0 || svc.Port > 65535 {
			return &UserError{
				Code:       ErrCodeServiceInvalid,
				Message:    fmt.Sprintf("service %q port %d out of range", svc.Name, svc.Port),
				Context:    field + ".port",
				Suggestion: "use a port between 1 and 65535, or omit the port",
			}
		}
	}

	return nil
}
