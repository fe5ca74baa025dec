// Package step defines the unit of forward setup work and its identity.
package step

import (
	"errors"
	"regexp"
	"strings"
)

// ID uniquely identifies a setup step.
// Format: area:action (e.g., "docker:engine").
type ID struct {
	value string
}

// Errors for ID validation.
var (
	ErrEmptyID   = errors.New("step ID cannot be empty")
	ErrInvalidID = errors.New("step ID format invalid: must be alphanumeric segments separated by colons")
)

// idPattern validates step ID format. Allows alphanumeric segments with
// hyphens and underscores, separated by colons.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*(?::[a-zA-Z0-9][a-zA-Z0-9_-]*)*$`)

// NewID creates a new ID from a string.
func NewID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyID
	}

	if !idPattern.MatchString(trimmed) {
		return ID{}, ErrInvalidID
	}

	return ID{value: trimmed}, nil
}

// MustNewID creates a new ID from a string, panicking on error.
// Use this for compile-time known values that should never fail validation.
func MustNewID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic("invalid step ID: " + value + ": " + err.Error())
	}
	return id
}

// The installation sequence is a fixed enumeration. Order of execution is
// owned by the plan, not by these values.
var (
	ToolsInstall  = MustNewID("tools:install")
	DockerEngine  = MustNewID("docker:engine")
	DockerCompose = MustNewID("docker:compose")
	KernelTuning  = MustNewID("kernel:tuning")
	BundleFetch   = MustNewID("bundle:fetch")
	BundleConfig  = MustNewID("bundle:config")
	StackUp       = MustNewID("stack:up")
	StackHealth   = MustNewID("stack:health")
)

// String returns the string representation.
func (id ID) String() string {
	return id.value
}

// Equals checks equality with another ID.
func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// Area extracts the area name (first segment).
func (id ID) Area() string {
	if idx := strings.Index(id.value, ":"); idx >= 0 {
		return id.value[:idx]
	}
	return id.value
}
