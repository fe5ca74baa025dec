// Package bundle provides the release archive fetch and configuration
// patching steps.
package bundle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// ErrArtifactMissing marks an expected file absent after extraction.
var ErrArtifactMissing = errors.New("expected bundle artifact missing")

// versionMarker records which bundle version occupies the install dir.
const versionMarker = ".dockhand-version"

// FetchStep downloads the versioned release archive, verifies it and
// extracts it into the install directory. The compensating action removes
// the extracted tree.
type FetchStep struct {
	id         step.ID
	bundle     config.Bundle
	installDir string
	downloader ports.Downloader
	runner     ports.CommandRunner
}

// NewFetchStep creates the bundle fetch step.
func NewFetchStep(bundle config.Bundle, installDir string, downloader ports.Downloader, runner ports.CommandRunner) *FetchStep {
	return &FetchStep{
		id:         step.BundleFetch,
		bundle:     bundle,
		installDir: installDir,
		downloader: downloader,
		runner:     runner,
	}
}

// ID returns the step identifier.
func (s *FetchStep) ID() step.ID {
	return s.id
}

// Check reports satisfied when the install dir already holds this version.
func (s *FetchStep) Check(_ context.Context) (step.Status, error) {
	data, err := os.ReadFile(filepath.Join(s.installDir, versionMarker))
	if err != nil {
		if os.IsNotExist(err) {
			return step.StatusNeedsApply, nil
		}
		return step.StatusUnknown, fmt.Errorf("reading version marker: %w", err)
	}
	if strings.TrimSpace(string(data)) == s.bundle.Version {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply downloads, verifies and extracts the archive, then writes the
// version marker so a re-run short-circuits.
func (s *FetchStep) Apply(ctx context.Context) error {
	archivePath := s.archivePath()

	if err := s.downloader.Fetch(ctx, s.bundle.URL, archivePath); err != nil {
		return fmt.Errorf("fetching bundle %s: %w", s.bundle.Version, err)
	}

	if s.bundle.Checksum != "" {
		if err := verifyChecksum(archivePath, s.bundle.Checksum); err != nil {
			os.Remove(archivePath)
			return err
		}
	}

	if err := os.MkdirAll(s.installDir, 0o755); err != nil {
		return fmt.Errorf("creating install dir: %w", err)
	}

	result, err := s.runner.Run(ctx, "tar", "-xzf", archivePath, "-C", s.installDir, "--strip-components=1")
	if err != nil {
		return fmt.Errorf("extracting bundle: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("extracting bundle failed: %s", strings.TrimSpace(result.Stderr))
	}

	os.Remove(archivePath)

	markerPath := filepath.Join(s.installDir, versionMarker)
	if err := os.WriteFile(markerPath, []byte(s.bundle.Version+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing version marker: %w", err)
	}
	return nil
}

// Rollback removes the extracted tree and any leftover archive.
func (s *FetchStep) Rollback(_ context.Context) error {
	os.Remove(s.archivePath())
	if err := os.RemoveAll(s.installDir); err != nil {
		return fmt.Errorf("removing install dir: %w", err)
	}
	return nil
}

func (s *FetchStep) archivePath() string {
	return filepath.Join(filepath.Dir(s.installDir),
		fmt.Sprintf("stack-%s.tar.gz", s.bundle.Version))
}

// verifyChecksum compares the archive's SHA-256 with the expected hex.
func verifyChecksum(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive for verification: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hashing archive: %w", err)
	}

	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, expected) {
		return fmt.Errorf("archive checksum mismatch: got %s, want %s", got, expected)
	}
	return nil
}

// Ensure the step implements step.Rollbackable.
var _ step.Rollbackable = (*FetchStep)(nil)
