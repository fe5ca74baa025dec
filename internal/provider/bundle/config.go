package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
)

// composeCandidates are the descriptor names the bundle may ship, in
// lookup order.
var composeCandidates = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml"}

const envFileName = ".env"

// ConfigStep patches the extracted bundle: env overrides into its .env
// file, published ports into its compose descriptor. Originals are backed
// up first; the compensating action restores them.
type ConfigStep struct {
	id         step.ID
	installDir string
	env        map[string]string
	services   []config.Service
}

// NewConfigStep creates the bundle configuration step.
func NewConfigStep(installDir string, env map[string]string, services []config.Service) *ConfigStep {
	return &ConfigStep{
		id:         step.BundleConfig,
		installDir: installDir,
		env:        env,
		services:   services,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() step.ID {
	return s.id
}

// Check reports satisfied when the env file already carries every
// override. Port patching is idempotent, so env agreement is the cheap
// proxy for "already configured".
func (s *ConfigStep) Check(_ context.Context) (step.Status, error) {
	if len(s.env) == 0 {
		return step.StatusNeedsApply, nil
	}

	envPath := filepath.Join(s.installDir, envFileName)
	current, err := godotenv.Read(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return step.StatusNeedsApply, nil
		}
		return step.StatusUnknown, fmt.Errorf("reading %s: %w", envPath, err)
	}

	for key, want := range s.env {
		if current[key] != want {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply patches the env file and the compose descriptor.
func (s *ConfigStep) Apply(_ context.Context) error {
	composePath, err := s.findCompose()
	if err != nil {
		return err
	}

	if err := backup(composePath); err != nil {
		return err
	}

	envPath := filepath.Join(s.installDir, envFileName)
	if _, err := os.Stat(envPath); err == nil {
		if err := backup(envPath); err != nil {
			return err
		}
	}

	if err := s.patchEnv(envPath); err != nil {
		return err
	}
	return s.patchCompose(composePath)
}

// Rollback restores the backed-up originals.
func (s *ConfigStep) Rollback(_ context.Context) error {
	composePath, err := s.findCompose()
	if err == nil {
		if restoreErr := restore(composePath); restoreErr != nil {
			return restoreErr
		}
	}
	return restore(filepath.Join(s.installDir, envFileName))
}

// findCompose locates the compose descriptor. Its absence after
// extraction means the bundle is broken.
func (s *ConfigStep) findCompose() (string, error) {
	for _, name := range composeCandidates {
		path := filepath.Join(s.installDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no compose descriptor in %s", ErrArtifactMissing, s.installDir)
}

// patchEnv merges the manifest overrides into the bundle's env file.
func (s *ConfigStep) patchEnv(path string) error {
	current := map[string]string{}
	if existing, err := godotenv.Read(path); err == nil {
		current = existing
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for key, value := range s.env {
		current[key] = value
	}

	if err := godotenv.Write(current, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// patchCompose publishes the registry ports in the compose descriptor.
func (s *ConfigStep) patchCompose(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	servicesNode, ok := doc["services"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("%w: %s has no services section", ErrArtifactMissing, path)
	}

	for _, svc := range s.services {
		if svc.Port == 0 {
			continue
		}
		serviceNode, ok := servicesNode[svc.Name].(map[string]interface{})
		if !ok {
			continue
		}
		serviceNode["ports"] = []interface{}{fmt.Sprintf("%d:%d", svc.Port, svc.Port)}
	}

	patched, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	if err := os.WriteFile(path, patched, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// backup copies path to path.bak, overwriting a stale backup.
func backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}
	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}
	return nil
}

// restore moves path.bak over path. Missing backups are a no-op so the
// rollback stays idempotent.
func restore(path string) error {
	bak := path + ".bak"
	if _, err := os.Stat(bak); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(bak, path); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	return nil
}

// Ensure the step implements step.Rollbackable.
var _ step.Rollbackable = (*ConfigStep)(nil)
