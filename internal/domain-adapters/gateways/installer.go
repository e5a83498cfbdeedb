package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
)

// Installer copies a descriptor's scripts into <prefix>/bin
type Installer struct {
	logger interfaces.Logger
}

// NewInstaller creates a new installer
func NewInstaller(logger interfaces.Logger) *Installer {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Installer{logger: logger}
}

// DefaultPrefix returns $HOME/.local, the per-user install prefix
func DefaultPrefix() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local"), nil
}

// InstallScripts installs every script of desc as an executable under prefix/bin.
// Each file is replaced atomically so a running copy is never half-written.
func (i *Installer) InstallScripts(ctx context.Context, desc *entities.Descriptor, projectDir, prefix string) ([]*entities.Artifact, error) {
	binDir := filepath.Join(prefix, "bin")
	if err := os.MkdirAll(binDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create bin directory: %w", err)
	}

	installed := make([]*entities.Artifact, 0, len(desc.Scripts))
	for _, script := range desc.Scripts {
		if err := ctx.Err(); err != nil {
			return installed, err
		}

		src := filepath.Join(projectDir, script)
		//nolint:gosec // G304: src is a script declared by the manifest
		data, err := os.ReadFile(src)
		if err != nil {
			return installed, fmt.Errorf("failed to read script %s: %w", script, err)
		}

		dst := filepath.Join(binDir, filepath.Base(script))
		if err := WriteFileAtomic(dst, data, 0755); err != nil {
			return installed, fmt.Errorf("failed to install %s: %w", dst, err)
		}

		i.logger.Info("script installed", interfaces.F("script", script), interfaces.F("path", dst))
		installed = append(installed, &entities.Artifact{
			Name:    filepath.Base(script),
			Version: desc.Version,
			Path:    dst,
			Type:    entities.ArtifactScript,
		})
	}

	return installed, nil
}
