// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/xray7224/p/internal/domain/entities"
)

// ManifestRepository defines the interface for loading package manifests
type ManifestRepository interface {
	// LoadManifest reads the manifest of the project rooted at projectDir
	LoadManifest(ctx context.Context, projectDir string) (*entities.Manifest, error)
}
