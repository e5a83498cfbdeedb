// Package services implements the package descriptor domain logic.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
	"github.com/xray7224/p/internal/domain/interfaces/repositories"
)

// ReadmeReader loads the long description text
type ReadmeReader interface {
	ReadReadme(ctx context.Context, path string) (string, error)
}

// DescriptorBuilder assembles a Descriptor from a manifest and the project readme
type DescriptorBuilder struct {
	manifests repositories.ManifestRepository
	readme    ReadmeReader
	logger    interfaces.Logger
}

// NewDescriptorBuilder creates a new descriptor builder
func NewDescriptorBuilder(manifests repositories.ManifestRepository, readme ReadmeReader, logger interfaces.Logger) *DescriptorBuilder {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DescriptorBuilder{
		manifests: manifests,
		readme:    readme,
		logger:    logger,
	}
}

// LoadManifest loads the project manifest without building a descriptor
func (b *DescriptorBuilder) LoadManifest(ctx context.Context, projectDir string) (*entities.Manifest, error) {
	m, err := b.manifests.LoadManifest(ctx, projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return m, nil
}

// Build loads the manifest of projectDir and builds its descriptor
func (b *DescriptorBuilder) Build(ctx context.Context, projectDir string) (*entities.Descriptor, error) {
	m, err := b.LoadManifest(ctx, projectDir)
	if err != nil {
		return nil, err
	}
	return b.BuildFromManifest(ctx, m, projectDir)
}

// BuildFromManifest validates m, reads its readme relative to projectDir and
// returns the descriptor. No descriptor is returned on any error.
func (b *DescriptorBuilder) BuildFromManifest(ctx context.Context, m *entities.Manifest, projectDir string) (*entities.Descriptor, error) {
	if err := ValidateManifest(m); err != nil {
		return nil, err
	}

	readmePath := filepath.Join(projectDir, m.Readme())
	long, err := b.readme.ReadReadme(ctx, readmePath)
	if err != nil {
		return nil, err
	}

	deps, err := ResolveDependencies(m.InstallRequires, m.DependencyLinks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInvalidManifest, err)
	}

	desc := &entities.Descriptor{
		Name:            m.Name,
		Version:         m.Version,
		Description:     m.Description,
		LongDescription: long,
		Author:          m.Author,
		AuthorEmail:     m.AuthorEmail,
		URL:             m.URL,
		License:         m.License,
		Scripts:         slices.Clone(m.Scripts),
		Dependencies:    deps,
		DependencyLinks: slices.Clone(m.DependencyLinks),
		Classifiers:     slices.Clone(m.Classifiers),
	}

	source := m.Source
	if source == "" {
		source = "<embedded>"
	}
	b.logger.Debug("descriptor built",
		interfaces.F("name", desc.Name),
		interfaces.F("version", desc.Version),
		interfaces.F("manifest", source),
		interfaces.F("dependencies", len(desc.Dependencies)),
	)

	return desc, nil
}
