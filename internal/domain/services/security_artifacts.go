package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
	"golang.org/x/sync/errgroup"
)

// ChecksumCalculator digests build outputs
type ChecksumCalculator interface {
	CalculateChecksum(filePath string) (string, error)
	CalculateSHA512(filePath string) (string, error)
}

// SBOMRenderer produces an encoded SBOM for a built artifact
type SBOMRenderer interface {
	RenderSBOM(ctx context.Context, desc *entities.Descriptor, artifact *entities.Artifact) ([]byte, error)
}

// WriteFunc persists a generated file
type WriteFunc func(path string, data []byte, perm os.FileMode) error

// SecurityArtifactsService handles generation of security artifacts
type SecurityArtifactsService struct {
	checksums ChecksumCalculator
	sbom      SBOMRenderer
	write     WriteFunc
	logger    interfaces.Logger
}

// NewSecurityArtifactsService creates a new security artifacts service.
// write defaults to os.WriteFile.
func NewSecurityArtifactsService(checksums ChecksumCalculator, sbom SBOMRenderer, write WriteFunc, logger interfaces.Logger) *SecurityArtifactsService {
	if write == nil {
		write = os.WriteFile
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &SecurityArtifactsService{
		checksums: checksums,
		sbom:      sbom,
		write:     write,
		logger:    logger,
	}
}

// SecurityArtifacts represents all security artifacts for an sdist
type SecurityArtifacts struct {
	SHA256Path string
	SHA512Path string
	SBOMPath   string
}

// Artifacts lists the generated files as artifacts
func (a *SecurityArtifacts) Artifacts(name, version string) []*entities.Artifact {
	var out []*entities.Artifact
	add := func(path, typ string) {
		if path != "" {
			out = append(out, &entities.Artifact{Name: name, Version: version, Path: path, Type: typ})
		}
	}
	add(a.SHA256Path, entities.ArtifactChecksum)
	add(a.SHA512Path, entities.ArtifactChecksum)
	add(a.SBOMPath, entities.ArtifactSBOM)
	return out
}

// GenerateAllArtifacts writes .sha256, .sha512 and .sbom.json next to the sdist.
// The three files are produced concurrently; any failure fails the whole step.
func (s *SecurityArtifactsService) GenerateAllArtifacts(ctx context.Context, desc *entities.Descriptor, artifact *entities.Artifact) (*SecurityArtifacts, error) {
	artifacts := &SecurityArtifacts{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		path, err := s.GenerateSHA256(artifact.Path)
		artifacts.SHA256Path = path
		return err
	})
	g.Go(func() error {
		path, err := s.GenerateSHA512(artifact.Path)
		artifacts.SHA512Path = path
		return err
	})
	g.Go(func() error {
		path, err := s.GenerateSBOM(gctx, desc, artifact)
		artifacts.SBOMPath = path
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("security artifacts generated",
		interfaces.F("sha256", filepath.Base(artifacts.SHA256Path)),
		interfaces.F("sha512", filepath.Base(artifacts.SHA512Path)),
		interfaces.F("sbom", filepath.Base(artifacts.SBOMPath)),
	)
	return artifacts, nil
}

// GenerateSHA256 generates SHA256 checksum file
func (s *SecurityArtifactsService) GenerateSHA256(filePath string) (string, error) {
	hash, err := s.checksums.CalculateChecksum(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to generate SHA256: %w", err)
	}
	return s.writeChecksum(filePath, ".sha256", hash)
}

// GenerateSHA512 generates SHA512 checksum file
func (s *SecurityArtifactsService) GenerateSHA512(filePath string) (string, error) {
	hash, err := s.checksums.CalculateSHA512(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to generate SHA512: %w", err)
	}
	return s.writeChecksum(filePath, ".sha512", hash)
}

func (s *SecurityArtifactsService) writeChecksum(filePath, ext, hash string) (string, error) {
	checksumPath := filePath + ext
	content := fmt.Sprintf("%s  %s\n", hash, filepath.Base(filePath))

	if err := s.write(checksumPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", ext, err)
	}
	return checksumPath, nil
}

// GenerateSBOM generates a CycloneDX SBOM listing the declared dependencies
func (s *SecurityArtifactsService) GenerateSBOM(ctx context.Context, desc *entities.Descriptor, artifact *entities.Artifact) (string, error) {
	data, err := s.sbom.RenderSBOM(ctx, desc, artifact)
	if err != nil {
		return "", fmt.Errorf("failed to generate SBOM: %w", err)
	}

	sbomPath := artifact.Path + ".sbom.json"
	if err := s.write(sbomPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write SBOM file: %w", err)
	}
	return sbomPath, nil
}
