package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
	"github.com/xray7224/p/internal/domain/interfaces/gateways"
	"github.com/xray7224/p/internal/domain/services"
)

// SecurityArtifactsGenerator writes checksum and SBOM sidecars for an sdist
type SecurityArtifactsGenerator interface {
	GenerateAllArtifacts(ctx context.Context, desc *entities.Descriptor, artifact *entities.Artifact) (*services.SecurityArtifacts, error)
}

// SecurityOrchestrator coordinates sidecar generation, signing and verification
type SecurityOrchestrator struct {
	artifacts SecurityArtifactsGenerator
	gateway   gateways.SecurityGateway
	sign      bool
	logger    interfaces.Logger
}

// NewSecurityOrchestrator creates a new security orchestrator.
// artifacts may be nil when only verification is needed.
func NewSecurityOrchestrator(artifacts SecurityArtifactsGenerator, gateway gateways.SecurityGateway, sign bool, logger interfaces.Logger) *SecurityOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &SecurityOrchestrator{
		artifacts: artifacts,
		gateway:   gateway,
		sign:      sign,
		logger:    logger,
	}
}

// SecurityWorkflowResult contains the files produced for one sdist
type SecurityWorkflowResult struct {
	Artifact         *entities.Artifact
	Sidecars         *services.SecurityArtifacts
	SignaturePath    string
	WorkflowDuration time.Duration
}

// PerformSecurityWorkflow writes the sidecars of artifact and signs it when configured
func (o *SecurityOrchestrator) PerformSecurityWorkflow(ctx context.Context, desc *entities.Descriptor, artifact *entities.Artifact) (*SecurityWorkflowResult, error) {
	startTime := time.Now()
	result := &SecurityWorkflowResult{Artifact: artifact}

	if o.artifacts != nil {
		sidecars, err := o.artifacts.GenerateAllArtifacts(ctx, desc, artifact)
		if err != nil {
			return nil, fmt.Errorf("failed to generate security artifacts: %w", err)
		}
		result.Sidecars = sidecars
	}

	if o.sign {
		sigPath, err := o.gateway.SignFile(ctx, artifact.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to sign %s: %w", artifact.Path, err)
		}
		result.SignaturePath = sigPath
		o.logger.Info("sdist signed", interfaces.F("signature", sigPath))
	}

	result.WorkflowDuration = time.Since(startTime)
	return result, nil
}

// Outputs lists every file the workflow produced as artifacts
func (r *SecurityWorkflowResult) Outputs() []*entities.Artifact {
	var out []*entities.Artifact
	if r.Sidecars != nil {
		out = append(out, r.Sidecars.Artifacts(r.Artifact.Name, r.Artifact.Version)...)
	}
	if r.SignaturePath != "" {
		out = append(out, &entities.Artifact{
			Name:    r.Artifact.Name,
			Version: r.Artifact.Version,
			Path:    r.SignaturePath,
			Type:    entities.ArtifactSignature,
		})
	}
	return out
}

// VerifyResult lists the checks that passed for an sdist
type VerifyResult struct {
	Path              string
	Checksums         []string
	SignatureVerified bool
}

// checksumSidecars are checked in this order when present
var checksumSidecars = []string{".sha256", ".sha512"}

// VerifyArtifact checks every checksum sidecar of path and its detached
// signature. A missing signature fails only when requireSignature is set.
func (o *SecurityOrchestrator) VerifyArtifact(ctx context.Context, path string, requireSignature bool) (*VerifyResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	result := &VerifyResult{Path: path}

	for _, ext := range checksumSidecars {
		sidecar := path + ext
		if !exists(sidecar) {
			continue
		}
		if err := o.gateway.VerifyChecksumFile(ctx, path, sidecar); err != nil {
			return nil, fmt.Errorf("%s verification failed: %w", strings.TrimPrefix(ext, "."), err)
		}
		result.Checksums = append(result.Checksums, sidecar)
	}
	if len(result.Checksums) == 0 {
		return nil, fmt.Errorf("no checksum file found for %s", path)
	}

	sigPath := path + ".asc"
	switch {
	case exists(sigPath):
		if err := o.gateway.VerifySignature(ctx, path, sigPath); err != nil {
			return nil, err
		}
		result.SignatureVerified = true
	case requireSignature:
		return nil, fmt.Errorf("signature %s not found", sigPath)
	}

	o.logger.Info("sdist verified",
		interfaces.F("path", path),
		interfaces.F("checksums", len(result.Checksums)),
		interfaces.F("signed", result.SignatureVerified),
	)
	return result, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Summary lists the security outputs one per line
func (result *SecurityWorkflowResult) Summary() string {
	var b strings.Builder
	if result.Sidecars != nil {
		fmt.Fprintf(&b, "   SHA256: %s\n", result.Sidecars.SHA256Path)
		fmt.Fprintf(&b, "   SHA512: %s\n", result.Sidecars.SHA512Path)
		fmt.Fprintf(&b, "   SBOM: %s\n", result.Sidecars.SBOMPath)
	}
	if result.SignaturePath != "" {
		fmt.Fprintf(&b, "   Signature: %s\n", result.SignaturePath)
	}
	fmt.Fprintf(&b, "   Duration: %v", result.WorkflowDuration)
	return b.String()
}
