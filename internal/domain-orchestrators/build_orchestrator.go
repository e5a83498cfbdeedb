// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
)

// DescriptorBuilder loads a project manifest and turns it into a descriptor
type DescriptorBuilder interface {
	LoadManifest(ctx context.Context, projectDir string) (*entities.Manifest, error)
	BuildFromManifest(ctx context.Context, m *entities.Manifest, projectDir string) (*entities.Descriptor, error)
}

// Packager interface for packaging a descriptor into a source distribution
type Packager interface {
	PackageSdist(ctx context.Context, desc *entities.Descriptor, manifest *entities.Manifest, projectDir, outputDir string) (*entities.Artifact, error)
}

// Installer interface for installing a descriptor's scripts
type Installer interface {
	InstallScripts(ctx context.Context, desc *entities.Descriptor, projectDir, prefix string) ([]*entities.Artifact, error)
}

// BuildOrchestrator coordinates the complete package build workflow
type BuildOrchestrator struct {
	builder        DescriptorBuilder
	packager       Packager
	installer      Installer
	securityOrch   *SecurityOrchestrator
	enableSecurity bool
	outputDir      string
	logger         interfaces.Logger
}

// BuildOrchestratorConfig holds configuration for the orchestrator
type BuildOrchestratorConfig struct {
	EnableSecurity bool
	OutputDir      string
}

// NewBuildOrchestrator creates a new build orchestrator
func NewBuildOrchestrator(
	builder DescriptorBuilder,
	packager Packager,
	installer Installer,
	securityOrch *SecurityOrchestrator,
	config BuildOrchestratorConfig,
	logger interfaces.Logger,
) *BuildOrchestrator {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "dist"
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &BuildOrchestrator{
		builder:        builder,
		packager:       packager,
		installer:      installer,
		securityOrch:   securityOrch,
		enableSecurity: config.EnableSecurity && securityOrch != nil,
		outputDir:      outputDir,
		logger:         logger,
	}
}

// BuildResult contains the result of a build operation
type BuildResult struct {
	Descriptor         *entities.Descriptor
	Artifact           *entities.Artifact
	Outputs            []*entities.Artifact
	SecurityResult     *SecurityWorkflowResult
	DescriptorDuration time.Duration
	PackageDuration    time.Duration
	TotalDuration      time.Duration
	Success            bool
	Error              error
}

// BuildPackage executes the complete build workflow for the project in projectDir
func (o *BuildOrchestrator) BuildPackage(ctx context.Context, projectDir string) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{}

	// Step 1: Load manifest and build the descriptor
	manifest, err := o.builder.LoadManifest(ctx, projectDir)
	if err != nil {
		result.Error = err
		return result, result.Error
	}
	desc, err := o.builder.BuildFromManifest(ctx, manifest, projectDir)
	if err != nil {
		result.Error = fmt.Errorf("failed to build descriptor: %w", err)
		return result, result.Error
	}
	result.Descriptor = desc
	result.DescriptorDuration = time.Since(startTime)

	// Step 2: Package the sdist
	packageStart := time.Now()
	artifact, err := o.packager.PackageSdist(ctx, desc, manifest, projectDir, o.outputDir)
	if err != nil {
		result.Error = fmt.Errorf("packaging failed: %w", err)
		return result, result.Error
	}
	result.Artifact = artifact
	result.Outputs = append(result.Outputs, artifact)
	result.PackageDuration = time.Since(packageStart)

	// Step 3: Sidecars and signature
	if o.enableSecurity {
		secResult, err := o.securityOrch.PerformSecurityWorkflow(ctx, desc, artifact)
		if err != nil {
			result.Error = fmt.Errorf("security workflow failed: %w", err)
			return result, result.Error
		}
		result.SecurityResult = secResult
		result.Outputs = append(result.Outputs, secResult.Outputs()...)
	}

	result.Success = true
	result.TotalDuration = time.Since(startTime)
	o.logger.Info("build complete",
		interfaces.F("package", desc.DistName()),
		interfaces.F("outputs", len(result.Outputs)),
		interfaces.F("duration", result.TotalDuration),
	)
	return result, nil
}

// InstallResult contains the result of an install operation
type InstallResult struct {
	Descriptor *entities.Descriptor
	Installed  []*entities.Artifact
	Prefix     string
}

// InstallPackage builds the descriptor of projectDir and installs its scripts under prefix
func (o *BuildOrchestrator) InstallPackage(ctx context.Context, projectDir, prefix string) (*InstallResult, error) {
	manifest, err := o.builder.LoadManifest(ctx, projectDir)
	if err != nil {
		return nil, err
	}
	desc, err := o.builder.BuildFromManifest(ctx, manifest, projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to build descriptor: %w", err)
	}

	installed, err := o.installer.InstallScripts(ctx, desc, projectDir, prefix)
	if err != nil {
		return nil, fmt.Errorf("install failed: %w", err)
	}

	return &InstallResult{Descriptor: desc, Installed: installed, Prefix: prefix}, nil
}

// GetBuildSummary returns a human-readable summary of the build
func (r *BuildResult) GetBuildSummary() string {
	if !r.Success {
		return fmt.Sprintf("Build failed: %v", r.Error)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Build successful!
Package: %s
Sdist: %s
Descriptor: %v
Packaging: %v
Total: %v`,
		r.Descriptor.DistName(),
		r.Artifact.Path,
		r.DescriptorDuration,
		r.PackageDuration,
		r.TotalDuration,
	)

	if r.SecurityResult != nil {
		b.WriteString("\n\nSecurity artifacts:\n")
		b.WriteString(r.SecurityResult.Summary())
	}

	return b.String()
}
