// Package main provides the psetup CLI that builds and installs the p tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xray7224/p/internal/domain-adapters/gateways"
	orchestrators "github.com/xray7224/p/internal/domain-orchestrators"
	"github.com/xray7224/p/internal/domain/interfaces"
	"github.com/xray7224/p/internal/domain/services"
)

type buildOptions struct {
	projectDir     string
	outputDir      string
	enableSecurity bool
	signKey        string
	passphraseEnv  string
}

func runBuild(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	common := addCommonFlags(fs)
	var (
		outputDir     = fs.String("output-dir", "dist", "Output directory for the sdist and its sidecars")
		noSecurity    = fs.Bool("no-security", false, "Skip checksum and SBOM generation")
		signKey       = fs.String("sign-key", "", "Armored OpenPGP private key used to sign the sdist")
		passphraseEnv = fs.String("passphrase-env", "PSETUP_KEY_PASSPHRASE", "Environment variable holding the signing key passphrase")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: psetup build [options]

Build <name>-<version>.tar.gz from the project manifest and README.

Examples:
  psetup build
  psetup build --output-dir out --sign-key release.asc
  SOURCE_DATE_EPOCH=1700000000 psetup build --no-security

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	opts := buildOptions{
		projectDir:     *common.projectDir,
		outputDir:      *outputDir,
		enableSecurity: !*noSecurity,
		signKey:        *signKey,
		passphraseEnv:  *passphraseEnv,
	}
	result, err := executeBuild(ctx, opts, common.logger("build"))
	if err != nil {
		fail(err)
	}

	fmt.Println(result.GetBuildSummary())
	fmt.Println()
	for _, a := range result.Outputs {
		fmt.Printf("  - %s (%s)\n", filepath.Base(a.Path), a.Type)
	}
}

func executeBuild(ctx context.Context, opts buildOptions, logger interfaces.Logger) (*orchestrators.BuildResult, error) {
	stamp, err := buildTime()
	if err != nil {
		return nil, err
	}

	var securityOrch *orchestrators.SecurityOrchestrator
	if opts.enableSecurity || opts.signKey != "" {
		var gpgGateway *gateways.GPGGateway
		if opts.signKey != "" {
			gpgGateway, err = gateways.NewGPGGateway(opts.signKey, passphrase(opts.passphraseEnv))
			if err != nil {
				return nil, err
			}
			logger.Info("signing key loaded", interfaces.F("fingerprint", gpgGateway.SigningFingerprint()))
		}

		var sidecars orchestrators.SecurityArtifactsGenerator
		if opts.enableSecurity {
			sidecars = services.NewSecurityArtifactsService(
				gateways.NewChecksumVerifier(),
				gateways.NewSBOMGenerator(stamp, version),
				gateways.WriteFileAtomic,
				logger,
			)
		}
		securityOrch = orchestrators.NewSecurityOrchestrator(
			sidecars,
			gateways.NewCompositeSecurityGateway(gpgGateway),
			opts.signKey != "",
			logger,
		)
	}

	buildOrch := orchestrators.NewBuildOrchestrator(
		newDescriptorBuilder(logger),
		gateways.NewPackager(gateways.PackagerConfig{BuildTime: stamp, Logger: logger}),
		gateways.NewInstaller(logger),
		securityOrch,
		orchestrators.BuildOrchestratorConfig{
			EnableSecurity: securityOrch != nil,
			OutputDir:      opts.outputDir,
		},
		logger,
	)

	return buildOrch.BuildPackage(ctx, opts.projectDir)
}

func passphrase(envName string) []byte {
	if envName == "" {
		return nil
	}
	if v := os.Getenv(envName); v != "" {
		return []byte(v)
	}
	return nil
}
