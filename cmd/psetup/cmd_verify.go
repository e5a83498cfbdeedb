package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xray7224/p/internal/domain-adapters/gateways"
	orchestrators "github.com/xray7224/p/internal/domain-orchestrators"
	"github.com/xray7224/p/internal/domain/interfaces"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		keys       = fs.String("key", "", "Comma-separated armored public key files for signature checks")
		requireSig = fs.Bool("require-signature", false, "Fail when no .asc signature is present")
		logLevel   = fs.String("log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: psetup verify <sdist> [options]

Verify the .sha256/.sha512 sidecars of an sdist and, when present or
required, its detached .asc signature.

Examples:
  psetup verify dist/p-0.1.tar.gz
  psetup verify dist/p-0.1.tar.gz --key release.pub.asc --require-signature

Options:
`)
		fs.PrintDefaults()
	}

	// Allow the sdist before or after the flags
	var path string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		path, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		fmt.Fprintf(os.Stderr, "Error: sdist path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	result, err := executeVerify(ctx, path, splitList(*keys), *requireSig, *logLevel)
	if err != nil {
		fail(err)
	}

	fmt.Printf("✅ %s verified\n", filepath.Base(result.Path))
	for _, c := range result.Checksums {
		fmt.Printf("  - checksum %s\n", filepath.Base(c))
	}
	if result.SignatureVerified {
		fmt.Println("  - signature OK")
	}
}

func executeVerify(ctx context.Context, path string, keyFiles []string, requireSig bool, logLevel string) (*orchestrators.VerifyResult, error) {
	logger := newLogger(logLevel, true, "verify")

	var gpgGateway *gateways.GPGGateway
	if len(keyFiles) > 0 {
		g, err := gateways.NewGPGGateway("", nil, keyFiles...)
		if err != nil {
			return nil, err
		}
		logger.Debug("public keys loaded", interfaces.F("keys", g.PublicKeyCount()))
		gpgGateway = g
	}

	orch := orchestrators.NewSecurityOrchestrator(nil, gateways.NewCompositeSecurityGateway(gpgGateway), false, logger)
	return orch.VerifyArtifact(ctx, path, requireSig)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
