package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/xray7224/p/internal/domain-adapters/gateways"
	orchestrators "github.com/xray7224/p/internal/domain-orchestrators"
)

func runInstall(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("install", flag.ExitOnError)
	common := addCommonFlags(fs)
	prefix := fs.String("prefix", "", "Install prefix; scripts go to <prefix>/bin (default $HOME/.local)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: psetup install [options]

Install the package scripts as executables.

Examples:
  psetup install
  psetup install --prefix /usr/local

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *prefix == "" {
		p, err := gateways.DefaultPrefix()
		if err != nil {
			fail(err)
		}
		*prefix = p
	}

	logger := common.logger("install")
	orch := orchestrators.NewBuildOrchestrator(
		newDescriptorBuilder(logger),
		gateways.NewPackager(gateways.PackagerConfig{Logger: logger}),
		gateways.NewInstaller(logger),
		nil,
		orchestrators.BuildOrchestratorConfig{},
		logger,
	)

	result, err := orch.InstallPackage(ctx, *common.projectDir, *prefix)
	if err != nil {
		fail(err)
	}

	fmt.Printf("✅ Installed %s\n", result.Descriptor.DistName())
	for _, a := range result.Installed {
		fmt.Printf("  - %s\n", a.Path)
	}
}
