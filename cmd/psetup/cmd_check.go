package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
)

func runCheck(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	common := addCommonFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: psetup check [options]

Validate the manifest, dependency links, classifiers and README.
Exits non-zero and lists every problem when the package is invalid.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	desc, source, err := checkProject(ctx, *common.projectDir, common.logger("check"))
	if err != nil {
		fail(err)
	}
	fmt.Printf("✅ %s is valid (%s, %d dependencies, %d classifiers)\n",
		desc.DistName(), source, len(desc.Dependencies), len(desc.Classifiers))
}

// checkProject builds the descriptor and reports which manifest it came from
func checkProject(ctx context.Context, projectDir string, logger interfaces.Logger) (*entities.Descriptor, string, error) {
	builder := newDescriptorBuilder(logger)
	m, err := builder.LoadManifest(ctx, projectDir)
	if err != nil {
		return nil, "", err
	}
	desc, err := builder.BuildFromManifest(ctx, m, projectDir)
	if err != nil {
		return nil, "", err
	}

	source := m.Source
	if source == "" {
		source = "built-in manifest"
	}
	return desc, source, nil
}
