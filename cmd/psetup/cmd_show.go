package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/xray7224/p/internal/domain-adapters/gateways"
	"github.com/xray7224/p/internal/domain/entities"
	manifestyaml "github.com/xray7224/p/internal/external-adapters/yaml"
	"gopkg.in/yaml.v3"
)

// descriptorView is the serialized form printed by "psetup show"
type descriptorView struct {
	Name            string           `json:"name" yaml:"name"`
	Version         string           `json:"version" yaml:"version"`
	Description     string           `json:"description" yaml:"description"`
	LongDescription string           `json:"long_description,omitempty" yaml:"long_description,omitempty"`
	Author          string           `json:"author" yaml:"author"`
	AuthorEmail     string           `json:"author_email,omitempty" yaml:"author_email,omitempty"`
	URL             string           `json:"url" yaml:"url"`
	License         string           `json:"license" yaml:"license"`
	Scripts         []string         `json:"scripts" yaml:"scripts"`
	Dependencies    []dependencyView `json:"install_requires" yaml:"install_requires"`
	DependencyLinks []string         `json:"dependency_links,omitempty" yaml:"dependency_links,omitempty"`
	Classifiers     []string         `json:"classifiers" yaml:"classifiers"`
}

type dependencyView struct {
	Name      string `json:"name" yaml:"name"`
	Specifier string `json:"specifier,omitempty" yaml:"specifier,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
}

func newDescriptorView(desc *entities.Descriptor, withLong bool) descriptorView {
	v := descriptorView{
		Name:            desc.Name,
		Version:         desc.Version,
		Description:     desc.Description,
		Author:          desc.Author,
		AuthorEmail:     desc.AuthorEmail,
		URL:             desc.URL,
		License:         desc.License,
		Scripts:         desc.Scripts,
		DependencyLinks: desc.DependencyLinks,
		Classifiers:     desc.Classifiers,
	}
	if withLong {
		v.LongDescription = desc.LongDescription
	}
	for _, d := range desc.Dependencies {
		v.Dependencies = append(v.Dependencies, dependencyView(d))
	}
	return v
}

func runShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	common := addCommonFlags(fs)
	var (
		format   = fs.String("format", "yaml", "Output format: json, yaml, pkg-info or manifest")
		withLong = fs.Bool("long", false, "Include the long description in json/yaml output")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: psetup show [options]

Print the package descriptor built from the manifest and README.
"--format manifest" prints the effective manifest as setup.yml.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	builder := newDescriptorBuilder(common.logger("show"))
	m, err := builder.LoadManifest(ctx, *common.projectDir)
	if err != nil {
		fail(err)
	}
	if *format == "manifest" {
		if err := writeManifest(os.Stdout, m); err != nil {
			fail(err)
		}
		return
	}

	desc, err := builder.BuildFromManifest(ctx, m, *common.projectDir)
	if err != nil {
		fail(err)
	}
	if err := writeDescriptor(os.Stdout, desc, *format, *withLong); err != nil {
		fail(err)
	}
}

// writeManifest prints m as setup.yml, converting setup.hcl projects on the way
func writeManifest(w io.Writer, m *entities.Manifest) error {
	data, err := manifestyaml.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeDescriptor(w io.Writer, desc *entities.Descriptor, format string, withLong bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newDescriptorView(desc, withLong))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDescriptorView(desc, withLong)); err != nil {
			return fmt.Errorf("failed to encode descriptor: %w", err)
		}
		return enc.Close()
	case "pkg-info":
		_, err := w.Write(gateways.RenderPKGInfo(desc))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or pkg-info)", format)
	}
}
