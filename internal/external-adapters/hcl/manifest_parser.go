// Package hcl parses setup.hcl package manifests.
package hcl

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/xray7224/p/internal/domain/entities"
)

// hclManifest mirrors setup.yml field for field
type hclManifest struct {
	Name            string   `hcl:"name"`
	Version         string   `hcl:"version,optional"`
	Description     string   `hcl:"description,optional"`
	Readme          string   `hcl:"readme,optional"`
	Author          string   `hcl:"author,optional"`
	AuthorEmail     string   `hcl:"author_email,optional"`
	URL             string   `hcl:"url,optional"`
	License         string   `hcl:"license,optional"`
	Scripts         []string `hcl:"scripts,optional"`
	InstallRequires []string `hcl:"install_requires,optional"`
	DependencyLinks []string `hcl:"dependency_links,optional"`
	Classifiers     []string `hcl:"classifiers,optional"`
}

// ManifestParser decodes HCL manifests
type ManifestParser struct{}

// NewManifestParser creates a new HCL parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses an HCL manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is the project's manifest path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	m, err := p.Parse(filePath, data)
	if err != nil {
		return nil, err
	}
	m.Source = filePath
	return m, nil
}

// Parse decodes HCL bytes; filename is only used in diagnostics
func (p *ManifestParser) Parse(filename string, data []byte) (*entities.Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var hm hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &hm); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if hm.Name == "" {
		return nil, fmt.Errorf("manifest must have a name")
	}

	return &entities.Manifest{
		Name:            hm.Name,
		Version:         hm.Version,
		Description:     hm.Description,
		ReadmeFile:      hm.Readme,
		Author:          hm.Author,
		AuthorEmail:     hm.AuthorEmail,
		URL:             hm.URL,
		License:         hm.License,
		Scripts:         hm.Scripts,
		InstallRequires: hm.InstallRequires,
		DependencyLinks: hm.DependencyLinks,
		Classifiers:     hm.Classifiers,
		Raw:             bytes.Clone(data),
	}, nil
}
