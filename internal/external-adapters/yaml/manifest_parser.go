// Package yaml provides YAML-based manifest parsing and repository implementations.
package yaml

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xray7224/p/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlManifest represents the raw YAML structure
type yamlManifest struct {
	Name            string   `yaml:"name"`
	Version         string   `yaml:"version"`
	Description     string   `yaml:"description"`
	Readme          string   `yaml:"readme,omitempty"`
	Author          string   `yaml:"author"`
	AuthorEmail     string   `yaml:"author_email,omitempty"`
	URL             string   `yaml:"url"`
	License         string   `yaml:"license"`
	Scripts         []string `yaml:"scripts"`
	InstallRequires []string `yaml:"install_requires"`
	DependencyLinks []string `yaml:"dependency_links,omitempty"`
	Classifiers     []string `yaml:"classifiers"`
}

// ManifestParser parses YAML manifest files
type ManifestParser struct{}

// NewManifestParser creates a new YAML parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a YAML manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is the project's manifest path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	m, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	m.Source = filePath
	return m, nil
}

// Parse parses YAML bytes into a Manifest entity
func (p *ManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var ym yamlManifest
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if ym.Name == "" {
		return nil, fmt.Errorf("manifest must have a name")
	}

	return &entities.Manifest{
		Name:            ym.Name,
		Version:         ym.Version,
		Description:     ym.Description,
		ReadmeFile:      ym.Readme,
		Author:          ym.Author,
		AuthorEmail:     ym.AuthorEmail,
		URL:             ym.URL,
		License:         ym.License,
		Scripts:         ym.Scripts,
		InstallRequires: ym.InstallRequires,
		DependencyLinks: ym.DependencyLinks,
		Classifiers:     ym.Classifiers,
		Raw:             bytes.Clone(data),
	}, nil
}

// Marshal renders a manifest back to YAML in the field order of setup.yml
func Marshal(m *entities.Manifest) ([]byte, error) {
	ym := yamlManifest{
		Name:            m.Name,
		Version:         m.Version,
		Description:     m.Description,
		Readme:          m.ReadmeFile,
		Author:          m.Author,
		AuthorEmail:     m.AuthorEmail,
		URL:             m.URL,
		License:         m.License,
		Scripts:         m.Scripts,
		InstallRequires: m.InstallRequires,
		DependencyLinks: m.DependencyLinks,
		Classifiers:     m.Classifiers,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&ym); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}
