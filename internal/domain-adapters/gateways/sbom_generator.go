package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xray7224/p/internal/domain/entities"
)

// SBOMGenerator describes a package and its declared dependencies as CycloneDX
type SBOMGenerator struct {
	checksums *ChecksumVerifier
	timestamp time.Time
	toolName  string
	toolVer   string
}

// NewSBOMGenerator creates a new SBOM generator. Every document carries
// timestamp so identical inputs yield identical documents.
func NewSBOMGenerator(timestamp time.Time, toolVersion string) *SBOMGenerator {
	if timestamp.IsZero() {
		timestamp = DefaultBuildTime
	}
	return &SBOMGenerator{
		checksums: NewChecksumVerifier(),
		timestamp: timestamp.UTC(),
		toolName:  "psetup",
		toolVer:   toolVersion,
	}
}

// GenerateSBOM generates a Software Bill of Materials for a built sdist
func (g *SBOMGenerator) GenerateSBOM(_ context.Context, desc *entities.Descriptor, artifact *entities.Artifact) (*entities.SBOM, error) {
	if desc == nil || artifact == nil {
		return nil, fmt.Errorf("descriptor and artifact are required")
	}
	if artifact.Path == "" {
		return nil, fmt.Errorf("artifact path cannot be empty")
	}

	sha256Sum, err := g.checksums.CalculateChecksum(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate artifact hash: %w", err)
	}
	sha512Sum, err := g.checksums.CalculateSHA512(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate artifact hash: %w", err)
	}

	root := entities.Component{
		Type:    "application",
		Name:    desc.Name,
		Version: desc.Version,
		Hashes: []entities.Hash{
			{Algorithm: "SHA-256", Value: sha256Sum},
			{Algorithm: "SHA-512", Value: sha512Sum},
		},
	}
	if desc.License != "" {
		root.Licenses = []string{desc.License}
	}
	if desc.URL != "" {
		root.Externals = []entities.ExternalReference{{Type: "website", URL: desc.URL}}
	}

	components := make([]entities.Component, 0, len(desc.Dependencies))
	for _, dep := range desc.Dependencies {
		c := entities.Component{Type: "library", Name: dep.Name, Version: dep.Version}
		if dep.Source != "" {
			c.Externals = []entities.ExternalReference{{Type: "distribution", URL: dep.Source}}
		}
		components = append(components, c)
	}

	serial := uuid.NewSHA1(uuid.NameSpaceURL, []byte(desc.URL+"#"+desc.DistName()+"@"+sha256Sum))

	return &entities.SBOM{
		BOMFormat:    "CycloneDX",
		SpecVersion:  "1.5",
		SerialNumber: "urn:uuid:" + serial.String(),
		Version:      1,
		Components:   components,
		Metadata: entities.Metadata{
			Timestamp: g.timestamp,
			Tools:     []entities.Tool{{Name: g.toolName, Version: g.toolVer}},
			Component: root,
		},
	}, nil
}

// CycloneDX JSON shapes

type cdxDocument struct {
	BOMFormat    string         `json:"bomFormat"`
	SpecVersion  string         `json:"specVersion"`
	SerialNumber string         `json:"serialNumber"`
	Version      int            `json:"version"`
	Metadata     cdxMetadata    `json:"metadata"`
	Components   []cdxComponent `json:"components"`
}

type cdxMetadata struct {
	Timestamp string       `json:"timestamp"`
	Tools     []cdxTool    `json:"tools"`
	Component cdxComponent `json:"component"`
}

type cdxTool struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type cdxComponent struct {
	Type               string       `json:"type"`
	Name               string       `json:"name"`
	Version            string       `json:"version,omitempty"`
	Hashes             []cdxHash    `json:"hashes,omitempty"`
	Licenses           []cdxLicense `json:"licenses,omitempty"`
	ExternalReferences []cdxRef     `json:"externalReferences,omitempty"`
}

type cdxHash struct {
	Alg     string `json:"alg"`
	Content string `json:"content"`
}

type cdxLicense struct {
	License struct {
		Name string `json:"name"`
	} `json:"license"`
}

type cdxRef struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MarshalCycloneDX renders an SBOM as indented CycloneDX JSON
func MarshalCycloneDX(sbom *entities.SBOM) ([]byte, error) {
	doc := cdxDocument{
		BOMFormat:    sbom.BOMFormat,
		SpecVersion:  sbom.SpecVersion,
		SerialNumber: sbom.SerialNumber,
		Version:      sbom.Version,
		Metadata: cdxMetadata{
			Timestamp: sbom.Metadata.Timestamp.UTC().Format(time.RFC3339),
			Component: toCDXComponent(sbom.Metadata.Component),
		},
		Components: make([]cdxComponent, 0, len(sbom.Components)),
	}
	for _, tool := range sbom.Metadata.Tools {
		doc.Metadata.Tools = append(doc.Metadata.Tools, cdxTool(tool))
	}
	for _, c := range sbom.Components {
		doc.Components = append(doc.Components, toCDXComponent(c))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SBOM: %w", err)
	}
	return append(data, '\n'), nil
}

func toCDXComponent(c entities.Component) cdxComponent {
	out := cdxComponent{Type: c.Type, Name: c.Name, Version: c.Version}
	for _, h := range c.Hashes {
		out.Hashes = append(out.Hashes, cdxHash{Alg: h.Algorithm, Content: h.Value})
	}
	for _, l := range c.Licenses {
		var lic cdxLicense
		lic.License.Name = l
		out.Licenses = append(out.Licenses, lic)
	}
	for _, r := range c.Externals {
		out.ExternalReferences = append(out.ExternalReferences, cdxRef(r))
	}
	return out
}

// RenderSBOM generates the SBOM for artifact and encodes it as CycloneDX JSON
func (g *SBOMGenerator) RenderSBOM(ctx context.Context, desc *entities.Descriptor, artifact *entities.Artifact) ([]byte, error) {
	sbom, err := g.GenerateSBOM(ctx, desc, artifact)
	if err != nil {
		return nil, err
	}
	return MarshalCycloneDX(sbom)
}
