package entities

import "time"

// SBOM represents a Software Bill of Materials
type SBOM struct {
	BOMFormat    string // "CycloneDX"
	SpecVersion  string // "1.5"
	SerialNumber string
	Version      int
	Components   []Component
	Metadata     Metadata
}

// Component represents a software component in the SBOM
type Component struct {
	Type      string // "application", "library"
	Name      string
	Version   string
	Licenses  []string
	Hashes    []Hash
	Externals []ExternalReference
}

// Hash represents a cryptographic hash of a component
type Hash struct {
	Algorithm string // "SHA-256", "SHA-512"
	Value     string
}

// ExternalReference points at where a component can be fetched
type ExternalReference struct {
	Type string // "distribution"
	URL  string
}

// Metadata contains SBOM generation metadata
type Metadata struct {
	Timestamp time.Time
	Tools     []Tool
	Component Component
}

// Tool represents a tool used to generate the SBOM
type Tool struct {
	Name    string
	Version string
}
