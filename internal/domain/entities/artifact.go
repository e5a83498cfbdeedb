// Package entities defines core domain models and data structures.
package entities

// Artifact types
const (
	ArtifactSdist     = "sdist"
	ArtifactScript    = "script"
	ArtifactChecksum  = "checksum"
	ArtifactSBOM      = "sbom"
	ArtifactSignature = "signature"
)

// Fixed members of every sdist, relative to its <name>-<version>/ root
const (
	PKGInfoFile         = "PKG-INFO"
	ManifestArchiveFile = "setup.yml"
)

// Artifact represents a file produced by a build or install
type Artifact struct {
	Name    string
	Version string
	Path    string
	Type    string
}
