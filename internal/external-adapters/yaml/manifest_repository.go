package yaml

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xray7224/p/internal/domain/entities"
)

//go:embed default_manifest.yml
var defaultManifest []byte

// FileParser parses a manifest file in some other format
type FileParser interface {
	ParseFile(filePath string) (*entities.Manifest, error)
}

type candidate struct {
	name   string
	parser FileParser
}

// ManifestRepository implements repositories.ManifestRepository using
// setup.yml, any extra registered formats, then the embedded default.
type ManifestRepository struct {
	parser     *ManifestParser
	candidates []candidate
}

// NewManifestRepository creates a new YAML-based manifest repository
func NewManifestRepository() *ManifestRepository {
	parser := NewManifestParser()
	return &ManifestRepository{
		parser: parser,
		candidates: []candidate{
			{name: "setup.yml", parser: parser},
			{name: "setup.yaml", parser: parser},
		},
	}
}

// RegisterFormat adds a manifest file name checked after the YAML ones
func (r *ManifestRepository) RegisterFormat(fileName string, parser FileParser) {
	r.candidates = append(r.candidates, candidate{name: fileName, parser: parser})
}

// LoadManifest loads the first manifest found in projectDir
func (r *ManifestRepository) LoadManifest(ctx context.Context, projectDir string) (*entities.Manifest, error) {
	for _, c := range r.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		filePath := filepath.Join(projectDir, c.name)
		if _, err := os.Stat(filePath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat manifest %s: %w", filePath, err)
		}

		return c.parser.ParseFile(filePath)
	}

	return DefaultManifest()
}

// DefaultManifest returns the embedded manifest of the p tool
func DefaultManifest() (*entities.Manifest, error) {
	m, err := NewManifestParser().Parse(defaultManifest)
	if err != nil {
		return nil, fmt.Errorf("embedded manifest: %w", err)
	}
	return m, nil
}
