package gateways

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xray7224/p/internal/domain/entities"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxReadmeSize bounds the long description; PyPI rejects far smaller ones
const maxReadmeSize = 8 << 20

// ReadmeReader reads long descriptions from disk as UTF-8
type ReadmeReader struct{}

// NewReadmeReader creates a new readme reader
func NewReadmeReader() *ReadmeReader {
	return &ReadmeReader{}
}

// ReadReadme returns the contents of path decoded to UTF-8.
// A UTF-8 or UTF-16 byte order mark selects the decoding and is stripped;
// without one the bytes are taken as UTF-8.
// Errors wrap both entities.ErrReadmeMissing and the underlying fs error.
func (r *ReadmeReader) ReadReadme(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	//nolint:gosec // G304: path is the manifest's readme inside the project
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrReadmeMissing, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	decoder := unicode.BOMOverride(transform.Nop)
	data, err := io.ReadAll(io.LimitReader(transform.NewReader(f, decoder), maxReadmeSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", entities.ErrReadmeMissing, path, err)
	}
	if len(data) > maxReadmeSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", entities.ErrReadmeMissing, path, maxReadmeSize)
	}

	return string(data), nil
}
