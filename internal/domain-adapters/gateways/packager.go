package gateways

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/domain/interfaces"
	"github.com/xray7224/p/internal/external-adapters/yaml"
)

// DefaultBuildTime is the entry timestamp used when no SOURCE_DATE_EPOCH is given
var DefaultBuildTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// PackagerConfig holds configuration for the packager
type PackagerConfig struct {
	// BuildTime is stamped on every archive entry so builds are reproducible
	BuildTime time.Time
	Logger    interfaces.Logger
}

// Packager builds source distributions from a descriptor
type Packager struct {
	buildTime time.Time
	logger    interfaces.Logger
}

// NewPackager creates a new packager
func NewPackager(cfg PackagerConfig) *Packager {
	if cfg.BuildTime.IsZero() {
		cfg.BuildTime = DefaultBuildTime
	}
	if cfg.Logger == nil {
		cfg.Logger = &interfaces.NoOpLogger{}
	}
	return &Packager{buildTime: cfg.BuildTime.UTC(), logger: cfg.Logger}
}

// archiveEntry is one file of the sdist
type archiveEntry struct {
	name string
	mode int64
	data []byte
	src  string // read from disk when set
}

// PackageSdist writes <outputDir>/<name>-<version>.tar.gz containing PKG-INFO,
// the readme, the manifest and every script under a <name>-<version>/ prefix.
func (p *Packager) PackageSdist(
	ctx context.Context,
	desc *entities.Descriptor,
	manifest *entities.Manifest,
	projectDir, outputDir string,
) (*entities.Artifact, error) {
	if outputDir == "" {
		outputDir = "dist"
	}

	manifestData, err := manifestArchiveData(manifest)
	if err != nil {
		return nil, err
	}

	// The readme ships as found on disk; the descriptor only holds its decoded text
	entries := []archiveEntry{
		{name: entities.PKGInfoFile, mode: 0644, data: RenderPKGInfo(desc)},
		{name: filepath.ToSlash(filepath.Clean(manifest.Readme())), mode: 0644, src: filepath.Join(projectDir, manifest.Readme())},
		{name: entities.ManifestArchiveFile, mode: 0644, data: manifestData},
	}
	for _, script := range desc.Scripts {
		src := filepath.Join(projectDir, script)
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("failed to stat script %s: %w", script, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("script %s is not a regular file", script)
		}
		entries = append(entries, archiveEntry{name: filepath.ToSlash(filepath.Clean(script)), mode: 0755, src: src})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	for i := 1; i < len(entries); i++ {
		if entries[i].name == entries[i-1].name {
			return nil, fmt.Errorf("sdist member %s is declared twice", entries[i].name)
		}
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tarballPath := filepath.Join(outputDir, desc.DistName()+".tar.gz")
	if err := p.createTarball(ctx, tarballPath, desc.DistName(), entries); err != nil {
		return nil, fmt.Errorf("failed to create tarball: %w", err)
	}

	p.logger.Info("sdist written",
		interfaces.F("path", tarballPath),
		interfaces.F("entries", len(entries)),
	)

	return &entities.Artifact{
		Name:    desc.Name,
		Version: desc.Version,
		Path:    tarballPath,
		Type:    entities.ArtifactSdist,
	}, nil
}

// manifestArchiveData returns the setup.yml shipped in the sdist. YAML
// manifests ship verbatim; other formats are rendered to YAML.
func manifestArchiveData(m *entities.Manifest) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(m.Source)) {
	case "", ".yml", ".yaml":
		if len(m.Raw) > 0 {
			return m.Raw, nil
		}
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", entities.ManifestArchiveFile, err)
	}
	return data, nil
}

// createTarball writes entries under prefix into a gzipped tar, replacing
// tarballPath only once the archive is complete
func (p *Packager) createTarball(ctx context.Context, tarballPath, prefix string, entries []archiveEntry) (err error) {
	out, err := createAtomic(tarballPath, 0644)
	if err != nil {
		return fmt.Errorf("failed to create tarball file: %w", err)
	}
	defer func() {
		if cerr := out.Cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	gzipWriter, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		return err
	}
	// gzip header fields stay zero so the archive bytes depend only on content
	tarWriter := tar.NewWriter(gzipWriter)

	dirHeader := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     prefix + "/",
		Mode:     0755,
		ModTime:  p.buildTime,
		Format:   tar.FormatPAX,
	}
	if err := tarWriter.WriteHeader(dirHeader); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.writeEntry(tarWriter, prefix, e); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return out.Commit()
}

func (p *Packager) writeEntry(tw *tar.Writer, prefix string, e archiveEntry) error {
	var (
		r    io.Reader
		size int64
	)
	if e.src != "" {
		//nolint:gosec // G304: src is a script declared by the manifest
		f, err := os.Open(e.src)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		//nolint:errcheck // Defer close on read-only file
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("failed to stat file: %w", err)
		}
		r, size = f, info.Size()
	} else {
		r, size = bytes.NewReader(e.data), int64(len(e.data))
	}

	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     path.Join(prefix, e.name),
		Mode:     e.mode,
		Size:     size,
		ModTime:  p.buildTime,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}
	if _, err := io.Copy(tw, r); err != nil {
		return fmt.Errorf("failed to write file to tar: %w", err)
	}
	return nil
}
