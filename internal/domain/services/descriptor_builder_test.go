package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xray7224/p/internal/domain-adapters/gateways"
	"github.com/xray7224/p/internal/domain/entities"
	"github.com/xray7224/p/internal/external-adapters/yaml"
)

const testReadme = "# p\n\nA command-line Pump.io tool.\n"

func newBuilder() *DescriptorBuilder {
	return NewDescriptorBuilder(yaml.NewManifestRepository(), gateways.NewReadmeReader(), nil)
}

func projectWithReadme(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte(testReadme), 0600))
	return dir
}

func TestDescriptorBuilder_Build_Default(t *testing.T) {
	desc, err := newBuilder().Build(context.Background(), projectWithReadme(t))
	require.NoError(t, err)

	assert.Equal(t, "p", desc.Name)
	assert.Equal(t, "0.1", desc.Version)
	assert.Equal(t, "A command-line Pump.io tool", desc.Description)
	assert.Equal(t, testReadme, desc.LongDescription)
	assert.Equal(t, "Jessica Tallon", desc.Author)
	assert.Equal(t, "https://github.com/xray7224/p", desc.URL)
	assert.Equal(t, "GPLv3+", desc.License)
	assert.Equal(t, []string{"p"}, desc.Scripts)
	assert.Equal(t,
		[]string{"pypump", "click", "colorama", "pytz", "six", "html2text"},
		desc.DependencyNames())
	assert.Len(t, desc.Classifiers, 16)
	assert.Len(t, desc.DependencyLinks, 2)
}

func TestDescriptorBuilder_Build_ResolvesLinks(t *testing.T) {
	desc, err := newBuilder().Build(context.Background(), projectWithReadme(t))
	require.NoError(t, err)

	want := []entities.Dependency{
		{Name: "pypump", Version: "0.6", Source: "https://github.com/xray7224/PyPump/tarball/master#egg=pypump-0.6"},
		{Name: "click", Version: "2.0-dev", Source: "https://github.com/mitsuhiko/click/tarball/master#egg=click-2.0-dev"},
		{Name: "colorama"},
		{Name: "pytz"},
		{Name: "six"},
		{Name: "html2text"},
	}
	if diff := cmp.Diff(want, desc.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptorBuilder_Build_MissingReadme(t *testing.T) {
	desc, err := newBuilder().Build(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.Nil(t, desc)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "error should wrap fs.ErrNotExist: %v", err)
	assert.True(t, errors.Is(err, entities.ErrReadmeMissing))
}

func TestDescriptorBuilder_Build_Idempotent(t *testing.T) {
	dir := projectWithReadme(t)
	builder := newBuilder()

	first, err := builder.Build(context.Background(), dir)
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), dir)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("rebuild changed the descriptor (-first +second):\n%s", diff)
	}
}

func TestDescriptorBuilder_Build_ClassifiersIgnoreEnvironment(t *testing.T) {
	dir := projectWithReadme(t)
	baseline, err := newBuilder().Build(context.Background(), dir)
	require.NoError(t, err)

	t.Setenv("GOOS", "plan9")
	t.Setenv("GOARCH", "mips")
	t.Setenv("PYTHONVERSION", "3.12")
	again, err := newBuilder().Build(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, baseline.Classifiers, again.Classifiers)
	assert.Contains(t, again.Classifiers, "Operating System :: Microsoft :: Windows")
}

func TestDescriptorBuilder_BuildFromManifest_DoesNotAlias(t *testing.T) {
	dir := projectWithReadme(t)
	m := &entities.Manifest{
		Name:            "tool",
		Version:         "1.0",
		Description:     "a tool",
		Scripts:         []string{"tool"},
		InstallRequires: []string{"a", "b"},
		Classifiers:     []string{"Topic :: Utilities"},
	}

	desc, err := newBuilder().BuildFromManifest(context.Background(), m, dir)
	require.NoError(t, err)

	m.Scripts[0] = "changed"
	m.InstallRequires[0] = "changed"
	m.Classifiers[0] = "changed"

	assert.Equal(t, []string{"tool"}, desc.Scripts)
	assert.Equal(t, []string{"a", "b"}, desc.DependencyNames())
	assert.Equal(t, []string{"Topic :: Utilities"}, desc.Classifiers)
}

func TestDescriptorBuilder_BuildFromManifest_Duplicate(t *testing.T) {
	m := &entities.Manifest{
		Name:            "tool",
		Version:         "1.0",
		Description:     "a tool",
		Scripts:         []string{"tool"},
		InstallRequires: []string{"six", "click", "Six"},
	}

	desc, err := newBuilder().BuildFromManifest(context.Background(), m, projectWithReadme(t))

	assert.Nil(t, desc)
	assert.ErrorIs(t, err, entities.ErrInvalidManifest)
	assert.ErrorIs(t, err, entities.ErrDuplicateDependency)
}

func TestDescriptorBuilder_Build_CustomReadme(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.yml"), []byte(`name: tool
version: "2.0"
description: a tool
readme: docs/README.rst
scripts: [bin/tool]
`), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "README.rst"), []byte("tool\n===="), 0600))

	desc, err := newBuilder().Build(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "tool\n====", desc.LongDescription)
	assert.Equal(t, []string{"bin/tool"}, desc.Scripts)
	assert.Empty(t, desc.Dependencies)
}

type failingRepo struct{}

func (failingRepo) LoadManifest(context.Context, string) (*entities.Manifest, error) {
	return nil, errors.New("boom")
}

func TestDescriptorBuilder_Build_ManifestError(t *testing.T) {
	builder := NewDescriptorBuilder(failingRepo{}, gateways.NewReadmeReader(), nil)

	_, err := builder.Build(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "failed to load manifest: boom")
}
