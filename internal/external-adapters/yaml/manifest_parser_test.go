package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestParser_Parse_Valid(t *testing.T) {
	parser := NewManifestParser()
	yamlData := []byte(`name: p
version: "0.1"
description: A command-line Pump.io tool
author: Jessica Tallon
url: https://github.com/xray7224/p
license: GPLv3+
scripts:
  - p
install_requires:
  - pypump
  - click
dependency_links:
  - https://github.com/xray7224/PyPump/tarball/master#egg=pypump-0.6
classifiers:
  - "Operating System :: POSIX"
`)

	m, err := parser.Parse(yamlData)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if m.Name != "p" {
		t.Errorf("Name = %v, want p", m.Name)
	}
	if m.Version != "0.1" {
		t.Errorf("Version = %v, want 0.1", m.Version)
	}
	if m.Readme() != "README.md" {
		t.Errorf("Readme() = %v, want README.md default", m.Readme())
	}
	if len(m.Scripts) != 1 || m.Scripts[0] != "p" {
		t.Errorf("Scripts = %v, want [p]", m.Scripts)
	}
	if strings.Join(m.InstallRequires, ",") != "pypump,click" {
		t.Errorf("InstallRequires = %v, want [pypump click]", m.InstallRequires)
	}
	if len(m.DependencyLinks) != 1 {
		t.Errorf("DependencyLinks count = %d, want 1", len(m.DependencyLinks))
	}
	if string(m.Raw) != string(yamlData) {
		t.Error("Raw should hold the manifest bytes as read")
	}
}

func TestManifestParser_Parse_UnquotedVersion(t *testing.T) {
	parser := NewManifestParser()

	m, err := parser.Parse([]byte("name: p\nversion: 0.1\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.Version != "0.1" {
		t.Errorf("Version = %q, want 0.1", m.Version)
	}
}

func TestManifestParser_Parse_MissingName(t *testing.T) {
	parser := NewManifestParser()
	yamlData := []byte(`version: "1.0"
description: Test package
`)

	_, err := parser.Parse(yamlData)
	if err == nil {
		t.Fatal("Parse() should return error for missing name")
	}
	if err.Error() != "manifest must have a name" {
		t.Errorf("Parse() error = %v, want 'manifest must have a name'", err)
	}
}

func TestManifestParser_Parse_InvalidYAML(t *testing.T) {
	parser := NewManifestParser()
	yamlData := []byte(`name: test
  invalid: [broken yaml
`)

	if _, err := parser.Parse(yamlData); err == nil {
		t.Error("Parse() should return error for invalid YAML")
	}
}

func TestManifestParser_ParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "setup.yml")
	if err := os.WriteFile(path, []byte("name: demo\nversion: \"2.0\"\n"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	m, err := NewManifestParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if m.Source != path {
		t.Errorf("Source = %v, want %v", m.Source, path)
	}
}

func TestManifestParser_ParseFile_NotFound(t *testing.T) {
	parser := NewManifestParser()
	if _, err := parser.ParseFile("/nonexistent/path/setup.yml"); err == nil {
		t.Error("ParseFile() should return error for nonexistent file")
	}
}

func TestMarshal_RoundTripsDefault(t *testing.T) {
	m, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest() error = %v", err)
	}

	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "author_email") {
		t.Errorf("empty author_email should be omitted:\n%s", data)
	}

	again, err := NewManifestParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) error = %v", err)
	}
	if strings.Join(again.Classifiers, "|") != strings.Join(m.Classifiers, "|") {
		t.Error("classifiers changed across Marshal/Parse")
	}
}
