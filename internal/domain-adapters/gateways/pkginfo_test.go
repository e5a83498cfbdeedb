package gateways

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xray7224/p/internal/domain/entities"
)

func testDescriptor() *entities.Descriptor {
	return &entities.Descriptor{
		Name:            "p",
		Version:         "0.1",
		Description:     "A command-line Pump.io tool",
		LongDescription: "# p\r\n\r\nPost to pump.io\r\n",
		Author:          "Jessica Tallon",
		URL:             "https://github.com/xray7224/p",
		License:         "GPLv3+",
		Scripts:         []string{"p"},
		Dependencies: []entities.Dependency{
			{Name: "pypump", Version: "0.6", Source: "https://github.com/xray7224/PyPump/tarball/master#egg=pypump-0.6"},
			{Name: "click"},
		},
		Classifiers: []string{
			"Development Status :: 3 - Alpha",
			"Operating System :: POSIX",
		},
	}
}

func TestRenderPKGInfo(t *testing.T) {
	got := string(RenderPKGInfo(testDescriptor()))

	want := `Metadata-Version: 1.1
Name: p
Version: 0.1
Summary: A command-line Pump.io tool
Home-page: https://github.com/xray7224/p
Author: Jessica Tallon
License: GPLv3+
Description: # p
        
        Post to pump.io
Platform: UNKNOWN
Classifier: Development Status :: 3 - Alpha
Classifier: Operating System :: POSIX
Requires: pypump
Requires: click
`
	if got != want {
		t.Errorf("RenderPKGInfo() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderPKGInfo_OptionalFields(t *testing.T) {
	desc := testDescriptor()
	desc.AuthorEmail = "jessica@example.org"
	desc.LongDescription = ""
	desc.URL = ""

	got := string(RenderPKGInfo(desc))

	for _, line := range []string{
		"Author-email: jessica@example.org\n",
		"Description: UNKNOWN\n",
		"Home-page: UNKNOWN\n",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("PKG-INFO missing %q:\n%s", line, got)
		}
	}
}

func TestRenderPKGInfo_Deterministic(t *testing.T) {
	a := RenderPKGInfo(testDescriptor())
	b := RenderPKGInfo(testDescriptor())
	if !bytes.Equal(a, b) {
		t.Error("RenderPKGInfo() should be deterministic")
	}
}

func TestRenderPKGInfo_SummaryFolded(t *testing.T) {
	desc := testDescriptor()
	desc.Description = "line one\nline two"

	if got := string(RenderPKGInfo(desc)); !strings.Contains(got, "Summary: line one line two\n") {
		t.Errorf("multi-line summary should be folded:\n%s", got)
	}
}

func TestRenderPKGInfo_RequiresSpecifier(t *testing.T) {
	desc := testDescriptor()
	desc.Dependencies = []entities.Dependency{
		{Name: "click", Specifier: ">=2.0", Version: "2.0-dev"},
		{Name: "six"},
	}

	got := string(RenderPKGInfo(desc))
	if !strings.Contains(got, "Requires: click (>=2.0)\nRequires: six\n") {
		t.Errorf("Requires should use the 'name (specifier)' form:\n%s", got)
	}
}
