package gateways

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xray7224/p/internal/domain/entities"
)

// PKGInfoVersion is the core metadata version written to PKG-INFO
const PKGInfoVersion = "1.1"

// RenderPKGInfo renders the descriptor as a PKG-INFO document.
// Field order is fixed so the output depends only on the descriptor.
func RenderPKGInfo(desc *entities.Descriptor) []byte {
	var b bytes.Buffer

	field := func(key, value string) {
		if value == "" {
			value = "UNKNOWN"
		}
		fmt.Fprintf(&b, "%s: %s\n", key, singleLine(value))
	}

	field("Metadata-Version", PKGInfoVersion)
	field("Name", desc.Name)
	field("Version", desc.Version)
	field("Summary", desc.Description)
	field("Home-page", desc.URL)
	field("Author", desc.Author)
	if desc.AuthorEmail != "" {
		field("Author-email", desc.AuthorEmail)
	}
	field("License", desc.License)

	// Continuation lines are indented with 8 spaces
	b.WriteString("Description: ")
	long := strings.ReplaceAll(desc.LongDescription, "\r\n", "\n")
	long = strings.TrimRight(long, "\n")
	if long == "" {
		long = "UNKNOWN"
	}
	b.WriteString(strings.ReplaceAll(long, "\n", "\n        "))
	b.WriteString("\n")

	field("Platform", "UNKNOWN")
	for _, c := range desc.Classifiers {
		field("Classifier", c)
	}
	for _, dep := range desc.Dependencies {
		if dep.Specifier != "" {
			field("Requires", dep.Name+" ("+dep.Specifier+")")
			continue
		}
		field("Requires", dep.Name)
	}

	return b.Bytes()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
