package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xray7224/p/internal/domain/entities"
)

// classifierCategories are the top-level trove categories accepted by package indexes
var classifierCategories = map[string]bool{
	"Development Status":   true,
	"Environment":          true,
	"Framework":            true,
	"Intended Audience":    true,
	"License":              true,
	"Natural Language":     true,
	"Operating System":     true,
	"Programming Language": true,
	"Topic":                true,
	"Typing":               true,
}

// ValidateManifest reports every problem in m at once.
// The returned error wraps entities.ErrInvalidManifest.
func ValidateManifest(m *entities.Manifest) error {
	if m == nil {
		return fmt.Errorf("%w: manifest is nil", entities.ErrInvalidManifest)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(m.Name) == "" {
		fail("name is required")
	}
	if strings.TrimSpace(m.Version) == "" {
		fail("version is required")
	}
	if strings.TrimSpace(m.Description) == "" {
		fail("description is required")
	}
	if !filepath.IsLocal(m.Readme()) {
		fail("readme %q must be a relative path inside the project", m.Readme())
	}

	if len(m.Scripts) == 0 {
		fail("at least one script is required")
	}
	// Scripts share the sdist root with these members
	reserved := map[string]bool{
		entities.PKGInfoFile:         true,
		entities.ManifestArchiveFile: true,
		archivePath(m.Readme()):      true,
	}
	scripts := make(map[string]bool, len(m.Scripts))
	for _, s := range m.Scripts {
		switch {
		case s == "":
			fail("script path must not be empty")
		case !filepath.IsLocal(s):
			fail("script %q must be a relative path inside the project", s)
		case reserved[archivePath(s)]:
			fail("script %q collides with the sdist member %s", s, archivePath(s))
		case scripts[filepath.Base(s)]:
			fail("script %q is declared twice", filepath.Base(s))
		}
		scripts[filepath.Base(s)] = true
	}

	deps := make(map[string]bool, len(m.InstallRequires))
	for _, req := range m.InstallRequires {
		if strings.TrimSpace(req) == "" {
			fail("dependency name must not be empty")
			continue
		}
		name, _, err := ParseRequirement(req)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		key := NormalizeName(name)
		if deps[key] {
			errs = append(errs, fmt.Errorf("%w: %s", entities.ErrDuplicateDependency, name))
		}
		deps[key] = true
	}

	for _, raw := range m.DependencyLinks {
		if _, err := ParseDependencyLink(raw); err != nil {
			errs = append(errs, err)
		}
	}

	classifiers := make(map[string]bool, len(m.Classifiers))
	for _, c := range m.Classifiers {
		if err := ValidateClassifier(c); err != nil {
			errs = append(errs, err)
		}
		if classifiers[c] {
			fail("classifier %q is declared twice", c)
		}
		classifiers[c] = true
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", entities.ErrInvalidManifest, errors.Join(errs...))
}

// archivePath is the slash-separated path of a project file inside the sdist
func archivePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// ValidateClassifier checks the "Category :: Value[ :: Value]" shape
func ValidateClassifier(c string) error {
	parts := strings.Split(c, " :: ")
	if len(parts) < 2 {
		return fmt.Errorf("classifier %q must have the form 'Category :: Value'", c)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" || p != strings.TrimSpace(p) {
			return fmt.Errorf("classifier %q has an empty or padded segment", c)
		}
	}
	if !classifierCategories[parts[0]] {
		return fmt.Errorf("classifier %q has unknown category %q", c, parts[0])
	}
	return nil
}
