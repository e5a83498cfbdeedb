package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xray7224/p/internal/domain/entities"
)

// DependencyLink is an archive URL that provides a specific dependency
type DependencyLink struct {
	URL     string
	Name    string
	Version string
}

// ParseDependencyLink extracts the #egg=<name>-<version> fragment of an archive URL.
// The version starts at the first '-' followed by a digit, so
// "click-2.0-dev" yields ("click", "2.0-dev") and "pypump" yields ("pypump", "").
func ParseDependencyLink(raw string) (DependencyLink, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return DependencyLink{}, fmt.Errorf("invalid dependency link %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return DependencyLink{}, fmt.Errorf("dependency link %q must be an absolute URL", raw)
	}

	values, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return DependencyLink{}, fmt.Errorf("invalid fragment in dependency link %q: %w", raw, err)
	}
	egg := values.Get("egg")
	if egg == "" {
		return DependencyLink{}, fmt.Errorf("dependency link %q has no #egg= fragment", raw)
	}

	name, version := egg, ""
	for i := 0; i < len(egg)-1; i++ {
		if egg[i] == '-' && egg[i+1] >= '0' && egg[i+1] <= '9' {
			name, version = egg[:i], egg[i+1:]
			break
		}
	}
	if name == "" {
		return DependencyLink{}, fmt.Errorf("dependency link %q has an empty egg name", raw)
	}

	return DependencyLink{URL: raw, Name: name, Version: version}, nil
}

// NormalizeName folds case and separators so "Py_Pump" and "py-pump" compare equal
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", ".", "-").Replace(name)
}

// ParseRequirement splits an install requirement such as "click>=2.0",
// "click (>=2.0)" or "pytz[tz]==2024.1" into its project name and version specifier.
// Extras are dropped.
func ParseRequirement(req string) (name, specifier string, err error) {
	req = strings.TrimSpace(req)
	end := strings.IndexFunc(req, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.')
	})
	if end < 0 {
		end = len(req)
	}
	name, rest := req[:end], strings.TrimSpace(req[end:])
	if name == "" {
		return "", "", fmt.Errorf("requirement %q has no project name", req)
	}

	if strings.HasPrefix(rest, "[") {
		closing := strings.IndexByte(rest, ']')
		if closing < 0 {
			return "", "", fmt.Errorf("requirement %q has unterminated extras", req)
		}
		rest = strings.TrimSpace(rest[closing+1:])
	}
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		rest = strings.TrimSpace(rest[1 : len(rest)-1])
	}
	if rest != "" && !strings.ContainsAny(rest[:1], "<>=!~") {
		return "", "", fmt.Errorf("requirement %q has an invalid version specifier %q", req, rest)
	}

	return name, rest, nil
}

// ResolveDependencies pairs install requirements with their dependency links.
// Order follows requires; duplicates and links are matched on the project
// name alone. A link naming an undeclared package is ignored here and kept
// only in the descriptor's raw link list.
func ResolveDependencies(requires, links []string) ([]entities.Dependency, error) {
	byName := make(map[string]DependencyLink, len(links))
	for _, raw := range links {
		link, err := ParseDependencyLink(raw)
		if err != nil {
			return nil, err
		}
		byName[NormalizeName(link.Name)] = link
	}

	deps := make([]entities.Dependency, 0, len(requires))
	seen := make(map[string]bool, len(requires))
	for _, req := range requires {
		name, specifier, err := ParseRequirement(req)
		if err != nil {
			return nil, err
		}
		key := NormalizeName(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s", entities.ErrDuplicateDependency, name)
		}
		seen[key] = true

		dep := entities.Dependency{Name: name, Specifier: specifier}
		if link, ok := byName[key]; ok {
			dep.Version = link.Version
			dep.Source = link.URL
		}
		deps = append(deps, dep)
	}

	return deps, nil
}
