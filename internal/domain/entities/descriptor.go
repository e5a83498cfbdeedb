package entities

// Descriptor is the package descriptor handed to the packaging toolchain.
// A Descriptor is built once and never modified afterwards; the builder
// owns every slice it contains.
type Descriptor struct {
	Name            string
	Version         string
	Description     string
	LongDescription string
	Author          string
	AuthorEmail     string
	URL             string
	License         string
	Scripts         []string
	Dependencies    []Dependency
	DependencyLinks []string
	Classifiers     []string
}

// Dependency is a runtime requirement of the installed tool
type Dependency struct {
	Name      string
	Specifier string // optional version constraint from the requirement, e.g. ">=2.0"
	Version   string // optional hint, taken from a dependency link
	Source    string // optional archive URL
}

// DependencyNames returns dependency names in declaration order
func (d *Descriptor) DependencyNames() []string {
	names := make([]string, 0, len(d.Dependencies))
	for _, dep := range d.Dependencies {
		names = append(names, dep.Name)
	}
	return names
}

// DistName returns the archive stem, e.g. "p-0.1"
func (d *Descriptor) DistName() string {
	return d.Name + "-" + d.Version
}
