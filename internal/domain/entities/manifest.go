package entities

// Manifest is the static package configuration read from setup.yml,
// setup.hcl or the embedded default.
type Manifest struct {
	Name            string
	Version         string
	Description     string
	ReadmeFile      string
	Author          string
	AuthorEmail     string
	URL             string
	License         string
	Scripts         []string
	InstallRequires []string
	DependencyLinks []string
	Classifiers     []string

	// Source is the file the manifest was loaded from, "" for the embedded default.
	Source string
	// Raw is the manifest as read, shipped inside the sdist.
	Raw []byte
}

// DefaultReadmeFile is read into the long description when a manifest names none
const DefaultReadmeFile = "README.md"

// Readme returns the readme file name to use for the long description
func (m *Manifest) Readme() string {
	if m.ReadmeFile == "" {
		return DefaultReadmeFile
	}
	return m.ReadmeFile
}
