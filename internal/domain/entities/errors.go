package entities

import "errors"

var (
	// ErrReadmeMissing is returned when the long description file cannot be read
	ErrReadmeMissing = errors.New("readme not readable")

	// ErrInvalidManifest wraps every manifest validation failure
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrDuplicateDependency is returned when a dependency is declared twice
	ErrDuplicateDependency = errors.New("duplicate dependency")
)
