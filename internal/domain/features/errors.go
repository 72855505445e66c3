package features

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyManifest   = errors.New("manifest has no columns")
	ErrDuplicateColumn = errors.New("manifest column listed twice")
	ErrInvalidCatalog  = errors.New("invalid category catalog")
	ErrCatalogDrift    = errors.New("category catalog and manifest disagree")
)
