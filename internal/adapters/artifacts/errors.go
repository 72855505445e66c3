package artifacts

import "github.com/pkg/errors"

// Sentinel error kinds for this package.
var (
	ErrArtifactMissing = errors.New("artifact missing")
	ErrArtifactCorrupt = errors.New("artifact corrupt")
)
