package predict

import "errors"

// Sentinel error kinds for this package.
var (
	ErrShapeMismatch = errors.New("feature width does not match fitted width")
	ErrInvalidModel  = errors.New("invalid fitted parameters")
)
