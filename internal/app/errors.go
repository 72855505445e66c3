package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotStarted = errors.New("prediction service not started")
	ErrNoBundle   = errors.New("no artifacts bundle configured")
)
