package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrEmptyDataset       = errors.New("empty dataset")
	ErrNotFitted          = errors.New("model not fitted")
	ErrDegenerateEnsemble = errors.New("boosted ensemble no better than chance")
	ErrStoreUnavailable   = errors.New("store unavailable")
)
