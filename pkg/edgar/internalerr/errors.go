package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNoHeader            = errors.New("no SEC header block")
	ErrMissingField        = errors.New("required header field missing")
	ErrNoManifest          = errors.New("no parseable manifest entries")
	ErrNoPrimaryDocument   = errors.New("primary document not found")
	ErrRetriesExhausted    = errors.New("retries exhausted")
	ErrUnsupportedCategory = errors.New("unsupported filing category")
	ErrInvalidConfig       = errors.New("invalid configuration")
)
