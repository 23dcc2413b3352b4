package remote

import "errors"

var (
	// ErrMissingAddr indicates Config.Addr is empty.
	ErrMissingAddr = errors.New("remote: redis address is required")

	// ErrInvalidDB indicates a negative database index.
	ErrInvalidDB = errors.New("remote: redis db must be >= 0")
)
