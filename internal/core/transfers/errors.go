package transfers

import "errors"

var (
	// ErrInvalidInput is returned for transfer requests missing required fields.
	ErrInvalidInput = errors.New("invalid transfer request")

	// ErrOutsideSharePath is returned when a host path lies outside the shared POSIX base path.
	ErrOutsideSharePath = errors.New("path is outside the shared base path")

	// ErrNoHostCollection is returned when path translation is configured but
	// neither side of the transfer is the host collection.
	ErrNoHostCollection = errors.New("transfer does not involve the host collection")
)
