package analysis

import "errors"

// Error kinds surfaced by the engine. All of them are client-caused except
// ErrStore, which signals that the record store could not be reached and must
// not be conflated with a validation failure.
var (
	// ErrInvalidInput means the input was empty, blank, or had no header row.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStructure means a data row's cell count disagrees with the header.
	ErrInvalidStructure = errors.New("invalid csv structure")

	// ErrPayloadTooLarge means the byte-size or projected-cell-count guard tripped.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrForbiddenContent means the input matched the configured forbidden substring.
	ErrForbiddenContent = errors.New("forbidden content")

	// ErrNotFound means no analysis exists for the requested identifier.
	ErrNotFound = errors.New("analysis not found")

	// ErrStore wraps record store failures (connection refused, timeouts, ...).
	ErrStore = errors.New("record store unavailable")
)
