package transcript

import "errors"

// Error kinds surfaced by the normalizer. Callers branch on these with
// errors.Is; the wrapped message carries the human-readable cause.
var (
	ErrNotFound           = errors.New("input file not found")
	ErrInvalidInput       = errors.New("input is not valid JSON")
	ErrUnrecognizedFormat = errors.New("unrecognized transcript format")
)
