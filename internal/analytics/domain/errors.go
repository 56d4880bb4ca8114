package domain

import "errors"

// Error kinds classified at the dispatcher boundary. Lower layers wrap these
// with fmt.Errorf("%w: ...") so errors.Is works across packages. All are
// terminal for the call; nothing is retried.
var (
	// ErrAuthentication covers missing, invalid, or expired credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrValidation covers unknown operations, unknown filter keys, wrong
	// value types, and missing required parameters.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers references to entity ids that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrDomain covers domain constraint violations such as an inverted date range.
	ErrDomain = errors.New("domain constraint violated")
)
