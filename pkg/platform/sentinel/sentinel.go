package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped) and
// services translate them into domain errors:
//   - ErrNotFound: no document for the key
//   - ErrAlreadyUsed: a unique key (student+drive, registration id) is taken
//   - ErrInvalidState: document is in the wrong state for the requested write
//   - ErrUnavailable: backing store temporarily unreachable
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
