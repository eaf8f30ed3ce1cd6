package paging

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the pagination engine. All cursor decoding
// failures collapse into ErrInvalidCursor at the API boundary so callers
// cannot distinguish a malformed token from a forged one.
var (
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrInvalidFilterField = errors.New("invalid filter field")
	ErrInvalidFilterValue = errors.New("invalid filter value")
	ErrStore              = errors.New("store query failed")
)

// invalidCursor wraps an internal decode failure cause with the public
// sentinel. The cause stays available for logging via errors.Unwrap.
func invalidCursor(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCursor, fmt.Sprintf(format, args...))
}

// storeError wraps a backing store failure. The store's own error is
// preserved as the cause; no retry happens at this layer.
func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStore, err)
}
