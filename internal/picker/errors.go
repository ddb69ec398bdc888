package picker

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped by ConfigurationError when the root is a file
var ErrNotDirectory = errors.New("not a directory")

// ConfigurationError reports an unusable root path. It is the only fatal
// picker error and is returned before anything is rendered.
type ConfigurationError struct {
	Root string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid picker root %s: %v", e.Root, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// PermissionError reports navigation outside the root boundary
type PermissionError struct {
	Path string
	Root string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no permission to access %s (outside %s)", e.Path, e.Root)
}

// ListingDegradedError records a per-entry stat failure. The entry is still
// listed, without size and modification time.
type ListingDegradedError struct {
	Path string
	Err  error
}

func (e *ListingDegradedError) Error() string {
	return fmt.Sprintf("metadata unavailable for %s: %v", e.Path, e.Err)
}

func (e *ListingDegradedError) Unwrap() error {
	return e.Err
}

// ListingError reports a directory that could not be enumerated
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("cannot list %s: %v", e.Path, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}
