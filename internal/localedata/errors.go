// SPDX-License-Identifier: MPL-2.0

package localedata

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a locale file does not exist.
	ErrNotFound = errors.New("locale file not found")
	// ErrMalformedData is returned when a locale file exists but is not a
	// well-formed locale mapping.
	ErrMalformedData = errors.New("malformed locale data")
	// ErrReadOnlyFormat is returned when writing to a format that is only read.
	ErrReadOnlyFormat = errors.New("locale format is read-only")
	// ErrKeyConflict is returned when a dotted key would descend through a
	// value that is not a mapping.
	ErrKeyConflict = errors.New("key conflicts with existing value")
)

type (
	// NotFoundError wraps ErrNotFound with the missing path.
	NotFoundError struct {
		Path string
	}

	// MalformedDataError wraps ErrMalformedData with the path, the format it
	// was decoded as, and the decoder's complaint.
	MalformedDataError struct {
		Path   string
		Format Format
		Cause  error
	}

	// KeyConflictError wraps ErrKeyConflict with the key and the segment
	// that blocked it.
	KeyConflictError struct {
		Key     string
		Segment string
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("locale file not found: %s", e.Path)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed %s locale data in %s: %v", e.Format, e.Path, e.Cause)
}

// Unwrap returns the decoder error so callers can inspect it.
func (e *MalformedDataError) Unwrap() error { return e.Cause }

// Is matches ErrMalformedData.
func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("cannot set %q: %q is not a mapping", e.Key, e.Segment)
}

// Unwrap returns ErrKeyConflict for errors.Is() compatibility.
func (e *KeyConflictError) Unwrap() error { return ErrKeyConflict }
