// Package imgerr defines the error kinds shared by the image packages.
//
// Every error returned by the core wraps exactly one of the sentinel kinds
// below, so callers classify failures with errors.Is rather than by type.
package imgerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports bad dimensions, a bad transform code, an
	// out-of-bounds source region or a scan length shorter than the row.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRange reports an offset/length or destination index outside an array.
	ErrRange = errors.New("index out of range")

	// ErrDecode reports malformed or unsupported image data.
	ErrDecode = errors.New("decode error")

	// ErrIllegalState reports an operation the image variant does not allow.
	ErrIllegalState = errors.New("illegal state")

	// ErrLoad reports that an image could not be loaded from bytes, a stream
	// or a named resource. The underlying cause stays in the error chain.
	ErrLoad = errors.New("image load failed")
)

// InvalidArgument returns an error of kind ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Range returns an error of kind ErrRange.
func Range(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRange, fmt.Sprintf(format, args...))
}

// IllegalState returns an error of kind ErrIllegalState.
func IllegalState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, fmt.Sprintf(format, args...))
}

// Load wraps cause as an ErrLoad. A nil cause yields a bare ErrLoad.
func Load(cause error) error {
	if cause == nil {
		return ErrLoad
	}
	return fmt.Errorf("%w: %w", ErrLoad, cause)
}
