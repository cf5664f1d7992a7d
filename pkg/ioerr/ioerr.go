// Package ioerr defines the errors returned by the descriptor I/O packages.
//
// System call failures are reported as *Error, which carries the name of the
// failing operation and the raw errno. Argument and capability problems are
// reported by wrapping one of the sentinel errors below, so callers can
// match them with errors.Is.
package ioerr

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrInvalidArgument is wrapped by errors describing malformed input,
	// such as an oversized vector or an unknown direct-I/O mode.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported is returned when the platform has neither a native
	// primitive nor a fallback for an operation.
	ErrUnsupported = errors.ErrUnsupported

	// ErrNotTTY is returned by TTYName for descriptors that are not
	// terminals.
	ErrNotTTY = errors.New("not a terminal")
)

// Error is a failed system call.
type Error struct {
	// Op is the name of the operation that failed, e.g. "writev".
	Op string

	// Errno is the raw OS error number.
	Errno unix.Errno
}

// Error implements error.Error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Errno)
}

// Unwrap returns the errno, so errors.Is(err, unix.EBADF) works.
func (e *Error) Unwrap() error {
	return e.Errno
}

// Temporary reports whether the failure is transient (interrupted or would
// block).
func (e *Error) Temporary() bool {
	return e.Errno == unix.EINTR || e.Errno == unix.EAGAIN || e.Errno == unix.EWOULDBLOCK
}

// New returns an *Error for op, or nil if errno is zero.
func New(op string, errno unix.Errno) error {
	if errno == 0 {
		return nil
	}
	return &Error{Op: op, Errno: errno}
}

// FromErr converts an error returned by a golang.org/x/sys/unix call into an
// *Error. Errors that are not errnos are wrapped with op as context.
func FromErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return &Error{Op: op, Errno: errno}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Errno returns the errno carried by err, or 0 if it carries none.
func Errno(err error) unix.Errno {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Unsupported returns an error wrapping ErrUnsupported.
func Unsupported(op string) error {
	return fmt.Errorf("%s: %w", op, ErrUnsupported)
}
