package ioerr

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

func TestNew(t *testing.T) {
	if err := New("writev", 0); err != nil {
		t.Errorf("New with zero errno = %v, want nil", err)
	}

	err := New("writev", unix.EBADF)
	if !errors.Is(err, unix.EBADF) {
		t.Errorf("errors.Is(%v, EBADF) = false, want true", err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("errors.As(%v, *Error) = false", err)
	}
	if e.Op != "writev" || e.Errno != unix.EBADF {
		t.Errorf("got Op=%q Errno=%v, want writev/EBADF", e.Op, e.Errno)
	}
	if got, want := err.Error(), "writev: "+unix.EBADF.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFromErr(t *testing.T) {
	for _, tc := range []struct {
		name  string
		err   error
		errno unix.Errno
		isErr bool
	}{
		{name: "nil", err: nil},
		{name: "errno", err: unix.EPIPE, errno: unix.EPIPE, isErr: true},
		{name: "wrapped errno", err: fmt.Errorf("context: %w", unix.EAGAIN), errno: unix.EAGAIN, isErr: true},
		{name: "plain", err: errors.New("boom")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := FromErr("pread", tc.err)
			if tc.err == nil {
				if got != nil {
					t.Fatalf("FromErr(nil) = %v", got)
				}
				return
			}
			var e *Error
			if isErr := errors.As(got, &e); isErr != tc.isErr {
				t.Fatalf("errors.As(*Error) = %v, want %v", isErr, tc.isErr)
			}
			if Errno(got) != tc.errno {
				t.Errorf("Errno() = %v, want %v", Errno(got), tc.errno)
			}
			if tc.isErr && !errors.Is(got, tc.errno) {
				t.Errorf("errors.Is(%v, %v) = false", got, tc.errno)
			}
		})
	}
}

func TestTemporary(t *testing.T) {
	for errno, want := range map[unix.Errno]bool{
		unix.EINTR:  true,
		unix.EAGAIN: true,
		unix.EBADF:  false,
		unix.EPERM:  false,
	} {
		e := &Error{Op: "write", Errno: errno}
		if got := e.Temporary(); got != want {
			t.Errorf("%v.Temporary() = %v, want %v", errno, got, want)
		}
	}
}

func TestSentinels(t *testing.T) {
	if err := InvalidArgument("vector of %d buffers", 2000); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("InvalidArgument does not wrap ErrInvalidArgument: %v", err)
	}
	if err := Unsupported("fdwalk"); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Unsupported does not wrap errors.ErrUnsupported: %v", err)
	}
}
