// Package hostfd provides positional transfers on host file descriptors.
//
// The calls here are thin: each issues exactly one system call and returns
// what the host reports. Short transfers are returned as-is, never retried.
package hostfd

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

// Pread reads up to length bytes from fd at offset without moving the file
// offset of fd. A result shorter than length means end of data.
func Pread(fd int, length int, offset int64) ([]byte, error) {
	if length < 0 {
		return nil, ioerr.InvalidArgument("pread: negative length %d", length)
	}
	buf := make([]byte, length)
	n, err := PreadInto(fd, buf, offset)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// PreadInto is Pread into a caller-supplied buffer. It returns the number of
// bytes read.
func PreadInto(fd int, dst []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, ioerr.InvalidArgument("pread: negative offset %d", offset)
	}
	if len(dst) == 0 {
		return 0, nil
	}
	n, err := unix.Pread(fd, dst, offset)
	if err != nil {
		return 0, ioerr.FromErr("pread", err)
	}
	return n, nil
}

// Pwrite writes buf to fd at offset without moving the file offset of fd. It
// returns the count reported by the host, which may be short.
func Pwrite(fd int, buf []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, ioerr.InvalidArgument("pwrite: negative offset %d", offset)
	}
	n, err := unix.Pwrite(fd, buf, offset)
	if err != nil {
		return 0, ioerr.FromErr("pwrite", err)
	}
	return n, nil
}
