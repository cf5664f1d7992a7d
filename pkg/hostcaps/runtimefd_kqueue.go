//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package hostcaps

import "golang.org/x/sys/unix"

// isKqueue returns true if fd is a kqueue. kevent(2) with nothing to change
// and nothing to collect returns at once on a kqueue and fails on anything
// else.
func isKqueue(fd int) bool {
	var ts unix.Timespec
	_, err := unix.Kevent(fd, nil, nil, &ts)
	return err == nil
}
