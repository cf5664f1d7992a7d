//go:build aix || openbsd || solaris

package rawfile

import "golang.org/x/sys/unix"

// nativeWritev is unavailable; the capability probe never reports it here.
func nativeWritev(int, [][]byte) (int, unix.Errno) {
	return 0, unix.ENOSYS
}
