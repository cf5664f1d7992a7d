//go:build darwin || dragonfly || freebsd || linux || netbsd

package rawfile

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// buildIovec builds an iovec slice from bufs, skipping empty buffers.
//
// iovecs is used as an initial slice, to avoid excessive allocations.
func buildIovec(bufs [][]byte, iovecs []unix.Iovec) []unix.Iovec {
	for i := range bufs {
		if l := len(bufs[i]); l > 0 {
			iov := unix.Iovec{Base: &bufs[i][0]}
			iov.SetLen(l)
			iovecs = append(iovecs, iov)
		}
	}
	return iovecs
}

// nativeWritev issues one writev(2).
func nativeWritev(fd int, bufs [][]byte) (int, unix.Errno) {
	var arr [8]unix.Iovec
	iovecs := buildIovec(bufs, arr[:0])
	if len(iovecs) == 0 {
		return 0, 0
	}
	n, _, e := unix.Syscall(unix.SYS_WRITEV, uintptr(fd), uintptr(unsafe.Pointer(&iovecs[0])), uintptr(len(iovecs)))
	if e != 0 {
		return 0, e
	}
	return int(n), 0
}
