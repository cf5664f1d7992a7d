//go:build linux

package hostcaps

import (
	"math"

	"golang.org/x/sys/unix"
)

const family = Linux

func probePlatform(s *Set) {
	s.NativeWritev = true
	if verifyFDDir("/proc/self/fd") {
		s.FDDir = "/proc/self/fd"
	}
	s.NativeCloseFrom = probeCloseRange()
	s.DirectIOFlag = unix.O_DIRECT
}

// probeCloseRange issues close_range(2) over a range holding no descriptor.
// Kernels before 5.9, and some sandboxes, fail it with ENOSYS or EPERM.
func probeCloseRange() bool {
	return unix.CloseRange(math.MaxUint32, math.MaxUint32, 0) == nil
}
