//go:build dragonfly || freebsd || netbsd

package hostcaps

import "golang.org/x/sys/unix"

const family = BSD

func probePlatform(s *Set) {
	s.NativeWritev = true
	if verifyFDDir("/dev/fd") {
		s.FDDir = "/dev/fd"
	}
	s.DirectIOFlag = unix.O_DIRECT
}
