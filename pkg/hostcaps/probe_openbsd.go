//go:build openbsd

package hostcaps

const family = BSD

// OpenBSD only permits system calls through libc, so writev is emulated,
// and it has no O_DIRECT.
func probePlatform(s *Set) {
	if verifyFDDir("/dev/fd") {
		s.FDDir = "/dev/fd"
	}
}
