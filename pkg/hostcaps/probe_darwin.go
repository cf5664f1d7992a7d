//go:build darwin

package hostcaps

const family = Darwin

// Darwin has no O_DIRECT; cache bypass goes through fcntl(F_NOCACHE), which
// is selected by family rather than by a flag.
func probePlatform(s *Set) {
	s.NativeWritev = true
	if verifyFDDir("/dev/fd") {
		s.FDDir = "/dev/fd"
	}
}
