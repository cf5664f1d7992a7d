//go:build aix

package hostcaps

const family = Other

func probePlatform(s *Set) {
	if verifyFDDir("/proc/self/fd") {
		s.FDDir = "/proc/self/fd"
	}
}
