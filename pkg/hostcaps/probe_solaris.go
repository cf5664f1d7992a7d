//go:build solaris

package hostcaps

const family = Solaris

// The Solaris family accepts only 16 iovecs per call and controls direct I/O
// with the ioctl behind directio(3C).
func probePlatform(s *Set) {
	s.IOVMax = IOVMaxSolaris
	if verifyFDDir("/proc/self/fd") {
		s.FDDir = "/proc/self/fd"
	}
	s.NativeDirectIO = true
}
