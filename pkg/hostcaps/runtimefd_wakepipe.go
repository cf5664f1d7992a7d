//go:build netbsd || openbsd

package hostcaps

import "golang.org/x/sys/unix"

// runtimeFDs picks the network poller's kqueue out of open, together with
// its wake-up pipe. The runtime creates the pipe right after the kqueue, so
// its ends are the next two descriptors when they are non-blocking FIFOs.
func runtimeFDs(open []int) []int {
	var fds []int
	for _, fd := range open {
		if !isKqueue(fd) {
			continue
		}
		fds = append(fds, fd)
		for _, p := range []int{fd + 1, fd + 2} {
			if isWakePipe(p) {
				fds = append(fds, p)
			}
		}
	}
	return fds
}

func isWakePipe(fd int) bool {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil || st.Mode&unix.S_IFMT != unix.S_IFIFO {
		return false
	}
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	return err == nil && flags&unix.O_NONBLOCK != 0
}
