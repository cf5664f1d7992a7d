package hostcaps

import "golang.org/x/sys/unix"

// _S_IFPORT is the file type of an event port.
const _S_IFPORT = 0xe000

// runtimeFDs picks the network poller's event port out of open. The poller
// wakes itself with port_alert, so it holds no other descriptor.
func runtimeFDs(open []int) []int {
	var fds []int
	for _, fd := range open {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err == nil && st.Mode&unix.S_IFMT == _S_IFPORT {
			fds = append(fds, fd)
		}
	}
	return fds
}
