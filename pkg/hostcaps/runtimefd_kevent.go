//go:build darwin || dragonfly || freebsd

package hostcaps

// runtimeFDs picks the network poller's kqueue out of open. The poller wakes
// itself with EVFILT_USER, so it holds no other descriptor.
func runtimeFDs(open []int) []int {
	var fds []int
	for _, fd := range open {
		if isKqueue(fd) {
			fds = append(fds, fd)
		}
	}
	return fds
}
