package hostcaps

import (
	"os"
	"strconv"
)

// runtimeFDs picks the network poller's epoll instance and its eventfd
// wake-up descriptor out of open.
func runtimeFDs(open []int) []int {
	var fds []int
	for _, fd := range open {
		target, err := os.Readlink("/proc/self/fd/" + strconv.Itoa(fd))
		if err != nil {
			continue
		}
		switch target {
		case "anon_inode:[eventpoll]", "anon_inode:[eventfd]":
			fds = append(fds, fd)
		}
	}
	return fds
}
