package rawfile

import "golang.org/x/sys/unix"

// emulatedWritev stands in for writev(2) on hosts without it: the buffers are
// copied into one contiguous buffer and written with a single write(2), which
// keeps the one-system-call contract of Writev.
func emulatedWritev(fd int, bufs [][]byte) (int, unix.Errno) {
	var total int
	for _, b := range bufs {
		total += len(b)
	}
	if total == 0 {
		return 0, 0
	}

	buf := make([]byte, 0, total)
	for _, b := range bufs {
		buf = append(buf, b...)
	}

	n, err := unix.Write(fd, buf)
	if err != nil {
		errno, ok := err.(unix.Errno)
		if !ok {
			return 0, unix.EIO
		}
		return 0, errno
	}
	return n, 0
}
