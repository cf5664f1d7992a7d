//go:build darwin

package hostfd

import (
	"bytes"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func isatty(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	return err == nil
}

// ttyPath asks the kernel for the path behind fd with F_GETPATH.
func ttyPath(fd int) (string, error) {
	var buf [unix.PathMax]byte
	_, _, e := unix.Syscall(unix.SYS_FCNTL, uintptr(fd), unix.F_GETPATH, uintptr(unsafe.Pointer(&buf[0])))
	if e != 0 {
		return "", ioerr.New("fcntl(F_GETPATH)", e)
	}
	if i := bytes.IndexByte(buf[:], 0); i >= 0 {
		return string(buf[:i]), nil
	}
	return string(buf[:]), nil
}
