//go:build aix || dragonfly || freebsd || netbsd || openbsd || solaris

package hostfd

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func isatty(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	return err == nil
}

// ttyPath resolves /dev/fd/N. Platforms where that entry is not a symbolic
// link report the operation as unsupported.
func ttyPath(fd int) (string, error) {
	name, err := os.Readlink("/dev/fd/" + strconv.Itoa(fd))
	if err != nil {
		return "", ioerr.Unsupported("ttyname")
	}
	return name, nil
}
