//go:build linux

package hostfd

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func isatty(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	return err == nil
}

func ttyPath(fd int) (string, error) {
	name, err := os.Readlink("/proc/self/fd/" + strconv.Itoa(fd))
	if err != nil {
		return "", ioerr.FromErr("readlink", err)
	}
	return name, nil
}
