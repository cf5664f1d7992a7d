package directio

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func noCacheToggle(fd int, m Mode) error {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_NOCACHE, int(m))
	return ioerr.FromErr("fcntl(F_NOCACHE)", err)
}
