//go:build !darwin

package directio

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func noCacheToggle(int, Mode) error {
	return ioerr.New("fcntl(F_NOCACHE)", unix.ENOSYS)
}
