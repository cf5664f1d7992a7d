//go:build !solaris

package directio

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func nativeToggle(int, Mode) error {
	return ioerr.New("directio", unix.ENOSYS)
}
