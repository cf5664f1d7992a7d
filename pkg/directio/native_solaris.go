package directio

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

// _FIODIRECTIO is the directio(3C) ioctl request ('f'<<8|76).
const _FIODIRECTIO = 0x664c

func nativeToggle(fd int, m Mode) error {
	return ioerr.FromErr("directio", unix.IoctlSetInt(fd, _FIODIRECTIO, int(m)))
}
