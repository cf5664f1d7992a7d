package fdwalk

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func closeRange(first, last uint) error {
	return ioerr.FromErr("close_range", unix.CloseRange(first, last, 0))
}
