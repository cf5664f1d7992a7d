//go:build !linux

package fdwalk

import (
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

func closeRange(first, last uint) error {
	return ioerr.New("close_range", unix.ENOSYS)
}
