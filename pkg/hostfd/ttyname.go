package hostfd

import (
	"github.com/walteh/fdio/pkg/ioerr"
)

// TTYName returns the path of the terminal device open on fd. It returns
// ioerr.ErrNotTTY if fd is not a terminal.
func TTYName(fd int) (string, error) {
	if !isatty(fd) {
		return "", ioerr.ErrNotTTY
	}
	return ttyPath(fd)
}
