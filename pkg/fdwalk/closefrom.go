package fdwalk

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/ioerr"
	"github.com/walteh/fdio/pkg/log"
)

// CloseFrom closes every open descriptor >= low except reserved ones. A nil
// c means the host capability set.
//
// Descriptors that are already gone are ignored. Other close failures do
// not stop the scan; they are returned together once it finishes.
func CloseFrom(c *hostcaps.Set, low int) error {
	if low < 0 {
		return ioerr.InvalidArgument("closefrom: negative low descriptor %d", low)
	}
	c = hostcaps.Or(c)

	if c.NativeCloseFrom {
		err := closeRangeFrom(c, low)
		if err == nil {
			return nil
		}
		log.WithField("low", low).Debugf("fdwalk: close_range failed, closing one by one: %v", err)
	}

	var errs []error
	err := Walk(c, low, func(fd int) error {
		if err := unix.Close(fd); err != nil && err != unix.EBADF {
			errs = append(errs, fmt.Errorf("fd %d: %w", fd, ioerr.FromErr("close", err)))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return errors.Join(errs...)
}

// closeRangeFrom closes [low, MaxUint32] with close_range(2), leaving holes
// for reserved descriptors.
func closeRangeFrom(c *hostcaps.Set, low int) error {
	if !c.HasReservationQuery() {
		return closeRange(uint(low), math.MaxUint32)
	}

	// Locate the open reserved descriptors with every reservation lifted.
	var reserved []int
	open := c.Unreserved()
	if err := Walk(&open, low, func(fd int) error {
		if c.IsReserved(fd) {
			reserved = append(reserved, fd)
		}
		return nil
	}); err != nil {
		return err
	}

	first := low
	for _, fd := range reserved {
		if fd > first {
			if err := closeRange(uint(first), uint(fd-1)); err != nil {
				return err
			}
		}
		first = fd + 1
	}
	return closeRange(uint(first), math.MaxUint32)
}
