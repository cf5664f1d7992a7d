// Package fdwalk enumerates and bulk-closes the open descriptors of the
// calling process.
//
// Where the host exposes a per-process descriptor directory (FDDir in
// hostcaps.Set) it is listed; otherwise every descriptor number up to the
// process limit is probed with fcntl(F_GETFD). Reserved descriptors are never
// visited or closed.
package fdwalk

import (
	"os"
	"strconv"

	"github.com/google/btree"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/ioerr"
	"github.com/walteh/fdio/pkg/log"
)

// degree of the ordered candidate set.
const degree = 8

// Walk calls visit once for each open descriptor >= low in ascending order,
// skipping reserved descriptors. A nil c means the host capability set.
//
// An error from visit stops the walk and is returned unchanged. visit may
// close descriptors; descriptors that disappear before their turn are
// skipped.
func Walk(c *hostcaps.Set, low int, visit func(fd int) error) error {
	c = hostcaps.Or(c)
	if low < 0 {
		low = 0
	}

	if c.NativeFDWalk() {
		fds, err := listDir(c.FDDir, low)
		if err == nil {
			return visitOpen(c, fds, visit)
		}
		log.WithField("dir", c.FDDir).Debugf("fdwalk: cannot list descriptors, probing instead: %v", err)
	}

	if c.MaxDescriptors <= 0 {
		return ioerr.Unsupported("fdwalk")
	}
	for fd := low; fd < c.MaxDescriptors; fd++ {
		if c.IsReserved(fd) || !isOpen(fd) {
			continue
		}
		if err := visit(fd); err != nil {
			return err
		}
	}
	return nil
}

// List returns the open descriptors >= low in ascending order.
func List(c *hostcaps.Set, low int) ([]int, error) {
	var fds []int
	err := Walk(c, low, func(fd int) error {
		fds = append(fds, fd)
		return nil
	})
	return fds, err
}

// listDir returns the descriptors >= low named in dir. The descriptor used to
// read dir is left out, and closed before listDir returns.
func listDir(dir string, low int) (*btree.BTreeG[int], error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	self := int(f.Fd())
	names, err := f.Readdirnames(-1)
	f.Close()
	if err != nil {
		return nil, err
	}

	fds := btree.NewOrderedG[int](degree)
	for _, name := range names {
		fd, err := strconv.Atoi(name)
		if err != nil || fd < low || fd == self {
			continue
		}
		fds.ReplaceOrInsert(fd)
	}
	return fds, nil
}

func visitOpen(c *hostcaps.Set, fds *btree.BTreeG[int], visit func(fd int) error) error {
	var err error
	fds.Ascend(func(fd int) bool {
		// Closed since the listing, possibly by visit itself.
		if c.IsReserved(fd) || !isOpen(fd) {
			return true
		}
		err = visit(fd)
		return err == nil
	})
	return err
}

// isOpen returns true if fd refers to an open descriptor.
func isOpen(fd int) bool {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}
