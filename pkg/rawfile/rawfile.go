// Package rawfile implements vectored writes on host file descriptors.
//
// Two entry points share one engine. Writev issues exactly one system call
// and reports whatever the host wrote, so a short count is information for
// the caller. WritevUntilComplete keeps re-issuing the unwritten remainder
// until the whole vector is written or a non-retryable error occurs.
package rawfile

import (
	"io"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/ioerr"
)

// WriteOptions control WritevUntilComplete.
type WriteOptions struct {
	// BlockingRetry makes the engine wait for the descriptor to become
	// writable and retry when a write would block. Without it EAGAIN is
	// returned together with the bytes written so far.
	BlockingRetry bool

	// SplitOversized allows vectors longer than the iovec limit; they are
	// written IOVMax buffers per system call. Without it such vectors are
	// rejected.
	SplitOversized bool
}

// DefaultWriteOptions rejects oversized vectors and never waits.
var DefaultWriteOptions = WriteOptions{}

// Writev writes bufs to fd with a single vectored system call and returns
// the number of bytes the host accepted, which may be less than the total.
//
// Vectors longer than the iovec limit of c are rejected before any system
// call. A nil c means the host capability set.
func Writev(c *hostcaps.Set, fd int, bufs [][]byte) (int, error) {
	c = hostcaps.Or(c)
	if n := iovMax(c); len(bufs) > n {
		return 0, ioerr.InvalidArgument("writev: %d buffers exceed the limit of %d", len(bufs), n)
	}
	n, errno := writev(c, fd, bufs)
	if errno != 0 {
		return 0, ioerr.New("writev", errno)
	}
	return n, nil
}

// WritevUntilComplete writes all of bufs to fd, re-issuing the remainder
// after short writes. EINTR is always retried; EAGAIN only with
// opts.BlockingRetry. On error the bytes written before the failure are
// returned with it.
//
// The caller's slices are not modified.
func WritevUntilComplete(c *hostcaps.Set, fd int, bufs [][]byte, opts WriteOptions) (int, error) {
	c = hostcaps.Or(c)
	limit := iovMax(c)
	if len(bufs) > limit && !opts.SplitOversized {
		return 0, ioerr.InvalidArgument("writev: %d buffers exceed the limit of %d", len(bufs), limit)
	}

	// consume trims the head of pending in place, so work on a copy of the
	// slice headers.
	pending := make([][]byte, 0, len(bufs))
	for _, b := range bufs {
		if len(b) > 0 {
			pending = append(pending, b)
		}
	}

	var (
		written int
		w       waiter
	)
	for len(pending) > 0 {
		batch := pending
		if len(batch) > limit {
			batch = batch[:limit]
		}

		n, errno := writev(c, fd, batch)
		switch {
		case errno == 0:
		case errno == unix.EINTR:
			continue
		case errno == unix.EAGAIN || errno == unix.EWOULDBLOCK:
			if !opts.BlockingRetry {
				return written, ioerr.New("writev", errno)
			}
			if err := w.wait(fd); err != nil {
				return written, err
			}
			continue
		default:
			return written, ioerr.New("writev", errno)
		}

		if n == 0 {
			return written, io.ErrShortWrite
		}
		written += n
		pending = consume(pending, n)
		w.reset()
	}
	return written, nil
}

func iovMax(c *hostcaps.Set) int {
	if c.IOVMax > 0 {
		return c.IOVMax
	}
	return hostcaps.IOVMaxDefault
}

func writev(c *hostcaps.Set, fd int, bufs [][]byte) (int, unix.Errno) {
	if c.NativeWritev {
		return nativeWritev(fd, bufs)
	}
	return emulatedWritev(fd, bufs)
}

// consume drops the first n bytes from bufs. A buffer written only in part is
// resliced at the first unwritten byte; later buffers are left untouched.
func consume(bufs [][]byte, n int) [][]byte {
	for len(bufs) > 0 {
		ln0 := len(bufs[0])
		if ln0 > n {
			bufs[0] = bufs[0][n:]
			n = 0
			break
		}
		n -= ln0
		bufs = bufs[1:]
	}
	if n != 0 {
		panic("unexpected bytes remaining in consume")
	}
	return bufs
}
