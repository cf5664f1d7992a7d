// Package fd provides a descriptor owner for host file descriptors.
package fd

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/hostfd"
	"github.com/walteh/fdio/pkg/ioerr"
)

// FD owns a host file descriptor and closes it on Close.
//
// Positional reads and writes never move the descriptor's cursor. Read and
// Write use the cursor as usual.
type FD struct {
	// fd is the descriptor, or -1 after Release or Close.
	fd atomic.Int64

	// direct records whether direct I/O was last enabled through this FD.
	// The host cannot be queried for it on every platform.
	direct atomic.Bool
}

// New creates a new FD that takes ownership of fd.
//
// New panics if fd is negative.
func New(fd int) *FD {
	if fd < 0 {
		panic(fmt.Sprintf("invalid fd: %d", fd))
	}
	f := &FD{}
	f.fd.Store(int64(fd))
	return f
}

// Open opens path with the given flags and permissions. The descriptor is
// close-on-exec.
func Open(path string, openmode int, perm uint32) (*FD, error) {
	for {
		f, err := unix.Open(path, openmode|O_LARGEFILE|unix.O_CLOEXEC, perm)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, &os.PathError{Op: "open", Path: path, Err: err}
		}
		return New(f), nil
	}
}

// NewFromFile creates a new FD from a duplicate of file's descriptor. The
// file keeps its own descriptor.
func NewFromFile(file *os.File) (*FD, error) {
	fd, err := dup(int(file.Fd()))
	if err != nil {
		return nil, err
	}
	return New(fd), nil
}

// FD returns the descriptor, or -1 if it was released or closed.
func (f *FD) FD() int {
	return int(f.fd.Load())
}

// Release relinquishes ownership and returns the descriptor. The caller
// becomes responsible for closing it.
func (f *FD) Release() int {
	return int(f.fd.Swap(-1))
}

// Close closes the descriptor.
func (f *FD) Close() error {
	return ioerr.FromErr("close", unix.Close(int(f.fd.Swap(-1))))
}

// File converts the FD to an *os.File using a duplicate descriptor. The FD
// stays open.
func (f *FD) File() (*os.File, error) {
	fd, err := dup(f.FD())
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), fmt.Sprintf("fd:%d", fd)), nil
}

// dup duplicates fd and marks the copy close-on-exec.
func dup(fd int) (int, error) {
	nfd, err := unix.Dup(fd)
	if err != nil {
		return -1, ioerr.FromErr("dup", err)
	}
	if _, err := unix.FcntlInt(uintptr(nfd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		unix.Close(nfd)
		return -1, ioerr.FromErr("fcntl", err)
	}
	return nfd, nil
}

// Read implements io.Reader.
func (f *FD) Read(b []byte) (int, error) {
	for {
		n, err := unix.Read(f.FD(), b)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return 0, ioerr.FromErr("read", err)
		case n == 0 && len(b) > 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

// Write implements io.Writer.
func (f *FD) Write(b []byte) (int, error) {
	var c int
	for len(b) > 0 {
		n, err := unix.Write(f.FD(), b)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return c, ioerr.FromErr("write", err)
		}
		c += n
		b = b[n:]
	}
	return c, nil
}

// ReadAt implements io.ReaderAt. It does not move the cursor.
func (f *FD) ReadAt(b []byte, off int64) (int, error) {
	var c int
	for len(b) > 0 {
		n, err := hostfd.PreadInto(f.FD(), b, off)
		if err != nil {
			if ioerr.Errno(err) == unix.EINTR {
				continue
			}
			return c, err
		}
		if n == 0 {
			return c, io.EOF
		}
		c += n
		b = b[n:]
		off += int64(n)
	}
	return c, nil
}

// WriteAt implements io.WriterAt. It does not move the cursor.
func (f *FD) WriteAt(b []byte, off int64) (int, error) {
	var c int
	for len(b) > 0 {
		n, err := hostfd.Pwrite(f.FD(), b, off)
		if err != nil {
			if ioerr.Errno(err) == unix.EINTR {
				continue
			}
			return c, err
		}
		c += n
		b = b[n:]
		off += int64(n)
	}
	return c, nil
}

// DirectHint returns true if direct I/O was last enabled through this FD.
func (f *FD) DirectHint() bool {
	return f.direct.Load()
}

// SetDirectHint records the direct I/O state of the descriptor.
func (f *FD) SetDirectHint(on bool) {
	f.direct.Store(on)
}

// NewPipe returns a close-on-exec pipe.
func NewPipe() (r, w *FD, err error) {
	p, err := pipe()
	if err != nil {
		return nil, nil, ioerr.FromErr("pipe", err)
	}
	return New(p[0]), New(p[1]), nil
}
