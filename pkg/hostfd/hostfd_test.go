package hostfd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
)

const content = "The quick brown fox jumped over the lazy dog's back\n"

func tempFile(t *testing.T, data string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cursor(t *testing.T, fd int) int64 {
	t.Helper()
	off, err := unix.Seek(fd, 0, 1 /* SEEK_CUR */)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	return off
}

func TestPread(t *testing.T) {
	f := tempFile(t, content)
	fd := int(f.Fd())

	// Move the cursor somewhere so that an accidental read(2) would show.
	if _, err := unix.Seek(fd, 9, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	for _, tc := range []struct {
		name   string
		length int
		offset int64
		want   string
	}{
		{name: "middle", length: 5, offset: 4, want: "quick"},
		{name: "start", length: 3, offset: 0, want: "The"},
		{name: "tail is short", length: 5, offset: int64(len(content) - 3), want: "ck\n"},
		{name: "past end", length: 4, offset: int64(len(content) + 10), want: ""},
		{name: "zero length", length: 0, offset: 2, want: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			before := cursor(t, fd)
			got, err := Pread(fd, tc.length, tc.offset)
			if err != nil {
				t.Fatalf("Pread(%d, %d): %v", tc.length, tc.offset, err)
			}
			if string(got) != tc.want {
				t.Errorf("Pread(%d, %d) = %q, want %q", tc.length, tc.offset, got, tc.want)
			}
			if after := cursor(t, fd); after != before {
				t.Errorf("cursor moved from %d to %d", before, after)
			}
		})
	}
}

func TestPreadIdempotent(t *testing.T) {
	f := tempFile(t, content)
	fd := int(f.Fd())

	first, err := Pread(fd, 10, 16)
	if err != nil {
		t.Fatalf("Pread: %v", err)
	}
	second, err := Pread(fd, 10, 16)
	if err != nil {
		t.Fatalf("Pread: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Pread differs (-first +second):\n%s", diff)
	}
}

func TestPreadBinary(t *testing.T) {
	f := tempFile(t, content+"FOO\x00HELLO")
	got, err := Pread(int(f.Fd()), 3, int64(len(content)+2))
	if err != nil {
		t.Fatalf("Pread: %v", err)
	}
	if string(got) != "O\x00H" {
		t.Errorf("Pread = %q, want %q", got, "O\x00H")
	}
}

func TestPreadInvalid(t *testing.T) {
	f := tempFile(t, content)
	fd := int(f.Fd())

	if _, err := Pread(fd, -1, 0); !errors.Is(err, ioerr.ErrInvalidArgument) {
		t.Errorf("Pread(length=-1) = %v, want ErrInvalidArgument", err)
	}
	if _, err := Pread(fd, 1, -1); !errors.Is(err, ioerr.ErrInvalidArgument) {
		t.Errorf("Pread(offset=-1) = %v, want ErrInvalidArgument", err)
	}
}

func TestPreadBadDescriptor(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	fd := int(r.Fd())
	r.Close()
	w.Close()

	_, err = Pread(fd, 4, 0)
	var e *ioerr.Error
	if !errors.As(err, &e) {
		t.Fatalf("Pread on closed fd = %v, want *ioerr.Error", err)
	}
	if e.Op != "pread" || e.Errno != unix.EBADF {
		t.Errorf("got %v, want pread: EBADF", e)
	}
}

func TestPreadPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	_, err = Pread(int(r.Fd()), 4, 0)
	if !errors.Is(err, unix.ESPIPE) {
		t.Errorf("Pread on a pipe = %v, want ESPIPE", err)
	}
}

func TestPwrite(t *testing.T) {
	f := tempFile(t, content)
	fd := int(f.Fd())

	before := cursor(t, fd)
	n, err := Pwrite(fd, []byte("HAL"), 0)
	if err != nil {
		t.Fatalf("Pwrite: %v", err)
	}
	if n != 3 {
		t.Errorf("Pwrite = %d, want 3", n)
	}
	if after := cursor(t, fd); after != before {
		t.Errorf("cursor moved from %d to %d", before, after)
	}

	got, err := Pread(fd, 9, 0)
	if err != nil {
		t.Fatalf("Pread: %v", err)
	}
	if string(got) != "HAL quick" {
		t.Errorf("after Pwrite, content = %q, want %q", got, "HAL quick")
	}

	// Writing past the end extends the file.
	end := int64(len(content) + 4)
	if _, err := Pwrite(fd, []byte("tail"), end); err != nil {
		t.Fatalf("Pwrite past end: %v", err)
	}
	got, err = Pread(fd, 8, end-4)
	if err != nil {
		t.Fatalf("Pread: %v", err)
	}
	if diff := cmp.Diff([]byte("\x00\x00\x00\x00tail"), got); diff != "" {
		t.Errorf("hole content mismatch (-want +got):\n%s", diff)
	}

	if _, err := Pwrite(fd, []byte("x"), -5); !errors.Is(err, ioerr.ErrInvalidArgument) {
		t.Errorf("Pwrite(offset=-5) = %v, want ErrInvalidArgument", err)
	}
}

func TestPreadInto(t *testing.T) {
	f := tempFile(t, content)
	dst := make([]byte, 5)
	n, err := PreadInto(int(f.Fd()), dst, 10)
	if err != nil {
		t.Fatalf("PreadInto: %v", err)
	}
	if string(dst[:n]) != "brown" {
		t.Errorf("PreadInto = %q, want brown", dst[:n])
	}
}
