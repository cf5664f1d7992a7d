package rawfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/ioerr"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func contents(t *testing.T, f *os.File) []byte {
	t.Helper()
	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return b
}

// capSets returns the host set plus a variant forced onto the emulated path.
func capSets() map[string]*hostcaps.Set {
	host := hostcaps.Host()
	emulated := host
	emulated.NativeWritev = false
	sets := map[string]*hostcaps.Set{"emulated": &emulated}
	if host.NativeWritev {
		sets["native"] = &host
	}
	return sets
}

func TestWritev(t *testing.T) {
	for name, c := range capSets() {
		t.Run(name, func(t *testing.T) {
			f := tempFile(t)
			n, err := Writev(c, int(f.Fd()), [][]byte{[]byte("hello"), nil, []byte("world")})
			if err != nil {
				t.Fatalf("Writev: %v", err)
			}
			if n != 10 {
				t.Errorf("Writev = %d, want 10", n)
			}
			if got := string(contents(t, f)); got != "helloworld" {
				t.Errorf("file = %q, want helloworld", got)
			}
		})
	}
}

func TestWritevEmpty(t *testing.T) {
	for name, c := range capSets() {
		t.Run(name, func(t *testing.T) {
			// A closed descriptor proves that no system call is made.
			for _, bufs := range [][][]byte{nil, {}, {nil, {}}} {
				if n, err := Writev(c, -1, bufs); n != 0 || err != nil {
					t.Errorf("Writev(%d empty buffers) = %d, %v, want 0, nil", len(bufs), n, err)
				}
				if n, err := WritevUntilComplete(c, -1, bufs, DefaultWriteOptions); n != 0 || err != nil {
					t.Errorf("WritevUntilComplete(%d empty buffers) = %d, %v, want 0, nil", len(bufs), n, err)
				}
			}
		})
	}
}

func TestWritevOversized(t *testing.T) {
	host := hostcaps.Host()
	f := tempFile(t)
	bufs := make([][]byte, host.IOVMax+1)
	for i := range bufs {
		bufs[i] = []byte{'x'}
	}

	if _, err := Writev(&host, int(f.Fd()), bufs); !errors.Is(err, ioerr.ErrInvalidArgument) {
		t.Errorf("Writev(%d buffers) = %v, want ErrInvalidArgument", len(bufs), err)
	}
	if _, err := WritevUntilComplete(&host, int(f.Fd()), bufs, DefaultWriteOptions); !errors.Is(err, ioerr.ErrInvalidArgument) {
		t.Errorf("WritevUntilComplete(%d buffers) = %v, want ErrInvalidArgument", len(bufs), err)
	}
	if got := contents(t, f); len(got) != 0 {
		t.Errorf("rejected vector wrote %d bytes", len(got))
	}
}

func TestWritevSplitOversized(t *testing.T) {
	// The Solaris limit is small enough to exercise several batches.
	c := hostcaps.Host()
	c.IOVMax = hostcaps.IOVMaxSolaris

	var (
		bufs [][]byte
		want []byte
	)
	for i := 0; i < 3*c.IOVMax+5; i++ {
		b := []byte(fmt.Sprintf("<%d>", i))
		bufs = append(bufs, b)
		want = append(want, b...)
	}

	f := tempFile(t)
	n, err := WritevUntilComplete(&c, int(f.Fd()), bufs, WriteOptions{SplitOversized: true})
	if err != nil {
		t.Fatalf("WritevUntilComplete: %v", err)
	}
	if n != len(want) {
		t.Errorf("WritevUntilComplete = %d, want %d", n, len(want))
	}
	if diff := cmp.Diff(want, contents(t, f)); diff != "" {
		t.Errorf("file mismatch (-want +got):\n%s", diff)
	}
}

func TestWritevBadDescriptor(t *testing.T) {
	for name, c := range capSets() {
		t.Run(name, func(t *testing.T) {
			_, err := Writev(c, -1, [][]byte{[]byte("x")})
			var e *ioerr.Error
			if !errors.As(err, &e) || e.Errno != unix.EBADF || e.Op != "writev" {
				t.Errorf("Writev(-1) = %v, want writev: EBADF", err)
			}
		})
	}
}

func TestConsume(t *testing.T) {
	orig := [][]byte{
		[]byte("0123456789"),
		[]byte("abcdefghij"),
		[]byte("ABCDEFGHIJ"),
		[]byte("klmnopqrst"),
		[]byte("KLMNOPQRST"),
	}
	bufs := append([][]byte(nil), orig...)

	// Two full buffers and 40% of the third.
	got := consume(bufs, 24)
	want := [][]byte{[]byte("EFGHIJ"), []byte("klmnopqrst"), []byte("KLMNOPQRST")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("consume mismatch (-want +got):\n%s", diff)
	}
	if &got[1][0] != &orig[3][0] {
		t.Errorf("consume copied an untouched buffer")
	}

	if got := consume(got, 6+10+10); len(got) != 0 {
		t.Errorf("consume of everything left %d buffers", len(got))
	}
}

func TestWritevUntilCompleteLeavesInputAlone(t *testing.T) {
	bufs := [][]byte{[]byte("abc"), []byte("defg")}
	saved := [][]byte{bufs[0], bufs[1]}

	f := tempFile(t)
	if _, err := WritevUntilComplete(nil, int(f.Fd()), bufs, DefaultWriteOptions); err != nil {
		t.Fatalf("WritevUntilComplete: %v", err)
	}
	for i := range bufs {
		if len(bufs[i]) != len(saved[i]) || &bufs[i][0] != &saved[i][0] {
			t.Errorf("buffer %d was modified", i)
		}
	}
}

func pipe(t *testing.T, nonblocking bool) (r, w int) {
	t.Helper()
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	if nonblocking {
		if err := unix.SetNonblock(p[1], true); err != nil {
			t.Fatalf("SetNonblock: %v", err)
		}
	}
	t.Cleanup(func() {
		unix.Close(p[0])
		unix.Close(p[1])
	})
	return p[0], p[1]
}

// drain reads r until EOF after a delay that lets the writer fill the pipe.
func drain(r int) ([]byte, error) {
	time.Sleep(100 * time.Millisecond)
	var (
		out bytes.Buffer
		buf = make([]byte, 64<<10)
	)
	for {
		n, err := unix.Read(r, buf)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return out.Bytes(), err
		case n == 0:
			return out.Bytes(), nil
		}
		out.Write(buf[:n])
	}
}

func TestWritevUntilCompletePipe(t *testing.T) {
	for _, shape := range []struct {
		size, count int
	}{
		{512, 512},
		{131073, 3},
		{4098, 64},
	} {
		for _, nonblocking := range []bool{false, true} {
			for name, c := range capSets() {
				t.Run(fmt.Sprintf("%dx%d/nonblocking=%t/%s", shape.size, shape.count, nonblocking, name), func(t *testing.T) {
					var (
						bufs [][]byte
						want []byte
					)
					for i := 0; i < shape.count; i++ {
						b := bytes.Repeat([]byte{byte('a' + i%26)}, shape.size)
						bufs = append(bufs, b)
						want = append(want, b...)
					}

					r, w := pipe(t, nonblocking)
					var (
						g   errgroup.Group
						got []byte
					)
					g.Go(func() error {
						var err error
						got, err = drain(r)
						return err
					})

					n, err := WritevUntilComplete(c, w, bufs, WriteOptions{BlockingRetry: true})
					unix.Close(w)
					if err != nil {
						t.Fatalf("WritevUntilComplete: %v", err)
					}
					if n != len(want) {
						t.Errorf("WritevUntilComplete = %d, want %d", n, len(want))
					}
					if err := g.Wait(); err != nil {
						t.Fatalf("reader: %v", err)
					}
					if !bytes.Equal(got, want) {
						t.Errorf("reader got %d bytes, want %d", len(got), len(want))
					}
				})
			}
		}
	}
}

func TestWritevUntilCompleteWouldBlock(t *testing.T) {
	_, w := pipe(t, true)
	bufs := make([][]byte, 512)
	for i := range bufs {
		bufs[i] = make([]byte, 512)
	}

	// Nobody reads, so the pipe fills and the write cannot finish.
	n, err := WritevUntilComplete(nil, w, bufs, DefaultWriteOptions)
	if !errors.Is(err, unix.EAGAIN) {
		t.Fatalf("WritevUntilComplete = %d, %v, want EAGAIN", n, err)
	}
	if n <= 0 || n >= 512*512 {
		t.Errorf("WritevUntilComplete wrote %d bytes, want a partial count", n)
	}
	var e *ioerr.Error
	if !errors.As(err, &e) || !e.Temporary() {
		t.Errorf("error %v is not a temporary *ioerr.Error", err)
	}
}

func TestWritevShortWriteOnce(t *testing.T) {
	_, w := pipe(t, true)
	big := make([]byte, 1<<20)

	// A single call into a non-blocking pipe stops at the pipe capacity.
	n, err := Writev(nil, w, [][]byte{big})
	if err != nil {
		t.Fatalf("Writev: %v", err)
	}
	if n <= 0 || n >= len(big) {
		t.Errorf("Writev = %d, want a short count", n)
	}
}

func TestWaiterBackoff(t *testing.T) {
	var w waiter
	start := time.Now()
	w.sleep(0)
	w.sleep(0)
	if w.b == nil {
		t.Fatalf("sleep did not create a back-off")
	}
	if time.Since(start) > time.Second {
		t.Errorf("two initial back-off steps took %v", time.Since(start))
	}
	w.reset()
	if next := w.b.NextBackOff(); next > 2*time.Millisecond {
		t.Errorf("NextBackOff after reset = %v, want about 1ms", next)
	}
}
