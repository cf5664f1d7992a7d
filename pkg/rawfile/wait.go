package rawfile

import (
	"time"

	"github.com/cenkalti/backoff"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/ioerr"
	"github.com/walteh/fdio/pkg/log"
)

// waiter blocks a retrying writer until its descriptor can take more data.
type waiter struct {
	// b paces retries on descriptors poll(2) cannot watch. It is created on
	// first use.
	b *backoff.ExponentialBackOff
}

// wait blocks until fd is writable.
//
// Some descriptors cannot be polled (Darwin reports POLLNVAL for many
// devices); for those wait sleeps for the next back-off interval instead.
func (w *waiter) wait(fd int) error {
	for {
		events := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
		_, err := unix.Poll(events, -1)
		switch {
		case err == unix.EINTR:
			continue
		case err == nil && events[0].Revents&unix.POLLNVAL == 0:
			return nil
		case err == nil, err == unix.EINVAL, err == unix.ENOTSUP:
			w.sleep(fd)
			return nil
		default:
			return ioerr.FromErr("poll", err)
		}
	}
}

func (w *waiter) sleep(fd int) {
	if w.b == nil {
		w.b = backoff.NewExponentialBackOff()
		w.b.InitialInterval = time.Millisecond
		w.b.MaxInterval = 100 * time.Millisecond
		// Never give up; the caller asked to block.
		w.b.MaxElapsedTime = 0
		w.b.Reset()
	}
	d := w.b.NextBackOff()
	log.WithField("fd", fd).Debugf("rawfile: descriptor cannot be polled, retrying writev in %v", d)
	time.Sleep(d)
}

// reset restarts the back-off after progress.
func (w *waiter) reset() {
	if w.b != nil {
		w.b.Reset()
	}
}
