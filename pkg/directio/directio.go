// Package directio turns page-cache bypass on and off for open descriptors.
//
// Hosts expose this in three ways: a dedicated control call (Solaris
// directio), a per-descriptor fcntl (Darwin F_NOCACHE), or a status flag
// (O_DIRECT) toggled with F_GETFL/F_SETFL. The capability set picks one.
package directio

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/fd"
	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/ioerr"
	"github.com/walteh/fdio/pkg/log"
)

// Mode is a direct I/O mode.
type Mode int

// Modes, matching the host's DIRECTIO_OFF and DIRECTIO_ON.
const (
	Off Mode = 0
	On  Mode = 1
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name such as "on", "off", "true" or "0".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return On, nil
	case "off", "false", "0", "no":
		return Off, nil
	default:
		return Off, ioerr.InvalidArgument("directio: unknown mode %q", s)
	}
}

// ModeOf returns On if on is true, else Off.
func ModeOf(on bool) Mode {
	if on {
		return On
	}
	return Off
}

// SetMode sets the direct I/O mode of f. A nil c means the host capability
// set. On success the hint recorded on f follows m; on failure it is left
// alone.
func SetMode(c *hostcaps.Set, f *fd.FD, m Mode) error {
	if m != On && m != Off {
		return ioerr.InvalidArgument("directio: invalid mode %d", int(m))
	}
	c = hostcaps.Or(c)

	var err error
	switch {
	case c.NativeDirectIO:
		err = nativeToggle(f.FD(), m)
	case c.Family == hostcaps.Darwin:
		err = noCacheToggle(f.FD(), m)
	default:
		err = flagToggle(c, f.FD(), m)
	}
	if err != nil {
		return err
	}

	f.SetDirectHint(m == On)
	log.WithField("fd", f.FD()).Debugf("directio: set %s", m)
	return nil
}

// Set is SetMode with a boolean mode.
func Set(c *hostcaps.Set, f *fd.FD, on bool) error {
	return SetMode(c, f, ModeOf(on))
}

// IsDirect returns true if direct I/O was last enabled through f.
func IsDirect(f *fd.FD) bool {
	return f.DirectHint()
}

// OpenFlag returns the open flag that enables direct I/O on the host, or 0
// if there is none.
func OpenFlag(c *hostcaps.Set) int {
	return hostcaps.Or(c).DirectIOFlag
}

// flagToggle flips the direct I/O status flag, skipping F_SETFL when the
// flag already has the wanted value.
func flagToggle(c *hostcaps.Set, fd int, m Mode) error {
	if c.DirectIOFlag == 0 {
		return ioerr.Unsupported("directio")
	}
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return ioerr.FromErr("fcntl(F_GETFL)", err)
	}
	want := flags &^ c.DirectIOFlag
	if m == On {
		want |= c.DirectIOFlag
	}
	if want == flags {
		return nil
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, want); err != nil {
		return ioerr.FromErr("fcntl(F_SETFL)", err)
	}
	return nil
}
