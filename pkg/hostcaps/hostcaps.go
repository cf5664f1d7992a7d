// Package hostcaps records which native descriptor primitives the host
// provides.
//
// The capability set is probed once per process by Host and never changes
// afterwards. Components receive a *Set so tests can hand them a fabricated
// one and force a particular code path.
package hostcaps

import (
	"fmt"
	"strings"
	"sync"

	"github.com/walteh/fdio/pkg/log"
)

// Family is the platform family. Strategy differences between platforms
// switch on it.
type Family uint8

// Platform families.
const (
	Other Family = iota
	Linux
	Darwin
	BSD
	Solaris
)

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case BSD:
		return "bsd"
	case Solaris:
		return "solaris"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

const (
	// IOVMaxDefault is the number of iovecs a single vectored system call
	// accepts on most platforms (UIO_MAXIOV).
	IOVMaxDefault = 1024

	// IOVMaxSolaris is the iovec limit on the Solaris family.
	IOVMaxSolaris = 16

	// DefaultMaxDescriptors is the descriptor limit assumed when the
	// process limit cannot be queried.
	DefaultMaxDescriptors = 1024
)

// Set is the capability set of a host.
type Set struct {
	// Family is the platform family.
	Family Family

	// NativeWritev is true if writev(2) can be issued directly. Without it
	// vectored writes are coalesced into a single write(2).
	NativeWritev bool

	// FDDir is the per-process descriptor directory used for native
	// enumeration, or "" if there is none.
	FDDir string

	// NativeCloseFrom is true if close_range(2) is available.
	NativeCloseFrom bool

	// NativeDirectIO is true if a dedicated direct-I/O control call exists.
	NativeDirectIO bool

	// DirectIOFlag is the open flag that bypasses the page cache (O_DIRECT),
	// or 0 if the platform has none.
	DirectIOFlag int

	// MaxDescriptors bounds fallback descriptor scans. Zero means unknown.
	MaxDescriptors int

	// IOVMax is the iovec limit of one vectored system call.
	IOVMax int

	// RuntimeFDs are the descriptors the Go runtime keeps for its network
	// poller, captured by the probe. They are always reserved.
	RuntimeFDs []int

	// Reserved reports further descriptors that must never be visited or
	// closed. nil means none.
	Reserved func(fd int) bool
}

// NativeFDWalk returns true if descriptors can be enumerated without probing
// every descriptor number.
func (s *Set) NativeFDWalk() bool {
	return s.FDDir != ""
}

// HasReservationQuery returns true if any descriptor may be reserved.
func (s *Set) HasReservationQuery() bool {
	return s.Reserved != nil || len(s.RuntimeFDs) > 0
}

// IsReserved returns true if fd is reserved, either by the runtime or by the
// reservation predicate.
func (s *Set) IsReserved(fd int) bool {
	for _, r := range s.RuntimeFDs {
		if r == fd {
			return true
		}
	}
	return s.Reserved != nil && s.Reserved(fd)
}

// WithReserved returns a copy of s using pred as its reservation predicate.
// The runtime descriptors stay reserved.
func (s Set) WithReserved(pred func(fd int) bool) Set {
	s.Reserved = pred
	return s
}

// Unreserved returns a copy of s with no reservation at all, runtime
// descriptors included.
func (s Set) Unreserved() Set {
	s.Reserved = nil
	s.RuntimeFDs = nil
	return s
}

// String implements fmt.Stringer.
func (s *Set) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "family=%s", s.Family)
	fmt.Fprintf(&b, " writev=%t", s.NativeWritev)
	fmt.Fprintf(&b, " fdwalk=%t", s.NativeFDWalk())
	if s.FDDir != "" {
		fmt.Fprintf(&b, " fddir=%s", s.FDDir)
	}
	fmt.Fprintf(&b, " closefrom=%t", s.NativeCloseFrom)
	fmt.Fprintf(&b, " directio=%t", s.NativeDirectIO)
	fmt.Fprintf(&b, " directio_flag=%#x", s.DirectIOFlag)
	fmt.Fprintf(&b, " max_descriptors=%d", s.MaxDescriptors)
	fmt.Fprintf(&b, " iov_max=%d", s.IOVMax)
	fmt.Fprintf(&b, " runtime_fds=%v", s.RuntimeFDs)
	fmt.Fprintf(&b, " reservation_query=%t", s.Reserved != nil)
	return b.String()
}

// ReserveFDs returns a reservation predicate matching exactly fds.
func ReserveFDs(fds ...int) func(fd int) bool {
	set := make(map[int]struct{}, len(fds))
	for _, fd := range fds {
		set[fd] = struct{}{}
	}
	return func(fd int) bool {
		_, ok := set[fd]
		return ok
	}
}

var host struct {
	once sync.Once
	set  Set
}

// Host returns the capability set of the running host, probing it on first
// use.
func Host() Set {
	host.once.Do(func() {
		host.set = Probe()
		log.Debugf("hostcaps: %s", &host.set)
	})
	s := host.set
	s.RuntimeFDs = append([]int(nil), s.RuntimeFDs...)
	return s
}

// Or returns c, or the host capability set if c is nil.
func Or(c *Set) *Set {
	if c != nil {
		return c
	}
	s := Host()
	return &s
}
