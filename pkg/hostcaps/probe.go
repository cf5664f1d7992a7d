package hostcaps

import (
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// Probe inspects the host and returns a fresh capability set. Most callers
// want Host, which probes only once.
func Probe() Set {
	s := Set{
		Family:         family,
		IOVMax:         IOVMaxDefault,
		MaxDescriptors: maxDescriptors(),
	}
	probePlatform(&s)
	s.RuntimeFDs = runtimeFDs(openFDs(&s))
	return s
}

// scanLimit bounds the F_GETFD scan used to snapshot the descriptor table
// when there is no descriptor directory. The runtime opens its descriptors
// early, so they sit at low numbers.
const scanLimit = 4096

// openFDs returns the open descriptors of the process in ascending order.
// It first makes the runtime set up its network poller so that the
// poller's descriptors are part of the snapshot.
func openFDs(s *Set) []int {
	if r, w, err := os.Pipe(); err == nil {
		r.Close()
		w.Close()
	}

	if s.FDDir != "" {
		if fds, err := listFDDir(s.FDDir); err == nil {
			return fds
		}
	}
	limit := s.MaxDescriptors
	if limit <= 0 || limit > scanLimit {
		limit = scanLimit
	}
	var fds []int
	for fd := 0; fd < limit; fd++ {
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err == nil {
			fds = append(fds, fd)
		}
	}
	return fds
}

// listFDDir lists dir, leaving out the descriptor used to read it.
func listFDDir(dir string) ([]int, error) {
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
	var fds []int
	for _, name := range names {
		if fd, err := strconv.Atoi(name); err == nil && fd != self {
			fds = append(fds, fd)
		}
	}
	sort.Ints(fds)
	return fds, nil
}

// verifyFDDir returns true if dir lists the descriptors of the calling
// process. The listing must contain the descriptor used to read it; a static
// directory (such as /dev/fd without fdescfs) only shows 0, 1 and 2.
func verifyFDDir(dir string) bool {
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()

	self := strconv.Itoa(int(f.Fd()))
	names, err := f.Readdirnames(-1)
	if err != nil {
		return false
	}
	for _, name := range names {
		if name == self {
			return true
		}
	}
	return false
}

// maxDescriptors returns the bound used by fallback descriptor scans: the
// hard RLIMIT_NOFILE if it is finite, else sysconf(_SC_OPEN_MAX), else
// DefaultMaxDescriptors.
func maxDescriptors() int {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err == nil && rl.Max > 0 && rl.Max <= math.MaxInt32 {
		return int(rl.Max)
	}
	if n, err := sysconf.Sysconf(sysconf.SC_OPEN_MAX); err == nil && n > 0 && n <= math.MaxInt32 {
		return int(n)
	}
	return DefaultMaxDescriptors
}
