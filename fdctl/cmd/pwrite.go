package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/google/subcommands"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/fd"
	"github.com/walteh/fdio/pkg/hostfd"
	"github.com/walteh/fdio/pkg/log"
)

// Pwrite implements subcommands.Command for the "pwrite" command.
type Pwrite struct {
	offset int64
	lock   bool
}

// Name implements subcommands.Command.Name.
func (*Pwrite) Name() string {
	return "pwrite"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Pwrite) Synopsis() string {
	return "write bytes at an offset without moving the file cursor"
}

// Usage implements subcommands.Command.Usage.
func (*Pwrite) Usage() string {
	return `pwrite [flags] <file> <data> - write data at offset, creating file if needed.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Pwrite) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.offset, "offset", 0, "byte offset to write at")
	f.BoolVar(&p.lock, "lock", false, "hold an exclusive advisory lock on the file while writing")
}

// Execute implements subcommands.Command.Execute.
func (p *Pwrite) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	path, data := f.Arg(0), f.Arg(1)

	file, err := fd.Open(path, unix.O_WRONLY|unix.O_CREAT, 0o644)
	if err != nil {
		return Errorf("%v", err)
	}
	defer file.Close()

	if p.lock {
		unlock, err := lockFile(path)
		if err != nil {
			return Errorf("%v", err)
		}
		defer unlock()
	}

	n, err := hostfd.Pwrite(file.FD(), []byte(data), p.offset)
	if err != nil {
		return Errorf("writing %q: %v", path, err)
	}
	fmt.Fprintf(output, "wrote %d of %d bytes at offset %d\n", n, len(data), p.offset)
	return subcommands.ExitSuccess
}

// lockFile takes an exclusive advisory lock on path and returns the function
// that releases it.
func lockFile(path string) (func(), error) {
	l := flock.New(path)
	if err := l.Lock(); err != nil {
		return nil, fmt.Errorf("locking %q: %w", path, err)
	}
	log.Debugf("locked %q", path)
	return func() {
		if err := l.Unlock(); err != nil {
			log.Warningf("unlocking %q: %v", path, err)
		}
	}, nil
}
