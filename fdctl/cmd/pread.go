package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/pkg/fd"
	"github.com/walteh/fdio/pkg/hostfd"
)

// Pread implements subcommands.Command for the "pread" command.
type Pread struct {
	offset int64
	length int
}

// Name implements subcommands.Command.Name.
func (*Pread) Name() string {
	return "pread"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Pread) Synopsis() string {
	return "read bytes at an offset without moving the file cursor"
}

// Usage implements subcommands.Command.Usage.
func (*Pread) Usage() string {
	return `pread [flags] <file> - copy length bytes at offset to stdout.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Pread) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&p.offset, "offset", 0, "byte offset to read from")
	f.IntVar(&p.length, "length", 4096, "maximum number of bytes to read")
}

// Execute implements subcommands.Command.Execute.
func (p *Pread) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	file, err := fd.Open(f.Arg(0), unix.O_RDONLY, 0)
	if err != nil {
		return Errorf("%v", err)
	}
	defer file.Close()

	b, err := hostfd.Pread(file.FD(), p.length, p.offset)
	if err != nil {
		return Errorf("reading %q: %v", f.Arg(0), err)
	}
	if _, err := output.Write(b); err != nil {
		return Errorf("writing output: %v", err)
	}
	return subcommands.ExitSuccess
}
