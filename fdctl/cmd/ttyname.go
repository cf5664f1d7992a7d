package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/walteh/fdio/pkg/hostfd"
)

// TTYName implements subcommands.Command for the "ttyname" command.
type TTYName struct {
	fd string
}

// Name implements subcommands.Command.Name.
func (*TTYName) Name() string {
	return "ttyname"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*TTYName) Synopsis() string {
	return "print the terminal device behind a descriptor"
}

// Usage implements subcommands.Command.Usage.
func (*TTYName) Usage() string {
	return "ttyname [flags] - print the terminal name of a descriptor.\n"
}

// SetFlags implements subcommands.Command.SetFlags.
func (t *TTYName) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.fd, "fd", "0", "descriptor to inspect")
}

// Execute implements subcommands.Command.Execute.
func (t *TTYName) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	fd, err := parseFD(t.fd)
	if err != nil {
		return Errorf("%v", err)
	}
	name, err := hostfd.TTYName(fd)
	if err != nil {
		return Errorf("ttyname %d: %v", fd, err)
	}
	fmt.Fprintln(output, name)
	return subcommands.ExitSuccess
}
