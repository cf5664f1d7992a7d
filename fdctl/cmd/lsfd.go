package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/walteh/fdio/fdctl/config"
	"github.com/walteh/fdio/pkg/fdwalk"
)

// Lsfd implements subcommands.Command for the "lsfd" command.
type Lsfd struct {
	low int
}

// Name implements subcommands.Command.Name.
func (*Lsfd) Name() string {
	return "lsfd"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Lsfd) Synopsis() string {
	return "list the open descriptors of this process"
}

// Usage implements subcommands.Command.Usage.
func (*Lsfd) Usage() string {
	return "lsfd [flags] - print one open descriptor per line.\n"
}

// SetFlags implements subcommands.Command.SetFlags.
func (l *Lsfd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&l.low, "low", 0, "lowest descriptor to list")
}

// Execute implements subcommands.Command.Execute.
func (l *Lsfd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	c := conf.Caps()

	err := fdwalk.Walk(&c, l.low, func(fd int) error {
		_, err := fmt.Fprintln(output, fd)
		return err
	})
	if err != nil {
		return Errorf("listing descriptors: %v", err)
	}
	return subcommands.ExitSuccess
}
