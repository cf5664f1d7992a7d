package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/fdctl/config"
	"github.com/walteh/fdio/pkg/directio"
	"github.com/walteh/fdio/pkg/fd"
)

// DirectIO implements subcommands.Command for the "directio" command.
type DirectIO struct {
	mode string
}

// Name implements subcommands.Command.Name.
func (*DirectIO) Name() string {
	return "directio"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*DirectIO) Synopsis() string {
	return "turn direct I/O on or off for a file"
}

// Usage implements subcommands.Command.Usage.
func (*DirectIO) Usage() string {
	return "directio [flags] <file> - open file and set its direct I/O mode.\n"
}

// SetFlags implements subcommands.Command.SetFlags.
func (d *DirectIO) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.mode, "mode", "on", "on or off")
}

// Execute implements subcommands.Command.Execute.
func (d *DirectIO) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	c := conf.Caps()

	m, err := directio.ParseMode(d.mode)
	if err != nil {
		return Errorf("%v", err)
	}
	file, err := fd.Open(f.Arg(0), unix.O_RDONLY, 0)
	if err != nil {
		return Errorf("%v", err)
	}
	defer file.Close()

	if err := directio.SetMode(&c, file, m); err != nil {
		return Errorf("directio %s on %q: %v", m, f.Arg(0), err)
	}
	fmt.Fprintf(output, "%s: direct=%t\n", f.Arg(0), directio.IsDirect(file))
	return subcommands.ExitSuccess
}
