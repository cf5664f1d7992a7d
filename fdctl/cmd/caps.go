package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/walteh/fdio/fdctl/config"
	"github.com/walteh/fdio/pkg/directio"
)

// Caps implements subcommands.Command for the "caps" command.
type Caps struct{}

// Name implements subcommands.Command.Name.
func (*Caps) Name() string {
	return "caps"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Caps) Synopsis() string {
	return "print the host capability set"
}

// Usage implements subcommands.Command.Usage.
func (*Caps) Usage() string {
	return "caps - print the capability set used by the other commands.\n"
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Caps) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Caps) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	c := conf.Caps()

	fmt.Fprintf(output, "family:           %s\n", c.Family)
	fmt.Fprintf(output, "native writev:    %t\n", c.NativeWritev)
	fmt.Fprintf(output, "iov max:          %d\n", c.IOVMax)
	fmt.Fprintf(output, "fd directory:     %q\n", c.FDDir)
	fmt.Fprintf(output, "native closefrom: %t\n", c.NativeCloseFrom)
	fmt.Fprintf(output, "native directio:  %t\n", c.NativeDirectIO)
	fmt.Fprintf(output, "directio flag:    %#x\n", directio.OpenFlag(&c))
	fmt.Fprintf(output, "max descriptors:  %d\n", c.MaxDescriptors)
	fmt.Fprintf(output, "runtime fds:      %v\n", c.RuntimeFDs)
	if len(conf.Capabilities.Reserved) > 0 {
		fmt.Fprintf(output, "reserved:         %v\n", conf.Capabilities.Reserved)
	}
	return subcommands.ExitSuccess
}
