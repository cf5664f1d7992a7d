package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/fdctl/config"
	"github.com/walteh/fdio/pkg/fdwalk"
	"github.com/walteh/fdio/pkg/log"
)

// CloseFrom implements subcommands.Command for the "closefrom" command.
type CloseFrom struct {
	low int
}

// Name implements subcommands.Command.Name.
func (*CloseFrom) Name() string {
	return "closefrom"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*CloseFrom) Synopsis() string {
	return "close every descriptor from a bound, then optionally exec a command"
}

// Usage implements subcommands.Command.Usage.
func (*CloseFrom) Usage() string {
	return `closefrom [flags] [-- <command> [args...]] - close descriptors >= low.

Reserved descriptors are kept. Without a command the remaining descriptors
are listed.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (cf *CloseFrom) SetFlags(f *flag.FlagSet) {
	f.IntVar(&cf.low, "low", 3, "lowest descriptor to close")
}

// Execute implements subcommands.Command.Execute.
func (cf *CloseFrom) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	conf := args[0].(*config.Config)
	c := conf.Caps()

	var argv []string
	if f.NArg() > 0 {
		argv = f.Args()
		path, err := exec.LookPath(argv[0])
		if err != nil {
			return Errorf("%v", err)
		}
		argv[0] = path
	}

	log.Debugf("closing descriptors from %d", cf.low)
	if err := conf.ReleaseLog(); err != nil {
		return Errorf("closing log file: %v", err)
	}
	if err := fdwalk.CloseFrom(&c, cf.low); err != nil {
		return Errorf("closefrom %d: %v", cf.low, err)
	}

	if argv != nil {
		// Exec only returns on failure.
		err := unix.Exec(argv[0], argv, os.Environ())
		return Errorf("exec %q: %v", argv[0], err)
	}

	fds, err := fdwalk.List(&c, 0)
	if err != nil {
		return Errorf("listing descriptors: %v", err)
	}
	for _, fd := range fds {
		fmt.Fprintln(output, fd)
	}
	return subcommands.ExitSuccess
}
