// Package cli is the main entrypoint for fdctl.
package cli

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/walteh/fdio/fdctl/cmd"
	"github.com/walteh/fdio/fdctl/config"
	"github.com/walteh/fdio/pkg/log"
)

// Main is the main entrypoint.
func Main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(new(cmd.Caps), "")

	const ioGroup = "descriptor I/O"
	subcommands.Register(new(cmd.Pread), ioGroup)
	subcommands.Register(new(cmd.Pwrite), ioGroup)
	subcommands.Register(new(cmd.Writev), ioGroup)
	subcommands.Register(new(cmd.DirectIO), ioGroup)

	const fdGroup = "descriptor table"
	subcommands.Register(new(cmd.Lsfd), fdGroup)
	subcommands.Register(new(cmd.CloseFrom), fdGroup)
	subcommands.Register(new(cmd.TTYName), fdGroup)

	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	conf, err := config.NewFromFlags(flag.CommandLine)
	if err != nil {
		cmd.Fatalf("%v", err)
	}
	if err := conf.SetupLogging(); err != nil {
		cmd.Fatalf("%v", err)
	}
	cmd.EchoErrors(conf.LogFile != "")

	log.Debugf("***************************")
	log.Debugf("Args: %s", os.Args)
	log.Debugf("PID: %d", os.Getpid())
	log.Debugf("Log level: %s, format: %s", conf.LogLevel, conf.LogFormat)
	if log.IsLogging(log.Debug) {
		c := conf.Caps()
		log.Debugf("Capabilities: %s", &c)
	}
	log.Debugf("***************************")

	subcmdCode := subcommands.Execute(context.Background(), conf)
	conf.ReleaseLog()
	os.Exit(int(subcmdCode))
}
