// Package config holds the fdctl configuration.
//
// Settings come from an optional TOML file and are then overridden by any
// global flag given on the command line.
package config

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/log"
	"github.com/walteh/fdio/pkg/rawfile"
)

// Capability names accepted by [capabilities] disable.
const (
	CapWritev    = "writev"
	CapFDWalk    = "fdwalk"
	CapCloseFrom = "closefrom"
	CapDirectIO  = "directio"
)

// Config is the fdctl configuration.
type Config struct {
	// LogLevel is one of warning, info or debug.
	LogLevel string `toml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `toml:"log_format"`

	// LogFile, if set, receives log output instead of stderr. The file is
	// rotated once it grows past LogMaxSizeMB.
	LogFile string `toml:"log_file"`

	LogMaxSizeMB int `toml:"log_max_size_mb"`

	Capabilities Capabilities `toml:"capabilities"`

	Writev Writev `toml:"writev"`

	logger *lumberjack.Logger
}

// Capabilities adjusts the probed host capability set.
type Capabilities struct {
	// Disable lists native capabilities to turn off, forcing the fallback
	// paths.
	Disable []string `toml:"disable"`

	// Reserved lists descriptors that enumeration and closefrom must leave
	// alone.
	Reserved []int `toml:"reserved"`
}

// Writev holds the defaults for vectored writes.
type Writev struct {
	BlockingRetry  bool `toml:"blocking_retry"`
	SplitOversized bool `toml:"split_oversized"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		LogMaxSizeMB: 10,
	}
}

// Load reads the TOML file at path on top of the defaults. Unknown keys are
// an error.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config %q: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return c, nil
}

// RegisterFlags registers the global flags on fs.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("config", "", "path to a TOML configuration file")
	fs.String("log-level", "info", "log level: warning, info or debug")
	fs.Bool("debug", false, "shorthand for -log-level=debug")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	fs.Bool("blocking-retry", false, "default for writev -blocking")
	fs.Bool("split-oversized", false, "default for writev -split")
}

// NewFromFlags builds a Config from the flags registered by RegisterFlags.
// Flags that were set explicitly override the configuration file.
func NewFromFlags(fs *flag.FlagSet) (*Config, error) {
	c := Default()
	if path := fs.Lookup("config").Value.String(); path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "log-level":
			c.LogLevel = v
		case "debug":
			if v == "true" {
				c.LogLevel = "debug"
			}
		case "log-format":
			c.LogFormat = v
		case "log-file":
			c.LogFile = v
		case "blocking-retry":
			c.Writev.BlockingRetry = v == "true"
		case "split-oversized":
			c.Writev.SplitOversized = v == "true"
		}
	})
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks c for unknown values.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	for _, name := range c.Capabilities.Disable {
		switch name {
		case CapWritev, CapFDWalk, CapCloseFrom, CapDirectIO:
		default:
			return fmt.Errorf("unknown capability %q", name)
		}
	}
	for _, fd := range c.Capabilities.Reserved {
		if fd < 0 {
			return fmt.Errorf("invalid reserved descriptor %d", fd)
		}
	}
	return nil
}

// Caps returns the host capability set with the configured adjustments.
func (c *Config) Caps() hostcaps.Set {
	s := hostcaps.Host()
	for _, name := range c.Capabilities.Disable {
		switch name {
		case CapWritev:
			s.NativeWritev = false
		case CapFDWalk:
			s.FDDir = ""
		case CapCloseFrom:
			s.NativeCloseFrom = false
		case CapDirectIO:
			s.NativeDirectIO = false
		}
	}
	if len(c.Capabilities.Reserved) > 0 {
		reserved := append([]int(nil), c.Capabilities.Reserved...)
		sort.Ints(reserved)
		s = s.WithReserved(hostcaps.ReserveFDs(reserved...))
	}
	return s
}

// WriteOptions returns the configured vectored write defaults.
func (c *Config) WriteOptions() rawfile.WriteOptions {
	return rawfile.WriteOptions{
		BlockingRetry:  c.Writev.BlockingRetry,
		SplitOversized: c.Writev.SplitOversized,
	}
}

// SetupLogging applies the logging settings.
func (c *Config) SetupLogging() error {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if err := log.SetFormat(c.LogFormat); err != nil {
		return err
	}
	if c.LogFile == "" {
		log.SetTarget(os.Stderr)
		return nil
	}
	c.logger = &lumberjack.Logger{
		Filename:   c.LogFile,
		MaxSize:    c.LogMaxSizeMB,
		MaxBackups: 3,
	}
	log.SetTarget(c.logger)
	return nil
}

// ReleaseLog closes the log file, if any. It is reopened on the next write.
func (c *Config) ReleaseLog() error {
	if c.logger == nil {
		return nil
	}
	return c.logger.Close()
}
