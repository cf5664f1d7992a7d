package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/walteh/fdio/fdctl/config"
	"github.com/walteh/fdio/pkg/fd"
	"github.com/walteh/fdio/pkg/hostcaps"
	"github.com/walteh/fdio/pkg/rawfile"
)

// Writev implements subcommands.Command for the "writev" command.
type Writev struct {
	untilComplete bool
	blocking      bool
	split         bool
	lock          bool
	drain         bool
	repeat        int
}

// Name implements subcommands.Command.Name.
func (*Writev) Name() string {
	return "writev"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Writev) Synopsis() string {
	return "write several buffers with one vectored write"
}

// Usage implements subcommands.Command.Usage.
func (*Writev) Usage() string {
	return `writev [flags] <file> <part>... - append the parts to file ("-" is stdout).
writev -drain [flags] <part>... - write the parts into a pipe and read them back.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (w *Writev) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&w.untilComplete, "until-complete", false, "retry short writes until every byte is written")
	f.BoolVar(&w.blocking, "blocking", false, "wait and retry when the write would block (implies -until-complete)")
	f.BoolVar(&w.split, "split", false, "split vectors longer than the iovec limit (implies -until-complete)")
	f.BoolVar(&w.lock, "lock", false, "hold an exclusive advisory lock on the file while writing")
	f.BoolVar(&w.drain, "drain", false, "write into an internal pipe drained concurrently")
	f.IntVar(&w.repeat, "repeat", 1, "write each part this many times")
}

// Execute implements subcommands.Command.Execute.
func (w *Writev) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	conf := args[0].(*config.Config)
	c := conf.Caps()

	opts := conf.WriteOptions()
	opts.BlockingRetry = opts.BlockingRetry || w.blocking
	opts.SplitOversized = opts.SplitOversized || w.split
	untilComplete := w.untilComplete || w.blocking || w.split

	if w.repeat < 1 {
		return Errorf("-repeat must be positive, got %d", w.repeat)
	}

	if w.drain {
		if f.NArg() == 0 {
			f.Usage()
			return subcommands.ExitUsageError
		}
		return w.executeDrain(&c, w.parts(f.Args()), opts)
	}

	if f.NArg() < 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	bufs := w.parts(f.Args()[1:])

	target := 1
	if path != "-" {
		file, err := fd.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_APPEND, 0o644)
		if err != nil {
			return Errorf("%v", err)
		}
		defer file.Close()
		target = file.FD()

		if w.lock {
			unlock, err := lockFile(path)
			if err != nil {
				return Errorf("%v", err)
			}
			defer unlock()
		}
	}

	var (
		n   int
		err error
	)
	if untilComplete {
		n, err = rawfile.WritevUntilComplete(&c, target, bufs, opts)
	} else {
		n, err = rawfile.Writev(&c, target, bufs)
	}
	if err != nil {
		return Errorf("writev after %d bytes: %v", n, err)
	}
	if path != "-" {
		fmt.Fprintf(output, "wrote %d of %d bytes in %d buffers\n", n, total(bufs), len(bufs))
	}
	return subcommands.ExitSuccess
}

func (w *Writev) parts(args []string) [][]byte {
	bufs := make([][]byte, 0, len(args)*w.repeat)
	for i := 0; i < w.repeat; i++ {
		for _, a := range args {
			bufs = append(bufs, []byte(a))
		}
	}
	return bufs
}

// executeDrain pushes bufs through a pipe with WritevUntilComplete while a
// second goroutine reads the other end, then checks the bytes round-tripped.
func (w *Writev) executeDrain(c *hostcaps.Set, bufs [][]byte, opts rawfile.WriteOptions) subcommands.ExitStatus {
	r, wr, err := fd.NewPipe()
	if err != nil {
		return Errorf("%v", err)
	}
	defer r.Close()

	var (
		g   errgroup.Group
		got bytes.Buffer
	)
	g.Go(func() error {
		_, err := io.Copy(&got, r)
		return err
	})

	n, werr := rawfile.WritevUntilComplete(c, wr.FD(), bufs, opts)
	wr.Close()
	if err := g.Wait(); err != nil {
		return Errorf("draining pipe: %v", err)
	}
	if werr != nil {
		return Errorf("writev after %d bytes: %v", n, werr)
	}
	if !bytes.Equal(got.Bytes(), bytes.Join(bufs, nil)) {
		return Errorf("pipe returned %d bytes that differ from the %d written", got.Len(), n)
	}
	fmt.Fprintf(output, "round-tripped %d bytes in %d buffers\n", n, len(bufs))
	return subcommands.ExitSuccess
}

func total(bufs [][]byte) int {
	var n int
	for _, b := range bufs {
		n += len(b)
	}
	return n
}
