// Package cmd holds the fdctl subcommands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/walteh/fdio/pkg/log"
)

// output receives command results.
var output io.Writer = os.Stdout

// errOutput receives errors directly when logs go to a file.
var (
	errOutput io.Writer = os.Stderr
	echoErrs  bool
)

// EchoErrors makes Errorf and Fatalf also write to stderr. Set it when logs
// do not go to stderr already.
func EchoErrors(on bool) {
	echoErrs = on
}

// Errorf logs the error, then returns ExitFailure.
func Errorf(format string, args ...any) subcommands.ExitStatus {
	report(format, args...)
	return subcommands.ExitFailure
}

// Fatalf logs the error and exits with status 128.
func Fatalf(format string, args ...any) {
	report(format, args...)
	os.Exit(128)
}

func report(format string, args ...any) {
	log.Warningf(format, args...)
	if echoErrs {
		fmt.Fprintf(errOutput, format+"\n", args...)
	}
}

// parseFD parses a non-negative descriptor number.
func parseFD(s string) (int, error) {
	fd, err := strconv.Atoi(s)
	if err != nil || fd < 0 {
		return 0, fmt.Errorf("invalid descriptor %q", s)
	}
	return fd, nil
}
