package fdwalk

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/walteh/fdio/pkg/hostcaps"
)

const closeFromChildEnv = "FDWALK_CLOSEFROM_CHILD"

// closeFromChild runs in a re-executed test binary: it closes everything from
// 3 and then needs the runtime's poller for a sleep and a read deadline.
func closeFromChild(variant string) {
	host := hostcaps.Host()
	c := &host
	switch variant {
	case "nil":
		c = nil
	case "walk-close":
		c.NativeCloseFrom = false
	case "scan":
		c.NativeCloseFrom = false
		c.FDDir = ""
		if c.MaxDescriptors > 4096 {
			c.MaxDescriptors = 4096
		}
	}

	if err := CloseFrom(c, 3); err != nil {
		fmt.Fprintf(os.Stderr, "CloseFrom: %v\n", err)
		os.Exit(1)
	}
	time.Sleep(200 * time.Millisecond)

	r, w, err := os.Pipe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipe: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()
	r.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	if _, err := r.Read(make([]byte, 1)); !errors.Is(err, os.ErrDeadlineExceeded) {
		fmt.Fprintf(os.Stderr, "Read = %v, want deadline exceeded\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func TestCloseFromKeepsRuntime(t *testing.T) {
	if v := os.Getenv(closeFromChildEnv); v != "" {
		closeFromChild(v)
	}

	for _, variant := range []string{"nil", "walk-close", "scan"} {
		t.Run(variant, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestCloseFromKeepsRuntime$")
			cmd.Env = append(os.Environ(), closeFromChildEnv+"="+variant)
			out, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatalf("child after CloseFrom(3): %v\n%s", err, out)
			}
		})
	}
}
