// Binary fdctl exercises the host descriptor primitives from the command
// line.
package main

import "github.com/walteh/fdio/fdctl/cli"

func main() {
	cli.Main()
}
