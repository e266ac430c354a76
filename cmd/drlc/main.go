// Command drlc compiles a Datalog module into a generated Go database.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/drlc/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
