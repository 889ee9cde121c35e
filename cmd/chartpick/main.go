// Command chartpick turns chart clicks into selection predicates.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/chartpick/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		code := cli.GetExitCode(err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}
