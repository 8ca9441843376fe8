// Command rsmatch classifies positions in Rust source and computes the
// completions offered there.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs one invocation and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := a.run(cmd); err != nil {
		fmt.Fprintln(stderr, red("Error:"), err)
		return 1
	}
	return 0
}

// run executes cmd and tears the app down even when the command fails.
func (a *app) run(cmd *cobra.Command) (err error) {
	defer func() {
		if terr := a.teardown(); terr != nil {
			err = errors.Join(err, terr)
		}
	}()
	return cmd.Execute()
}
