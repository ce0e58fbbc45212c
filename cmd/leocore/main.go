package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI call: 0 on success, 1 on failure, 2 on bad usage.
func run(args []string, out io.Writer, errOut io.Writer) int {
	root := newRootCommand(&cli{out: out, errOut: errOut, escapes: fancyTerminal(out)})
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, err)
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(errOut, "Usage help: leocore --help")
			return 2
		}
		return 1
	}
	return 0
}
