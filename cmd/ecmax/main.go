// Command ecmax is the embedding shell spec.md §1 calls out of scope for
// the core engine: argv parsing and file I/O over pkg/esvm. Grounded on the
// teacher's cmd/dwscript/main.go (a one-line Execute() call into its cmd
// package).
package main

import (
	"fmt"
	"os"

	"github.com/ecmax-lang/ecmax/cmd/ecmax/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
