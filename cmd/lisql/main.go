// Command lisql builds SQL statements from command documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/lisql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
