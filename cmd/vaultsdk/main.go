// Command vaultsdk validates contract type declarations, journals and
// replays posting instructions, and runs client transaction scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/vaultsdk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
