// Command mdgate is a safety-gated front-end for the macOS Spotlight
// tools.
package main

import (
	"os"

	"github.com/quillon/mdgate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
