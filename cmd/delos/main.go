// Command delos is the command line interface for the Delos platform.
package main

import (
	"os"

	"github.com/instantcocoa/delos-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
