package main

import (
	"os"

	"github.com/runnerr0/edshot/internal/cli"
)

var version = "dev"

func main() {
	// go-flags has already printed the error.
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
