// Package main is the entry point of the leaplint command.
package main

import (
	"os"

	"github.com/leapstack-labs/leaplint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
