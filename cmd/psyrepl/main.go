// Package main provides the psyrepl command.
package main

import (
	"os"

	"github.com/leapstack-labs/psyrepl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
