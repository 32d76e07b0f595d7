// Package main provides the secom command.
package main

import (
	"os"

	"github.com/leapstack-labs/secom/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
