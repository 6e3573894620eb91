// Package main is the entry point for the virgin-history CLI.
package main

import (
	"os"

	"virgin-history/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
