// Package main is the entry point for blind-configurator CLI.
package main

import (
	"os"

	"blind-configurator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
