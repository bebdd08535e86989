// Package main is the entry point for the dira-price CLI.
package main

import (
	"os"

	"dira-price/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
