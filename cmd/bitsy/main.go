// Package main is the entry point for the bitsy application.
// It loads configuration, opens the habit store, and starts the widget or
// runs one of the scriptable subcommands.
package main

import (
	"fmt"
	"os"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
