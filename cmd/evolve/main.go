// Package main provides the evolve CLI for running genetic algorithms on the
// bundled example problems.
package main

import (
	"fmt"
	"os"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
