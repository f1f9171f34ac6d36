package main

// Entry point: runs the Cobra root command.
// With no arguments the five benchmark charts are generated.

import (
	"fmt"
	"os"

	"bench-graphs/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
