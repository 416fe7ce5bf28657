// Package main provides the entry point for the treeconf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Azhovan/treeconf/cmd/treeconf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
