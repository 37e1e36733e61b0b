// Package main is the entry point for the menucart CLI.
package main

import (
	"os"

	"github.com/jmylchreest/menucart/cmd/menucart/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
