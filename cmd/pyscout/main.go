// Package main is the entry point for the pyscout CLI.
package main

import (
	"os"

	"github.com/thoreinstein/pyscout/cmd/pyscout/commands"
)

func main() {
	os.Exit(commands.Execute())
}
