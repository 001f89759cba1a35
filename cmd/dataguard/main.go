// Package main is the entry point for the dataguard CLI.
package main

import (
	"os"

	"github.com/AmanDhiman07/dataguard/cmd/dataguard/commands"
)

func main() {
	os.Exit(commands.Execute())
}
