// Package main is the entry point for the scoutqa CLI.
package main

import (
	"os"

	"github.com/scoutqa/scoutqa/cmd/scoutqa/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
