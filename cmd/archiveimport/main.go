// Package main is the entry point for the archiveimport CLI.
package main

import (
	"os"

	"github.com/awp-finanznachrichten/archive-llm/cmd/archiveimport/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
