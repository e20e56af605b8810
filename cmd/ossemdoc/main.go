package main

import (
	"os"

	"github.com/ekmixon/OSSEM/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.Report(err)
		os.Exit(1)
	}
}
