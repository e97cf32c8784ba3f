package main

import (
	"os"

	"github.com/nexuscheck-dev/nexuscheck/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
