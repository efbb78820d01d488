package main

import (
	"os"

	"github.com/pwellner/go-ai-researcher/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
