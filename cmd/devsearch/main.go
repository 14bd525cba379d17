package main

import (
	"os"

	"devsearch/cmd/devsearch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
