package main

import (
	"os"

	"github.com/zhongcheng0519/openstock/cmd/openstock/commands"
)

// main is the entry point for the openstock CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
