package main

import (
	"os"

	"github.com/shantanuseth8203/Data-Visualization/cmd/salespulse/commands"
)

// main is the entry point for the salespulse CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
