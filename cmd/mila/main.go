package main

import (
	"os"

	"github.com/michaperki/mila/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
