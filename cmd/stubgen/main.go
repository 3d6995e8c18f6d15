package main

import (
	"os"

	"github.com/example/stubgen/internal/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
