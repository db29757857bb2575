package main

import (
	"os"

	"github.com/eddmann/kitmeta/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
