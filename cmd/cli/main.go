package main

import (
	"os"

	"github.com/bookshelf-dev/bookshelf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
