package main

import (
	"os"

	"github.com/pior/eshttp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
