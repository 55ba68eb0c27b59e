package main

import (
	"os"

	"github.com/keiprogram/English-Test-App/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
