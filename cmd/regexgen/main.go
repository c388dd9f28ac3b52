package main

import (
	"os"

	"github.com/aschepis/backscratcher/regexgen/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
