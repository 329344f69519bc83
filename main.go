package main

import (
	"os"

	"github.com/biilim/biilim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
