package main

import (
	"os"

	"github.com/pterm/pterm"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		os.Exit(1)
	}
}
