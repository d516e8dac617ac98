// Package main is the entry point for the adsweep CLI binary.
package main

import (
	"os"

	"adsweep/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
