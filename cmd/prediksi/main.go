// Package main is the entry point of prediksi. Without a subcommand it runs
// the terminal dashboard; subcommands expose the same forecasts to scripts
// and over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
