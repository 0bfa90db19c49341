// Package main is the entry point for the tinibar menu-bar app.
package main

import (
	"fmt"
	"os"

	"github.com/tini-presence/tinibar/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
