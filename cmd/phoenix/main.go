// Command phoenix is the CLI entry point for the Phoenix interpreter.
package main

import (
	"os"

	"github.com/jscheiny/Phoenix-sub000/cmd/phoenix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
