// Package cmd implements the phoenix CLI, a spf13/cobra root command with
// a Long description, persistent flags, and an Execute() entry point,
// wired to the Phoenix interpreter.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridable by build flags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var (
	dumpAST bool
	trace   bool
)

var rootCmd = &cobra.Command{
	Use:   "phoenix [file]",
	Short: "Phoenix language interpreter",
	Long: `phoenix is a tree-walking interpreter for the Phoenix programming
language: indentation-delimited blocks, two-sided function argument
lists, and a small set of statically-named, dynamically-typed primitive
values with operator overloading resolved at runtime.

Invoked with a file path, phoenix interprets that file once and exits.
Invoked with no arguments, phoenix reads a program from standard input.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runFile,
}

// Execute runs the root command; main.go's only job is to call this and
// translate a non-nil error into a nonzero process exit.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed expression tree of each expression, print, return and initialization line before running")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "trace line dispatch and function calls to stderr")
}
