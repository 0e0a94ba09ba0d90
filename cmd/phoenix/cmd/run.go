package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jscheiny/Phoenix-sub000/internal/astprint"
	"github.com/jscheiny/Phoenix-sub000/internal/exprtree"
	"github.com/jscheiny/Phoenix-sub000/internal/interp"
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/source"
	"github.com/spf13/cobra"
)

// runFile implements §6's CLI contract: `phoenix <path>` interprets the
// file once and exits; `phoenix` with no arguments reads a program from
// standard input (the thin, out-of-core-scope interactive boundary of
// §1, kept as a single whole-program read rather than a real line-by-line
// shell — see DESIGN.md). Exit codes follow §6 exactly.
func runFile(_ *cobra.Command, args []string) error {
	path, text, err := readProgram(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phoenix: %v\n", err)
		os.Exit(1)
	}

	src := source.FromString(path, text)

	if dumpAST {
		dumpLines(src)
	}

	ip := interp.New(src, os.Stdout)
	if trace {
		ip.SetTracer(interp.NewStderrTracer(os.Stderr))
	}

	if perr := ip.RunProgram(); perr != nil {
		// §6: an uncaught user-level error is reported but still exits 0
		// (legacy behavior, preserved as a testable property).
		fmt.Fprint(os.Stderr, perrors.Format(perr))
	}
	return nil
}

func readProgram(args []string) (path, text string, err error) {
	if len(args) == 1 {
		data, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", rerr
		}
		return args[0], string(data), nil
	}
	data, rerr := io.ReadAll(os.Stdin)
	if rerr != nil {
		return "", "", rerr
	}
	return "<stdin>", string(data), nil
}

// dumpLines classifies every line (best-effort; classification errors are
// silently skipped, since this is a debug aid, not an execution) and
// prints the parsed expression tree of every line that carries one.
func dumpLines(src *source.Source) {
	fmt.Println("AST:")
	for i := 0; i < src.Size(); i++ {
		l, err := src.GetOrClassify(i)
		if err != nil || l.Payload == nil {
			continue
		}
		if expr, ok := exprOf(l.Payload); ok {
			fmt.Printf("  %d: %s\n", i+1, astprint.Dump(expr))
		}
	}
	fmt.Println()
}

// exprOf extracts the single expression tree a line's payload carries, if
// any — the payload kinds that hold exactly one top-level expression.
func exprOf(payload any) (exprtree.Node, bool) {
	switch p := payload.(type) {
	case *source.ParsePayload:
		return p.Expr, p.Expr != nil
	case *source.PrintPayload:
		return p.Expr, p.Expr != nil
	case *source.ReturnPayload:
		return p.Expr, p.Expr != nil
	case *source.InitPayload:
		return p.Expr, p.Expr != nil
	}
	return nil, false
}
