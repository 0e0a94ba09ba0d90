// Package exprtree implements the expression tree builder and evaluator of
// §4.3: a precedence-climbing tree builder over a per-line token stream,
// and the post-order evaluator that dispatches operators polymorphically
// on runtime value kinds.
//
// One file per syntactic concern, small composable helpers; the grammar
// itself — two-sided call recognition, `@` function references, the
// precedence table of §4.3 — is Phoenix's own. Per §9's cycle-breaking
// note, this package depends only on the small Caller interface it needs
// to invoke a Function value, not on the whole interpreter/driver type.
package exprtree

import (
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// Caller is the one capability the expression tree needs from the
// interpreter: the ability to invoke a Function value with its evaluated
// left/right argument lists. The interpreter package implements this;
// exprtree never imports the interpreter package itself.
type Caller interface {
	Call(fn *value.Function, left, right []value.Value) (value.Value, error)
}

// Context bundles everything Eval needs: the current Scope table and the
// Caller used for function invocation (§4.3, §4.2).
type Context struct {
	Scope *value.Scope
	Calls Caller
}

// Node is one element of the parsed expression tree. Evaluation happens
// post-order: operands are evaluated before the operator/call that
// consumes them is applied (§4.3 "Evaluation").
type Node interface {
	Eval(ctx *Context) (value.Value, error)
}
