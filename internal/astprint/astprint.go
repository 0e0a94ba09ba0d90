// Package astprint renders an exprtree.Node as a single-line, parenthesized
// text tree, used by the CLI's --dump-ast flag (SPEC_FULL.md §4).
// Phoenix's exprtree.Node set is small enough that a single type switch
// covers it, rather than a String()/TokenLiteral() method per node type.
package astprint

import (
	"fmt"
	"strings"

	"github.com/jscheiny/Phoenix-sub000/internal/exprtree"
)

// Dump renders n as a single-line, parenthesized expression for debug
// output. It is intentionally not the same shape as a Value's String():
// it exposes the tree structure (operator names, call shape) rather than
// a runtime value.
func Dump(n exprtree.Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n exprtree.Node) {
	switch v := n.(type) {
	case *exprtree.LiteralNode:
		fmt.Fprintf(b, "%s", v.Val.String())
	case *exprtree.ResolutionNode:
		if v.Ref {
			fmt.Fprintf(b, "@%s", v.Name)
		} else {
			b.WriteString(v.Name)
		}
	case *exprtree.UnaryNode:
		fmt.Fprintf(b, "(%s ", v.Op)
		dump(b, v.Operand)
		b.WriteString(")")
	case *exprtree.BinaryNode:
		b.WriteString("(")
		dump(b, v.Left)
		fmt.Fprintf(b, " %s ", v.Op)
		dump(b, v.Right)
		b.WriteString(")")
	case *exprtree.AssignNode:
		b.WriteString("(")
		dump(b, v.Target)
		fmt.Fprintf(b, " %s ", v.Op)
		dump(b, v.Rhs)
		b.WriteString(")")
	case *exprtree.ParenGroup:
		dumpList(b, "(", ")", v.Elements)
	case *exprtree.BracketGroup:
		dumpList(b, "[", "]", v.Elements)
	case *exprtree.CallNode:
		if v.HasLeft {
			dumpList(b, "(", ")", v.Left)
			b.WriteString(" ")
		}
		dump(b, v.Callee)
		if v.HasRight {
			b.WriteString(" ")
			dumpList(b, "(", ")", v.Right)
		}
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}

func dumpList(b *strings.Builder, open, close string, elems []exprtree.Node) {
	b.WriteString(open)
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		dump(b, e)
	}
	b.WriteString(close)
}
