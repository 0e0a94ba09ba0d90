package exprtree

import (
	"strings"

	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// LiteralNode holds an already-built literal value.Value (numeric,
// boolean, string, or type-name literal) produced during Phase A.
type LiteralNode struct {
	Val value.Value
}

func (n *LiteralNode) Eval(*Context) (value.Value, error) {
	return n.Val, nil
}

// ResolutionNode looks up a name in the current scope at evaluation time
// (§4.3: "resolve variable names lazily at each evaluation"). Ref is set
// by the `@` marker of Phase B and suppresses the implicit zero-arg call
// a bare function-valued resolution would otherwise perform.
type ResolutionNode struct {
	Name string
	Ref  bool
}

func (n *ResolutionNode) Eval(ctx *Context) (value.Value, error) {
	v, ok := ctx.Scope.Get(n.Name)
	if !ok {
		return nil, perrors.New(perrors.Syntax, "undefined name: %s", n.Name)
	}
	if n.Ref {
		return v, nil
	}
	if fn, isFn := v.(*value.Function); isFn {
		return ctx.Calls.Call(fn, nil, nil)
	}
	return v, nil
}

// UnaryNode is a prefix unary operator: Negate ("-") or logical Not
// ("not"), the only two unary operators besides the `@` reference marker,
// which Phase B consumes directly and never reaches a Node.
type UnaryNode struct {
	Op      string
	Operand Node
}

func (n *UnaryNode) Eval(ctx *Context) (value.Value, error) {
	v, err := n.Operand.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return value.DispatchUnary(n.Op, v)
}

// BinaryNode is a binary arithmetic/comparison/logical operator.
// Operands are evaluated left, then right (§5 ordering guarantee).
type BinaryNode struct {
	Op          string
	Left, Right Node
}

func (n *BinaryNode) Eval(ctx *Context) (value.Value, error) {
	l, err := n.Left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return value.Dispatch(n.Op, l, r)
}

// AssignNode is `=` or a compound-assignment operator. Target must
// reduce, structurally, to a ResolutionNode — anything else (a literal,
// an arithmetic result, a call) is rejected as an invalid assignment
// target, which is the structural form of §4.3's literal-flag rule:
// only a bare name lookup ever resolves to a non-literal, storable slot.
type AssignNode struct {
	Op     string // "=", "+=", "-=", "*=", "/=", "%=", "^="
	Target Node
	Rhs    Node
}

func (n *AssignNode) Eval(ctx *Context) (value.Value, error) {
	target, ok := n.Target.(*ResolutionNode)
	if !ok {
		return nil, perrors.New(perrors.Syntax, "invalid assignment target")
	}
	cur, ok := ctx.Scope.Get(target.Name)
	if !ok {
		return nil, perrors.New(perrors.Syntax, "undefined name: %s", target.Name)
	}
	if _, isRef := cur.(*value.Reference); isRef {
		return nil, perrors.New(perrors.Syntax, "cannot assign to a reference")
	}
	if cur.IsLiteral() {
		return nil, perrors.New(perrors.Syntax, "assignment target is not assignable: %s", target.Name)
	}
	rhs, err := n.Rhs.Eval(ctx)
	if err != nil {
		return nil, err
	}
	var newVal value.Value
	if n.Op == "=" {
		newVal = rhs
	} else {
		base := strings.TrimSuffix(n.Op, "=")
		newVal, err = value.Dispatch(base, cur, rhs)
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Scope.Set(target.Name, newVal); err != nil {
		return nil, perrors.New(perrors.Syntax, "%s", err.Error())
	}
	return newVal, nil
}

// ParenGroup is the result of recursively parsing a "( ... )" range: the
// comma-separated top-level segments, each already fully reduced. Used
// directly as it stands: Eval collapses a single element to itself and
// multiple elements to a Tuple; Phase B instead reads Elements straight
// off when this group is adjacent to a callee, to build a call's
// argument list.
type ParenGroup struct {
	Elements []Node
}

func (n *ParenGroup) Eval(ctx *Context) (value.Value, error) {
	if len(n.Elements) == 0 {
		return nil, perrors.New(perrors.Syntax, "empty parenthesized expression")
	}
	if len(n.Elements) == 1 {
		return n.Elements[0].Eval(ctx)
	}
	vals := make([]value.Value, len(n.Elements))
	for i, e := range n.Elements {
		v, err := e.Eval(ctx)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return value.NewTuple(vals), nil
}

// BracketGroup is the result of recursively parsing a "[ ... ]" range. A
// bracket-surrounded reduction always yields an Array, regardless of
// cardinality (§4.3 Phase C).
type BracketGroup struct {
	Elements []Node
}

func (n *BracketGroup) Eval(ctx *Context) (value.Value, error) {
	vals := make([]value.Value, len(n.Elements))
	for i, e := range n.Elements {
		v, err := e.Eval(ctx)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	elemType := ""
	if len(vals) > 0 {
		elemType = vals[0].TypeName()
	}
	arr, err := value.NewArray(elemType, vals)
	if err != nil {
		return nil, perrors.New(perrors.Syntax, "%s", err.Error())
	}
	return arr, nil
}

// CallNode is a one- or two-sided function call (§4.3 Phase B). HasLeft/
// HasRight distinguish an absent argument list from a present-but-empty
// one ("()"). Tuple indexing and astprint read them; a function call
// passes both kinds of list as zero arguments.
type CallNode struct {
	Callee            Node
	Left, Right       []Node
	HasLeft, HasRight bool
}

func (n *CallNode) Eval(ctx *Context) (value.Value, error) {
	calleeVal, err := evalCallee(ctx, n.Callee)
	if err != nil {
		return nil, err
	}
	callee := value.Deref(calleeVal)
	if tup, ok := callee.(*value.Tuple); ok {
		return evalTupleIndex(ctx, tup, n)
	}
	fn, ok := callee.(*value.Function)
	if !ok {
		return nil, perrors.New(perrors.Syntax, "call target is not a function")
	}
	left, err := evalArgs(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := evalArgs(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	return ctx.Calls.Call(fn, left, right)
}

// evalTupleIndex implements §3's "Tuple ... has no operators except
// indexing via call": a tuple value used as a callee with a single
// integer-valued argument list returns the element at that index. The
// argument list may sit on either side of the tuple (`t (0)` or `(0) t`)
// but not both, since indexing takes exactly one argument.
func evalTupleIndex(ctx *Context, tup *value.Tuple, n *CallNode) (value.Value, error) {
	if n.HasLeft && n.HasRight {
		return nil, perrors.New(perrors.Syntax, "tuple indexing takes a single argument list")
	}
	argNodes := n.Right
	if n.HasLeft {
		argNodes = n.Left
	}
	if len(argNodes) != 1 {
		return nil, perrors.New(perrors.Syntax, "tuple indexing expects exactly one integer argument")
	}
	idxVal, err := argNodes[0].Eval(ctx)
	if err != nil {
		return nil, err
	}
	idx, ok := value.Deref(idxVal).(*value.Integer)
	if !ok {
		return nil, perrors.New(perrors.Syntax, "tuple index must be int, got %s", idxVal.TypeName())
	}
	i := int(idx.V)
	if i < 0 || i >= len(tup.Elems) {
		return nil, perrors.New(perrors.Generic, "tuple index %d out of range", i)
	}
	return tup.Elems[i], nil
}

// evalCallee resolves the callee node without triggering ResolutionNode's
// auto-invoke-with-no-args behavior, which only applies to a *bare* name
// reference, never one already captured by a call construction (§4.3
// Phase B: "not captured by @ or by a call construction").
func evalCallee(ctx *Context, n Node) (value.Value, error) {
	if res, ok := n.(*ResolutionNode); ok {
		v, ok := ctx.Scope.Get(res.Name)
		if !ok {
			return nil, perrors.New(perrors.Syntax, "undefined name: %s", res.Name)
		}
		return v, nil
	}
	return n.Eval(ctx)
}

func evalArgs(ctx *Context, nodes []Node) ([]value.Value, error) {
	if nodes == nil {
		return nil, nil
	}
	vals := make([]value.Value, len(nodes))
	for i, n := range nodes {
		v, err := n.Eval(ctx)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
