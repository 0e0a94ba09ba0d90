package value

import (
	"fmt"
	"strings"
)

// Tuple is an ordered, fixed-arity sequence of values, constructible only
// via a parenthesized comma-separated expression (§3). Its declared type
// name is the ordered tuple of its element type names, e.g. "(int,str)".
// It has no operators except indexing via call (exprtree.evalTupleIndex):
// a tuple used as a call target with one integer argument returns the
// element at that index.
type Tuple struct {
	Elems []Value
	Lit   bool
}

// NewTuple builds a literal tuple value from already-evaluated elements.
func NewTuple(elems []Value) *Tuple {
	return &Tuple{Elems: elems, Lit: true}
}

func (t *Tuple) TypeName() string {
	names := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		names[i] = e.TypeName()
	}
	return "(" + strings.Join(names, ",") + ")"
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = Stringify(e)
	}
	// §6: tuple stringifies space-separated, intentionally without parens.
	return strings.Join(parts, " ")
}

func (t *Tuple) IsLiteral() bool { return t.Lit }
func (t *Tuple) WithLiteral(lit bool) Value {
	c := *t
	c.Lit = lit
	return &c
}

// Array is a homogeneous sequence of values. ElemType is the declared
// element type name ("int", "str", or a nested "[int]", …); the array's
// own TypeName is "[" + ElemType + "]", stable for the array's lifetime.
type Array struct {
	Elems    []Value
	ElemType string
	Lit      bool
}

// NewArray builds an array value, enforcing inter-element type homogeneity
// against elemType (§3: "enforced at construction").
func NewArray(elemType string, elems []Value) (*Array, error) {
	for i, e := range elems {
		if e.TypeName() != elemType {
			return nil, fmt.Errorf("array element %d has type %s, expected %s", i, e.TypeName(), elemType)
		}
	}
	return &Array{Elems: elems, ElemType: elemType, Lit: true}, nil
}

func (a *Array) TypeName() string { return "[" + a.ElemType + "]" }

func (a *Array) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = Stringify(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) IsLiteral() bool { return a.Lit }
func (a *Array) WithLiteral(lit bool) Value {
	c := *a
	c.Lit = lit
	return &c
}
