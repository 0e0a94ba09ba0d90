package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
)

// numericRank orders the promotion lattice of §3: Int < Long < Double.
func numericRank(kind string) int {
	switch kind {
	case KindInteger:
		return 0
	case KindLong:
		return 1
	case KindDouble:
		return 2
	}
	return -1
}

// asFloat64 extracts the numeric payload of a dereferenced numeric Value.
func asFloat64(v Value) float64 {
	switch n := v.(type) {
	case *Integer:
		return float64(n.V)
	case *Long:
		return float64(n.V)
	case *Double:
		return n.V
	}
	return 0
}

// promote returns the kind both numeric operands should be computed in,
// per the Int+Double→Double, Int+Long→Long, Long+Double→Double lattice.
func promote(l, r Value) string {
	lr, rr := numericRank(l.TypeName()), numericRank(r.TypeName())
	if lr >= rr {
		return l.TypeName()
	}
	return r.TypeName()
}

// fromPromoted builds a fresh literal numeric Value of the given promoted
// kind from a float64 computation result.
func fromPromoted(kind string, f float64) Value {
	switch kind {
	case KindInteger:
		return NewInteger(int32(f))
	case KindLong:
		return NewLong(int64(f))
	default:
		return NewDouble(f)
	}
}

// Dispatch applies a binary operator to two already-evaluated operands,
// dereferencing Reference wrappers first (§9: "a Reference delegates
// every non-assignment operator to its referent"). This is the flat
// (operator, left-kind, right-kind) function table of §9's design note,
// expressed as a handful of kind-family branches rather than a literal
// map, since most numeric/string/boolean families share one formula.
func Dispatch(op string, left, right Value) (Value, error) {
	l, r := Deref(left), Deref(right)

	switch op {
	case "+":
		return add(l, r)
	case "-":
		return arithmetic(op, l, r, func(a, b float64) float64 { return a - b })
	case "*":
		return mul(l, r)
	case "/":
		return divide(l, r)
	case "%":
		return modulo(l, r)
	case "^":
		return power(l, r)
	case "==":
		return equals(l, r, false)
	case "!=":
		return equals(l, r, true)
	case "<", "<=", ">", ">=":
		return compare(op, l, r)
	case "and":
		return logical(op, l, r)
	case "or":
		return logical(op, l, r)
	}
	return nil, perrors.Unsupported(op, l.TypeName(), r.TypeName())
}

// DispatchUnary applies a prefix unary operator (Negate or logical Not).
func DispatchUnary(op string, operand Value) (Value, error) {
	v := Deref(operand)
	switch op {
	case "-":
		if !IsNumeric(v.TypeName()) {
			return nil, perrors.Unsupported("unary -", v.TypeName(), "")
		}
		switch n := v.(type) {
		case *Integer:
			return NewInteger(-n.V), nil
		case *Long:
			return NewLong(-n.V), nil
		case *Double:
			return NewDouble(-n.V), nil
		}
	case "not":
		b, ok := v.(*Boolean)
		if !ok {
			return nil, perrors.Unsupported("not", v.TypeName(), "")
		}
		return NewBoolean(!b.V), nil
	}
	return nil, perrors.Unsupported(op, v.TypeName(), "")
}

func add(l, r Value) (Value, error) {
	ls, lIsStr := l.(*String)
	rs, rIsStr := r.(*String)
	switch {
	case lIsStr && rIsStr:
		return NewString(ls.V + rs.V), nil
	case lIsStr && isIntOrLong(r):
		return NewString(ls.V + Stringify(r)), nil
	case rIsStr && isIntOrLong(l):
		return NewString(Stringify(l) + rs.V), nil
	case lIsStr || rIsStr:
		return nil, perrors.Unsupported("+", l.TypeName(), r.TypeName())
	}
	return arithmetic("+", l, r, func(a, b float64) float64 { return a + b })
}

// isIntOrLong reports whether v is one of the two kinds §3's "Int/Long +
// String → concatenation" rule names — Double, Boolean, Array, Tuple, and
// Function are excluded by omission.
func isIntOrLong(v Value) bool {
	switch v.(type) {
	case *Integer, *Long:
		return true
	}
	return false
}

func mul(l, r Value) (Value, error) {
	if li, ok := l.(*Integer); ok {
		if s, ok := r.(*String); ok {
			return repeat(s.V, li.V), nil
		}
	}
	if s, ok := l.(*String); ok {
		if ri, ok := r.(*Integer); ok {
			return repeat(s.V, ri.V), nil
		}
	}
	return arithmetic("*", l, r, func(a, b float64) float64 { return a * b })
}

func repeat(s string, n int32) Value {
	if n < 0 {
		n = 0
	}
	return NewString(strings.Repeat(s, int(n)))
}

func arithmetic(op string, l, r Value, f func(a, b float64) float64) (Value, error) {
	if !IsNumeric(l.TypeName()) || !IsNumeric(r.TypeName()) {
		return nil, perrors.Unsupported(op, l.TypeName(), r.TypeName())
	}
	kind := promote(l, r)
	return fromPromoted(kind, f(asFloat64(l), asFloat64(r))), nil
}

func divide(l, r Value) (Value, error) {
	if !IsNumeric(l.TypeName()) || !IsNumeric(r.TypeName()) {
		return nil, perrors.Unsupported("/", l.TypeName(), r.TypeName())
	}
	kind := promote(l, r)
	rv := asFloat64(r)
	if kind != KindDouble && rv == 0 {
		return nil, perrors.New(perrors.Generic, "division by zero")
	}
	return fromPromoted(kind, asFloat64(l)/rv), nil
}

func modulo(l, r Value) (Value, error) {
	if !IsNumeric(l.TypeName()) || !IsNumeric(r.TypeName()) {
		return nil, perrors.Unsupported("%", l.TypeName(), r.TypeName())
	}
	kind := promote(l, r)
	rv := asFloat64(r)
	if rv == 0 {
		return nil, perrors.New(perrors.Generic, "modulo by zero")
	}
	return fromPromoted(kind, math.Mod(asFloat64(l), rv)), nil
}

func power(l, r Value) (Value, error) {
	if !IsNumeric(l.TypeName()) || !IsNumeric(r.TypeName()) {
		return nil, perrors.Unsupported("^", l.TypeName(), r.TypeName())
	}
	kind := promote(l, r)
	result := math.Pow(asFloat64(l), asFloat64(r))
	return fromPromoted(kind, result), nil
}

func equals(l, r Value, negate bool) (Value, error) {
	eq, err := rawEquals(l, r)
	if err != nil {
		return nil, err
	}
	if negate {
		eq = !eq
	}
	return NewBoolean(eq), nil
}

func rawEquals(l, r Value) (bool, error) {
	if IsNumeric(l.TypeName()) && IsNumeric(r.TypeName()) {
		return asFloat64(l) == asFloat64(r), nil
	}
	switch lv := l.(type) {
	case *Boolean:
		rv, ok := r.(*Boolean)
		if !ok {
			return false, perrors.Unsupported("==", l.TypeName(), r.TypeName())
		}
		return lv.V == rv.V, nil
	case *String:
		rv, ok := r.(*String)
		if !ok {
			return false, perrors.Unsupported("==", l.TypeName(), r.TypeName())
		}
		return lv.V == rv.V, nil
	case *Type:
		rv, ok := r.(*Type)
		if !ok {
			return false, perrors.Unsupported("==", l.TypeName(), r.TypeName())
		}
		return lv.Name == rv.Name, nil
	case *Array:
		rv, ok := r.(*Array)
		if !ok || lv.TypeName() != rv.TypeName() {
			return false, perrors.Unsupported("==", l.TypeName(), r.TypeName())
		}
		if len(lv.Elems) != len(rv.Elems) {
			return false, nil
		}
		for i := range lv.Elems {
			eq, err := rawEquals(Deref(lv.Elems[i]), Deref(rv.Elems[i]))
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return false, perrors.Unsupported("==", l.TypeName(), r.TypeName())
}

func compare(op string, l, r Value) (Value, error) {
	if !IsNumeric(l.TypeName()) || !IsNumeric(r.TypeName()) {
		return nil, perrors.Unsupported(op, l.TypeName(), r.TypeName())
	}
	lf, rf := asFloat64(l), asFloat64(r)
	var res bool
	switch op {
	case "<":
		res = lf < rf
	case "<=":
		res = lf <= rf
	case ">":
		res = lf > rf
	case ">=":
		res = lf >= rf
	}
	return NewBoolean(res), nil
}

func logical(op string, l, r Value) (Value, error) {
	lb, ok := l.(*Boolean)
	if !ok {
		return nil, perrors.Unsupported(op, l.TypeName(), r.TypeName())
	}
	rb, ok := r.(*Boolean)
	if !ok {
		return nil, perrors.Unsupported(op, l.TypeName(), r.TypeName())
	}
	if op == "and" {
		return NewBoolean(lb.V && rb.V), nil
	}
	return NewBoolean(lb.V || rb.V), nil
}

// FormatNumeric returns the decimal text of a numeric value (after
// dereferencing any Reference), or v.String() for any other kind. The
// print statement and array/tuple element rendering use Stringify, not
// this function.
func FormatNumeric(v Value) string {
	switch n := Deref(v).(type) {
	case *Integer:
		return strconv.FormatInt(int64(n.V), 10)
	case *Long:
		return strconv.FormatInt(n.V, 10)
	case *Double:
		return n.String()
	}
	return v.String()
}
