// Package value implements the Phoenix runtime value system (§3): a closed
// set of value kinds behind a single Value interface, the literal flag that
// governs assignment-target validity, and the nested Scope table that backs
// variable lookup.
//
// Value is implemented by concrete per-kind structs, one file per family;
// the kind set, promotion lattice, and literal-flag semantics are
// Phoenix's own.
package value


// Value is the uniform operator surface every runtime value implements.
// There is no class hierarchy: Integer/Long/Double/Boolean/String/Type/
// Tuple/Array/Function/Reference/Void are the entire closed set (§3).
type Value interface {
	// TypeName is the sole basis for function-argument type matching and
	// for array/tuple declared-type comparisons.
	TypeName() string
	// String renders the value per the stringification rules of §6.
	String() string
	// IsLiteral reports the literal flag: only non-literal values may be
	// the target of an assignment or compound-assignment operator.
	IsLiteral() bool
	// WithLiteral returns a shallow copy of the value with the literal
	// flag set as requested. Storing a value into a Scope frame always
	// goes through WithLiteral(false) first, which is what lets a
	// variable initialized from a literal be reassigned later.
	WithLiteral(lit bool) Value
}

// Kind names used as TypeName() for the non-parametric kinds.
const (
	KindInteger  = "int"
	KindLong     = "long"
	KindDouble   = "double"
	KindBoolean  = "bool"
	KindString   = "str"
	KindType     = "type"
	KindTuple    = "tuple"
	KindFunction = "function"
	KindVoid     = "void"
)

// IsNumeric reports whether kind is one of the Integer/Long/Double family
// that participates in the numeric promotion lattice (§3).
func IsNumeric(kind string) bool {
	return kind == KindInteger || kind == KindLong || kind == KindDouble
}

// Void is the sentinel value produced only as the result of a call to a
// function declared without a return type. All operators are rejected
// for Void (§3).
type Void struct{}

func (Void) TypeName() string      { return KindVoid }
func (Void) String() string        { return "void" }
func (Void) IsLiteral() bool       { return true }
func (v Void) WithLiteral(bool) Value { return v }

// VoidValue is the single shared Void instance.
var VoidValue Value = Void{}

// Stringify is a convenience used by callers (print, array/tuple element
// rendering) that already hold a Value and want its display text.
func Stringify(v Value) string {
	if v == nil {
		return "void"
	}
	return v.String()
}
