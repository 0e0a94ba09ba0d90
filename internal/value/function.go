package value

import "strings"

// Param is one declared (type-name, parameter-name) pair of a function's
// left or right argument list (§3 Function).
type Param struct {
	Type string
	Name string
}

// Function is a reference to a callable. Body and Closure are opaque to
// this package (typed any) to avoid a dependency cycle back to the
// package that owns the block/statement representation.
type Function struct {
	Name       string
	ReturnType string // "" means Void
	Left       []Param
	Right      []Param
	Body       any
	Closure    any
	Lit        bool
}

func (f *Function) TypeName() string { return KindFunction }

func (f *Function) String() string {
	ret := f.ReturnType
	if ret == "" {
		ret = KindVoid
	}
	var b strings.Builder
	b.WriteString("function ")
	b.WriteString(ret)
	b.WriteString(" (")
	b.WriteString(paramList(f.Left))
	b.WriteString(") ")
	b.WriteString(f.Name)
	b.WriteString(" (")
	b.WriteString(paramList(f.Right))
	b.WriteString(")")
	return b.String()
}

func paramList(ps []Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func (f *Function) IsLiteral() bool { return f.Lit }
func (f *Function) WithLiteral(lit bool) Value {
	c := *f
	c.Lit = lit
	return &c
}

// Reference is a transparent wrapper introduced to make function
// parameters behave like their referent in operator expressions. It is
// never user-constructible. Every operator except assignment delegates to
// Referent; assignment through a reference is always rejected (§3, §9).
type Reference struct {
	Referent Value
}

func (r *Reference) TypeName() string { return r.Referent.TypeName() }
func (r *Reference) String() string   { return r.Referent.String() }
func (r *Reference) IsLiteral() bool  { return r.Referent.IsLiteral() }
func (r *Reference) WithLiteral(lit bool) Value {
	return &Reference{Referent: r.Referent.WithLiteral(lit)}
}

// Deref unwraps any number of Reference layers down to the underlying
// concrete value, the operation every operator dispatch performs before
// looking at runtime kind.
func Deref(v Value) Value {
	for {
		r, ok := v.(*Reference)
		if !ok {
			return v
		}
		v = r.Referent
	}
}
