package value

import "testing"

func TestPromotionLattice(t *testing.T) {
	tests := []struct {
		name     string
		left     Value
		right    Value
		op       string
		wantKind string
	}{
		{"int+double", NewInteger(1), NewDouble(2.5), "+", KindDouble},
		{"int+long", NewInteger(1), NewLong(2), "+", KindLong},
		{"long+double", NewLong(1), NewDouble(2.5), "+", KindDouble},
		{"int+int", NewInteger(1), NewInteger(2), "+", KindInteger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dispatch(tt.op, tt.left, tt.right)
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			if got.TypeName() != tt.wantKind {
				t.Errorf("got kind %s, want %s", got.TypeName(), tt.wantKind)
			}
		})
	}
}

func TestStringConcatenationAndRepetition(t *testing.T) {
	cat, err := Dispatch("+", NewInteger(3), NewString("x"))
	if err != nil {
		t.Fatalf("Dispatch +: %v", err)
	}
	if cat.String() != "3x" {
		t.Errorf("got %q, want %q", cat.String(), "3x")
	}

	rep, err := Dispatch("*", NewInteger(3), NewString("ab"))
	if err != nil {
		t.Fatalf("Dispatch *: %v", err)
	}
	if rep.String() != "ababab" {
		t.Errorf("got %q, want %q", rep.String(), "ababab")
	}

	rep2, err := Dispatch("*", NewString("ab"), NewInteger(2))
	if err != nil {
		t.Fatalf("Dispatch * (reversed): %v", err)
	}
	if rep2.String() != "abab" {
		t.Errorf("got %q, want %q", rep2.String(), "abab")
	}
}

func TestStringConcatenationRejectsNonIntLongOperands(t *testing.T) {
	arr, err := NewArray(KindInteger, []Value{NewInteger(1)})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	fn := &Function{Name: "f", Lit: true}
	others := []struct {
		name string
		v    Value
	}{
		{"bool", NewBoolean(true)},
		{"double", NewDouble(1.5)},
		{"array", arr},
		{"tuple", NewTuple([]Value{NewInteger(1)})},
		{"function", fn},
	}
	for _, tt := range others {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Dispatch("+", tt.v, NewString("x")); err == nil {
				t.Fatalf("expected UnsupportedOperator for %s + str", tt.name)
			}
			if _, err := Dispatch("+", NewString("x"), tt.v); err == nil {
				t.Fatalf("expected UnsupportedOperator for str + %s", tt.name)
			}
		})
	}
}

func TestStringPlusStringConcatenates(t *testing.T) {
	got, err := Dispatch("+", NewString("ab"), NewString("cd"))
	if err != nil {
		t.Fatalf("Dispatch +: %v", err)
	}
	if got.String() != "abcd" {
		t.Errorf("got %q, want %q", got.String(), "abcd")
	}
}

func TestEqualityAcrossDisjointKindsIsUnsupported(t *testing.T) {
	if _, err := Dispatch("==", NewBoolean(true), NewInteger(1)); err == nil {
		t.Fatal("expected UnsupportedOperator error comparing bool to int")
	}
}

func TestNumericEqualityAcrossKinds(t *testing.T) {
	got, err := Dispatch("==", NewInteger(2), NewDouble(2.0))
	if err != nil {
		t.Fatalf("Dispatch ==: %v", err)
	}
	b, ok := got.(*Boolean)
	if !ok || !b.V {
		t.Errorf("got %v, want true", got)
	}
}

func TestCommutativeOperatorSymmetry(t *testing.T) {
	pairs := []struct{ l, r Value }{
		{NewInteger(3), NewInteger(4)},
		{NewDouble(1.5), NewInteger(2)},
	}
	for _, p := range pairs {
		a, err := Dispatch("+", p.l, p.r)
		if err != nil {
			t.Fatalf("Dispatch +: %v", err)
		}
		b, err := Dispatch("+", p.r, p.l)
		if err != nil {
			t.Fatalf("Dispatch + reversed: %v", err)
		}
		eq, err := Dispatch("==", a, b)
		if err != nil {
			t.Fatalf("Dispatch ==: %v", err)
		}
		if !eq.(*Boolean).V {
			t.Errorf("%v + %v not symmetric: %v vs %v", p.l, p.r, a, b)
		}
	}
}

func TestBooleanOnlyEqualityAndLogical(t *testing.T) {
	if _, err := Dispatch("+", NewBoolean(true), NewBoolean(false)); err == nil {
		t.Fatal("expected UnsupportedOperator for bool +")
	}
	got, err := Dispatch("and", NewBoolean(true), NewBoolean(false))
	if err != nil {
		t.Fatalf("Dispatch and: %v", err)
	}
	if got.(*Boolean).V {
		t.Errorf("true and false = %v, want false", got)
	}
}

func TestLiteralFlagGatesAssignment(t *testing.T) {
	lit := NewInteger(5)
	if !lit.IsLiteral() {
		t.Fatal("NewInteger should be literal by default")
	}
	bound := lit.WithLiteral(false)
	if bound.IsLiteral() {
		t.Fatal("WithLiteral(false) should clear the literal flag")
	}
}

func TestDoubleStringAlwaysShowsPoint(t *testing.T) {
	d := NewDouble(3)
	if d.String() != "3.0" {
		t.Errorf("got %q, want %q", d.String(), "3.0")
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := Dispatch("/", NewInteger(1), NewInteger(0)); err == nil {
		t.Fatal("expected error for integer division by zero")
	}
	v, err := Dispatch("/", NewDouble(1), NewInteger(0))
	if err != nil {
		t.Fatalf("double division by zero should not error: %v", err)
	}
	if v.TypeName() != KindDouble {
		t.Errorf("got %s, want double", v.TypeName())
	}
}

func TestReferenceDelegatesOperators(t *testing.T) {
	ref := &Reference{Referent: NewInteger(2)}
	got, err := Dispatch("+", ref, NewInteger(3))
	if err != nil {
		t.Fatalf("Dispatch +: %v", err)
	}
	if got.TypeName() != KindInteger {
		t.Fatalf("got %s, want int", got.TypeName())
	}
	if got.String() != "5" {
		t.Errorf("got %q, want %q", got.String(), "5")
	}
}

func TestArrayEquality(t *testing.T) {
	a, err := NewArray(KindInteger, []Value{NewInteger(1), NewInteger(2)})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	b, err := NewArray(KindInteger, []Value{NewInteger(1), NewInteger(2)})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	eq, err := Dispatch("==", a, b)
	if err != nil {
		t.Fatalf("Dispatch ==: %v", err)
	}
	if !eq.(*Boolean).V {
		t.Error("expected equal arrays to compare equal")
	}
}

func TestArrayConstructionRejectsHeterogeneousElements(t *testing.T) {
	if _, err := NewArray(KindInteger, []Value{NewInteger(1), NewString("x")}); err == nil {
		t.Fatal("expected error constructing a heterogeneous array")
	}
}
