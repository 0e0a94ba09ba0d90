package exprtree

import (
	"testing"

	"github.com/jscheiny/Phoenix-sub000/internal/lexer"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

type fakeCaller struct {
	calls []struct {
		name        string
		left, right []value.Value
	}
	result value.Value
	err    error
}

func (f *fakeCaller) Call(fn *value.Function, left, right []value.Value) (value.Value, error) {
	f.calls = append(f.calls, struct {
		name        string
		left, right []value.Value
	}{fn.Name, left, right})
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return value.VoidValue, nil
}

func evalString(t *testing.T, src string, scope *value.Scope, caller Caller) value.Value {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	node, err := Build(toks)
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	v, err := node.Eval(&Context{Scope: scope, Calls: caller})
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestBuildPrecedenceMultiplyBeforeAdd(t *testing.T) {
	got := evalString(t, "1 + 2 * 3", value.NewScope(), &fakeCaller{})
	if got.String() != "7" {
		t.Errorf("got %q, want %q", got.String(), "7")
	}
}

func TestBuildPowerIsRightAssociative(t *testing.T) {
	// 2^3^2 = 2^(3^2) = 2^9 = 512, not (2^3)^2 = 64.
	got := evalString(t, "2 ^ 3 ^ 2", value.NewScope(), &fakeCaller{})
	if got.String() != "512" {
		t.Errorf("got %q, want %q", got.String(), "512")
	}
}

func TestBuildUnaryMinusAtExpressionStart(t *testing.T) {
	got := evalString(t, "-1 + 2", value.NewScope(), &fakeCaller{})
	if got.String() != "1" {
		t.Errorf("got %q, want %q", got.String(), "1")
	}
}

func TestBuildUnaryMinusAfterBinaryOperator(t *testing.T) {
	got := evalString(t, "3 - -1", value.NewScope(), &fakeCaller{})
	if got.String() != "4" {
		t.Errorf("got %q, want %q", got.String(), "4")
	}
}

func TestBuildParenthesesOverridePrecedence(t *testing.T) {
	got := evalString(t, "(1 + 2) * 3", value.NewScope(), &fakeCaller{})
	if got.String() != "9" {
		t.Errorf("got %q, want %q", got.String(), "9")
	}
}

func TestBuildSingleParenCollapsesToElement(t *testing.T) {
	got := evalString(t, "(5)", value.NewScope(), &fakeCaller{})
	if got.TypeName() != value.KindInteger || got.String() != "5" {
		t.Errorf("got %v, want a bare int 5", got)
	}
}

func TestBuildMultiElementParenIsTuple(t *testing.T) {
	got := evalString(t, "(1, 2, 3)", value.NewScope(), &fakeCaller{})
	if got.TypeName() != "(int,int,int)" {
		t.Fatalf("got kind %s, want (int,int,int)", got.TypeName())
	}
	if got.String() != "1 2 3" {
		t.Errorf("got %q, want %q", got.String(), "1 2 3")
	}
}

func TestBuildBracketIsAlwaysArray(t *testing.T) {
	got := evalString(t, "[1]", value.NewScope(), &fakeCaller{})
	if got.TypeName() != "[int]" {
		t.Errorf("got kind %s, want [int]", got.TypeName())
	}
}

func TestBuildAssignmentRequiresBareNameTarget(t *testing.T) {
	toks, err := lexer.Tokenize("1 + 1 = 2")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	node, err := Build(toks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := value.NewScope()
	if _, err := node.Eval(&Context{Scope: s, Calls: &fakeCaller{}}); err == nil {
		t.Fatal("expected an error assigning to a non-name target")
	}
}

func TestBuildCompoundAssignmentAppliesBaseOperator(t *testing.T) {
	s := value.NewScope()
	s.Allocate("x", value.NewInteger(10))
	got := evalString(t, "x += 5", s, &fakeCaller{})
	if got.String() != "15" {
		t.Errorf("got %q, want %q", got.String(), "15")
	}
	stored, _ := s.Get("x")
	if stored.String() != "15" {
		t.Errorf("stored x = %q, want %q", stored.String(), "15")
	}
}

func TestBuildAssignmentToLiteralTargetFails(t *testing.T) {
	toks, _ := lexer.Tokenize("5 = 1")
	node, err := Build(toks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := node.Eval(&Context{Scope: value.NewScope(), Calls: &fakeCaller{}}); err == nil {
		t.Fatal("expected error assigning into a literal")
	}
}

func TestBuildTwoSidedCallBindsBothArgumentLists(t *testing.T) {
	s := value.NewScope()
	fn := &value.Function{Name: "add", Lit: true}
	s.AllocateGlobal("add", fn)

	caller := &fakeCaller{result: value.NewInteger(42)}
	got := evalString(t, "(1) add (2, 3)", s, caller)
	if got.String() != "42" {
		t.Errorf("got %q, want %q", got.String(), "42")
	}
	if len(caller.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(caller.calls))
	}
	c := caller.calls[0]
	if len(c.left) != 1 || c.left[0].String() != "1" {
		t.Errorf("left args = %v, want [1]", c.left)
	}
	if len(c.right) != 2 || c.right[0].String() != "2" || c.right[1].String() != "3" {
		t.Errorf("right args = %v, want [2 3]", c.right)
	}
}

func TestBuildOneSidedCallOnRightOnly(t *testing.T) {
	s := value.NewScope()
	fn := &value.Function{Name: "greet", Lit: true}
	s.AllocateGlobal("greet", fn)

	caller := &fakeCaller{result: value.VoidValue}
	evalString(t, "greet(\"hi\")", s, caller)
	if len(caller.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(caller.calls))
	}
	if caller.calls[0].left != nil {
		t.Errorf("left args = %v, want nil", caller.calls[0].left)
	}
	if len(caller.calls[0].right) != 1 || caller.calls[0].right[0].String() != "hi" {
		t.Errorf("right args = %v, want [hi]", caller.calls[0].right)
	}
}

func TestBuildBareFunctionNameResolutionTriggersZeroArgCall(t *testing.T) {
	s := value.NewScope()
	fn := &value.Function{Name: "thunk", Lit: true}
	s.AllocateGlobal("thunk", fn)

	caller := &fakeCaller{result: value.NewInteger(9)}
	got := evalString(t, "thunk", s, caller)
	if got.String() != "9" {
		t.Errorf("got %q, want %q", got.String(), "9")
	}
	if len(caller.calls) != 1 {
		t.Fatalf("expected the bare name to auto-invoke, got %d calls", len(caller.calls))
	}
}

func TestBuildAtMarkerSuppressesAutoInvoke(t *testing.T) {
	s := value.NewScope()
	fn := &value.Function{Name: "thunk", Lit: true}
	s.AllocateGlobal("thunk", fn)

	caller := &fakeCaller{}
	got := evalString(t, "@thunk", s, caller)
	if got.TypeName() != value.KindFunction {
		t.Errorf("got kind %s, want function", got.TypeName())
	}
	if len(caller.calls) != 0 {
		t.Errorf("expected @ to suppress the call, got %d calls", len(caller.calls))
	}
}

func TestBuildUnbalancedParensIsSyntaxError(t *testing.T) {
	toks, _ := lexer.Tokenize("(1 + 2")
	if _, err := Build(toks); err == nil {
		t.Fatal("expected a syntax error for unbalanced parentheses")
	}
}

func TestBuildTopLevelCommaIsSyntaxError(t *testing.T) {
	toks, _ := lexer.Tokenize("1, 2")
	if _, err := Build(toks); err == nil {
		t.Fatal("expected a syntax error for a bare top-level comma")
	}
}

func TestBuildUndefinedNameIsRuntimeError(t *testing.T) {
	s := value.NewScope()
	toks, _ := lexer.Tokenize("missing + 1")
	node, err := Build(toks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := node.Eval(&Context{Scope: s, Calls: &fakeCaller{}}); err == nil {
		t.Fatal("expected an error resolving an undefined name")
	}
}

func TestBuildTupleIndexingViaCall(t *testing.T) {
	s := value.NewScope()
	s.Allocate("t", value.NewTuple([]value.Value{value.NewInteger(10), value.NewString("hi")}))

	got := evalString(t, "t (1)", s, &fakeCaller{})
	if got.TypeName() != value.KindString || got.String() != "hi" {
		t.Errorf("got %v, want string \"hi\"", got)
	}

	got = evalString(t, "(0) t", s, &fakeCaller{})
	if got.TypeName() != value.KindInteger || got.String() != "10" {
		t.Errorf("got %v, want int 10", got)
	}
}

func TestBuildTupleIndexingOutOfRangeIsRuntimeError(t *testing.T) {
	s := value.NewScope()
	s.Allocate("t", value.NewTuple([]value.Value{value.NewInteger(10)}))
	toks, _ := lexer.Tokenize("t (5)")
	node, err := Build(toks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := node.Eval(&Context{Scope: s, Calls: &fakeCaller{}}); err == nil {
		t.Fatal("expected an error indexing a tuple out of range")
	}
}

func TestBuildLongAndDoubleLiteralSuffixes(t *testing.T) {
	got := evalString(t, "1l + 2", value.NewScope(), &fakeCaller{})
	if got.TypeName() != value.KindLong {
		t.Errorf("got kind %s, want long", got.TypeName())
	}

	got = evalString(t, "1.5 + 1", value.NewScope(), &fakeCaller{})
	if got.TypeName() != value.KindDouble {
		t.Errorf("got kind %s, want double", got.TypeName())
	}
}
