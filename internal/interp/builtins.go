package interp

import (
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// registerBuiltins binds the minimal native functions of SPEC_FULL.md §4
// into the global frame: error(message), len(collection), typeof(value).
// These are the only "built-in function bindings" the core carries,
// because without them Array/Tuple/Type values and try/catch would have
// no way to be observed or exercised from Phoenix source at all (§1
// excludes the full math/IO library as a collaborator concern).
func registerBuiltins(scope *value.Scope) {
	scope.AllocateGlobal("error", nativeFunc("error", []value.Param{{Type: value.KindString, Name: "message"}}, builtinError))
	scope.AllocateGlobal("len", nativeFunc("len", []value.Param{{Name: "x"}}, builtinLen))
	scope.AllocateGlobal("typeof", nativeFunc("typeof", []value.Param{{Name: "x"}}, builtinTypeof))
}

func nativeFunc(name string, right []value.Param, fn func(ip *Interpreter, left, right []value.Value) (value.Value, error)) *value.Function {
	return &value.Function{
		Name:  name,
		Right: right,
		Body:  &NativeFunc{Fn: fn},
		Lit:   true,
	}
}

// builtinError raises a user-level runtime error carrying message,
// giving try/catch something concrete to catch beyond division by zero.
func builtinError(_ *Interpreter, _ []value.Value, right []value.Value) (value.Value, error) {
	if len(right) != 1 {
		return nil, perrors.New(perrors.Parameters, "error expects 1 argument, got %d", len(right))
	}
	s, ok := value.Deref(right[0]).(*value.String)
	if !ok {
		return nil, perrors.New(perrors.Parameters, "error expects a str argument, got %s", right[0].TypeName())
	}
	return nil, perrors.New(perrors.Generic, "%s", s.V)
}

// builtinLen reports the element count of an Array, Tuple, or String.
func builtinLen(_ *Interpreter, _ []value.Value, right []value.Value) (value.Value, error) {
	if len(right) != 1 {
		return nil, perrors.New(perrors.Parameters, "len expects 1 argument, got %d", len(right))
	}
	switch v := value.Deref(right[0]).(type) {
	case *value.Array:
		return value.NewInteger(int32(len(v.Elems))), nil
	case *value.Tuple:
		return value.NewInteger(int32(len(v.Elems))), nil
	case *value.String:
		return value.NewInteger(int32(len([]rune(v.V)))), nil
	default:
		return nil, perrors.New(perrors.Parameters, "len does not accept %s", right[0].TypeName())
	}
}

// builtinTypeof returns the runtime type name of a value as a Type value.
func builtinTypeof(_ *Interpreter, _ []value.Value, right []value.Value) (value.Value, error) {
	if len(right) != 1 {
		return nil, perrors.New(perrors.Parameters, "typeof expects 1 argument, got %d", len(right))
	}
	return value.NewType(value.Deref(right[0]).TypeName()), nil
}
