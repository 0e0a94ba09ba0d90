package interp

import (
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/source"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// NativeFunc marks a value.Function whose Body is implemented in Go
// rather than compiled from a source range — the shape the minimal
// error/len/typeof builtins of SPEC_FULL.md §4 use, registering a native
// Go function as a callable Value in the global environment.
type NativeFunc struct {
	Fn func(ip *Interpreter, left, right []value.Value) (value.Value, error)
}

// Call implements exprtree.Caller (§4.3, §4.6 Function): validates the
// passed left/right argument lists against fn's declared parameter lists,
// detaches a fresh scope table from the function's declaration-site
// globals, binds parameters, and interprets the body.
func (ip *Interpreter) Call(fn *value.Function, left, right []value.Value) (value.Value, error) {
	if nf, ok := fn.Body.(*NativeFunc); ok {
		return nf.Fn(ip, left, right)
	}

	body, ok := fn.Body.(*source.FuncBody)
	if !ok {
		return nil, perrors.New(perrors.Syntax, "function %s has no body", fn.Name)
	}

	declScope, _ := fn.Closure.(*value.Scope)
	if declScope == nil {
		declScope = ip.Scope
	}
	callScope := declScope.DetachGlobal()
	callScope.PushFrame()

	if err := bindSide(callScope, fn.Left, left); err != nil {
		return nil, err
	}
	if err := bindSide(callScope, fn.Right, right); err != nil {
		return nil, err
	}

	callSiteLine := ip.curLine
	if ip.tracer != nil {
		ip.tracer.Call(fn.Name, callSiteLine+1)
	}

	savedScope := ip.Scope
	ip.Scope = callScope
	e, err := ip.RunRange(body.BodyStart, body.BodyEnd)
	ip.Scope, ip.curLine = savedScope, callSiteLine

	if ip.tracer != nil {
		ip.tracer.Return(fn.Name)
	}

	if err != nil {
		if pe, ok := err.(*perrors.Error); ok {
			return nil, pe.WithCallFrame(fn.Name, ip.Src.Path, callSiteLine+1)
		}
		return nil, err
	}
	return ip.finishCall(fn, e)
}

// finishCall applies the Function body-end policy of §4.6 to the end
// condition the body produced.
func (ip *Interpreter) finishCall(fn *value.Function, e End) (value.Value, error) {
	switch e.Kind {
	case EndBreak, EndContinue:
		return nil, perrors.New(perrors.Syntax, "break/continue cannot escape a function body")
	case EndReturn:
		if fn.ReturnType == "" {
			if e.Value != nil {
				return nil, perrors.New(perrors.Syntax, "Function expected to return void but returned %s", e.Value.TypeName())
			}
			return value.VoidValue, nil
		}
		if e.Value == nil {
			return nil, perrors.New(perrors.Syntax, "Function expected to return %s but returned nothing", fn.ReturnType)
		}
		if e.Value.TypeName() != fn.ReturnType {
			return nil, perrors.New(perrors.Syntax, "Function expected to return %s but returned %s", fn.ReturnType, e.Value.TypeName())
		}
		return e.Value, nil
	default: // Normal: fell off the end of the body
		if fn.ReturnType != "" {
			return nil, perrors.New(perrors.Syntax, "function %s must return a value of type %s", fn.Name, fn.ReturnType)
		}
		return value.VoidValue, nil
	}
}

// bindSide validates and binds one side (left or right) of a call's
// argument list against its declared parameter list (§4.6 Function):
// arity must match; a single-parameter side rejects a Tuple argument; a
// multi-parameter side accepts either one already-built Tuple of matching
// arity (e.g. a variable holding a tuple value) or that many separately
// evaluated arguments (the call-site form `(a, b)` naturally produces),
// matching element-for-element by declared type.
func bindSide(scope *value.Scope, params []value.Param, args []value.Value) error {
	switch len(params) {
	case 0:
		if len(args) != 0 {
			return perrors.New(perrors.Parameters, "expected no arguments, got %d", len(args))
		}
		return nil
	case 1:
		if len(args) != 1 {
			return perrors.New(perrors.Parameters, "expected 1 argument, got %d", len(args))
		}
		arg := args[0]
		if _, isTuple := value.Deref(arg).(*value.Tuple); isTuple {
			return perrors.New(perrors.Parameters, "parameter %s does not accept a tuple", params[0].Name)
		}
		if arg.TypeName() != params[0].Type {
			return perrors.New(perrors.Parameters, "parameter %s expected %s, got %s", params[0].Name, params[0].Type, arg.TypeName())
		}
		scope.Allocate(params[0].Name, &value.Reference{Referent: arg})
		return nil
	default:
		elems := args
		if len(args) == 1 {
			if tup, ok := value.Deref(args[0]).(*value.Tuple); ok {
				elems = tup.Elems
			}
		}
		if len(elems) != len(params) {
			return perrors.New(perrors.Parameters, "expected %d arguments, got %d", len(params), len(elems))
		}
		for i, p := range params {
			if elems[i].TypeName() != p.Type {
				return perrors.New(perrors.Parameters, "parameter %s expected %s, got %s", p.Name, p.Type, elems[i].TypeName())
			}
			scope.Allocate(p.Name, &value.Reference{Referent: elems[i]})
		}
		return nil
	}
}
