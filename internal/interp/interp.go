// Package interp implements the top-level driver and block executors of
// §4.6/§4.7: the uniform {Normal, Return, Break, Continue} end-condition
// contract, the If-chain/Loop/For/Try/Function executors, and the line
// walker that dispatches on a Line's cached Classification.
//
// Phoenix walks cached source Lines instead of a separate AST tree — the
// line cache (internal/source) already did the "parse once" work, so this
// package's job is purely iterate-and-dispatch plus the five compound-
// statement executors of §4.6.
package interp

import (
	"fmt"
	"io"

	"github.com/jscheiny/Phoenix-sub000/internal/exprtree"
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/source"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// Kind is the end-condition an executor or the top-level driver returns
// after running a range of lines (§4.6's uniform contract).
type Kind int

const (
	EndNormal Kind = iota
	EndBreak
	EndContinue
	EndReturn
)

// End is the return value of every executor and of RunRange: the reason
// execution stopped, plus the return value when Kind is EndReturn.
type End struct {
	Kind  Kind
	Value value.Value
}

// Tracer is the extensibility hook behind the CLI's --trace flag (§4 of
// SPEC_FULL.md): when set, the driver reports each line dispatch and
// each function call/return.
type Tracer interface {
	Line(path string, line int)
	Call(name string, callSite int)
	Return(name string)
}

// Interpreter owns the single Scope table of one top-level interpretation.
// The function-call trace is not held here: it travels on each
// perrors.Error as the error unwinds. It implements
// exprtree.Caller so the expression evaluator can invoke Function values
// without depending on this package.
type Interpreter struct {
	Src    *source.Source
	Scope  *value.Scope
	Out    io.Writer
	curLine int
	tracer Tracer
}

// New builds an Interpreter over src, writing print output to out, with a
// fresh global scope pre-populated with the minimal builtins of
// SPEC_FULL.md §4 (error, len, typeof).
func New(src *source.Source, out io.Writer) *Interpreter {
	ip := &Interpreter{Src: src, Scope: value.NewScope(), Out: out}
	registerBuiltins(ip.Scope)
	return ip
}

// SetTracer installs a Tracer; pass nil to disable tracing.
func (ip *Interpreter) SetTracer(t Tracer) { ip.tracer = t }

// ctx bundles the current Scope and this Interpreter (as Caller) for
// expression evaluation.
func (ip *Interpreter) ctx() *exprtree.Context {
	return &exprtree.Context{Scope: ip.Scope, Calls: ip}
}

// RunProgram runs the whole source from its first line to its last
// (§4.7), converting a Break/Continue/Return that escapes every loop and
// function into the SyntaxError §4.7 requires at that boundary.
func (ip *Interpreter) RunProgram() *perrors.Error {
	end, err := ip.RunRange(0, len(ip.Src.Lines)-1)
	if err != nil {
		return ip.errAt(ip.curLine, err)
	}
	switch end.Kind {
	case EndBreak, EndContinue:
		return ip.errAt(ip.curLine, perrors.New(perrors.Syntax, "break/continue outside of a loop"))
	case EndReturn:
		return ip.errAt(ip.curLine, perrors.New(perrors.Syntax, "return outside of a function"))
	}
	return nil
}

// errAt wraps err as a *perrors.Error and seeds its source-line site with
// idx if no site has been recorded yet. WithSite is idempotent-first, so
// the innermost call (closest to where the error actually occurred) wins
// even though every enclosing RunRange also calls errAt on its own line.
func (ip *Interpreter) errAt(idx int, err error) *perrors.Error {
	pe, ok := err.(*perrors.Error)
	if !ok {
		pe = perrors.New(perrors.Generic, "%s", err.Error())
	}
	return pe.WithSite(ip.Src.Path, idx+1)
}

// RunRange walks src.Lines[start..end] inclusive, the shared machinery
// behind both the top-level driver and every block executor's body (§4.7):
// classify-on-first-visit, reject an unjustified indent increase, dispatch
// by Classification, and stop at the first non-Normal end condition.
func (ip *Interpreter) RunRange(start, end int) (End, error) {
	prevIndent := ""
	first := true
	idx := start
	for idx <= end {
		line := ip.Src.Line(idx)
		if line == nil || line.Empty() {
			idx++
			continue
		}
		if !first && source.IndentGreater(line.Indent, prevIndent) {
			return End{}, ip.errAt(idx, perrors.New(perrors.Indent, "Unexpected indented block"))
		}
		prevIndent = line.Indent
		first = false

		ip.curLine = idx
		if ip.tracer != nil {
			ip.tracer.Line(ip.Src.Path, idx+1)
		}
		l, cerr := ip.Src.GetOrClassify(idx)
		if cerr != nil {
			return End{}, ip.errAt(idx, cerr)
		}
		e, next, err := ip.execLine(idx, l)
		if err != nil {
			return End{}, ip.errAt(idx, err)
		}
		if e.Kind != EndNormal {
			return e, nil
		}
		idx = next
	}
	return End{Kind: EndNormal}, nil
}

// execLine dispatches one classified line to its executor, returning the
// end condition and (for Normal) the next line index to resume at.
func (ip *Interpreter) execLine(idx int, l *source.Line) (End, int, error) {
	switch l.Stmt {
	case source.Empty:
		return End{Kind: EndNormal}, l.ContinuationIndex, nil
	case source.BreakStmt:
		return End{Kind: EndBreak}, 0, nil
	case source.ContinueStmt:
		return End{Kind: EndContinue}, 0, nil
	case source.ReturnStmt:
		p := l.Payload.(*source.ReturnPayload)
		var v value.Value
		if p.Expr != nil {
			val, err := p.Expr.Eval(ip.ctx())
			if err != nil {
				return End{}, 0, err
			}
			v = val
		}
		return End{Kind: EndReturn, Value: v}, 0, nil
	case source.PrintStmt:
		p := l.Payload.(*source.PrintPayload)
		if p.Expr == nil {
			fmt.Fprintln(ip.Out)
			return End{Kind: EndNormal}, l.ContinuationIndex, nil
		}
		v, err := p.Expr.Eval(ip.ctx())
		if err != nil {
			return End{}, 0, err
		}
		fmt.Fprintln(ip.Out, value.Stringify(v))
		return End{Kind: EndNormal}, l.ContinuationIndex, nil
	case source.InitStmt:
		if err := ip.execInit(l.Payload.(*source.InitPayload)); err != nil {
			return End{}, 0, err
		}
		return End{Kind: EndNormal}, l.ContinuationIndex, nil
	case source.FunctionStmt:
		p := l.Payload.(*source.FunctionPayload)
		p.Fn.Closure = ip.Scope
		ip.Scope.AllocateGlobal(p.Name, p.Fn)
		return End{Kind: EndNormal}, l.ContinuationIndex, nil
	case source.ParseStmt:
		p := l.Payload.(*source.ParsePayload)
		if _, err := p.Expr.Eval(ip.ctx()); err != nil {
			return End{}, 0, err
		}
		return End{Kind: EndNormal}, l.ContinuationIndex, nil
	case source.IfStmt:
		e, err := ip.execIf(l.Payload.(*source.IfPayload))
		return e, l.ContinuationIndex, err
	case source.LoopStmt:
		e, err := ip.execLoop(l.Payload.(*source.LoopPayload))
		return e, l.ContinuationIndex, err
	case source.ForStmt:
		e, err := ip.execFor(l.Payload.(*source.ForPayload))
		return e, l.ContinuationIndex, err
	case source.TryStmt:
		e, err := ip.execTry(l.Payload.(*source.TryPayload))
		return e, l.ContinuationIndex, err
	}
	return End{Kind: EndNormal}, l.ContinuationIndex, nil
}

// execInit runs a `<type> <name> = <expr>` line (§4.5 Initialization):
// evaluate the right-hand side, require its runtime type to equal the
// declared type exactly, then bind it into the current frame. Allocate
// re-executing this line (a loop body re-running its own declarations)
// simply overwrites the existing binding rather than raising a duplicate-
// declaration error — see DESIGN.md's Open Question decision.
func (ip *Interpreter) execInit(p *source.InitPayload) error {
	v, err := p.Expr.Eval(ip.ctx())
	if err != nil {
		return err
	}
	got := value.Deref(v).TypeName()
	if got != p.Type {
		return ip.initTypeError(p.Type, p.Name, got)
	}
	ip.Scope.Allocate(p.Name, v)
	return nil
}

// initTypeError builds the Syntax error for a declared-type/value-type
// mismatch, shared by Initialization (execInit) and for-loop init.
func (ip *Interpreter) initTypeError(declared, name, got string) *perrors.Error {
	return perrors.New(perrors.Syntax, "cannot initialize %s %s with value of type %s", declared, name, got)
}

// evalBool evaluates n and requires the result to be a Boolean, the
// shared predicate-checking rule of If/Loop/For (§4.6: "must be of kind
// Boolean (else SyntaxError)").
func (ip *Interpreter) evalBool(n exprtree.Node) (bool, error) {
	v, err := n.Eval(ip.ctx())
	if err != nil {
		return false, err
	}
	b, ok := value.Deref(v).(*value.Boolean)
	if !ok {
		return false, perrors.New(perrors.Syntax, "condition must be boolean, got %s", v.TypeName())
	}
	return b.V, nil
}
