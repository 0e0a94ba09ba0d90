package interp

import (
	"github.com/jscheiny/Phoenix-sub000/internal/source"
)

// execIf runs the If-chain executor of §4.6: evaluate each branch's
// predicate in declaration order, run the first whose predicate is true,
// falling back to the else body if present. The sub-executor's end
// condition is propagated verbatim.
func (ip *Interpreter) execIf(p *source.IfPayload) (End, error) {
	for _, br := range p.Branches {
		ok, err := ip.evalBool(br.Cond)
		if err != nil {
			return End{}, err
		}
		if ok {
			return ip.RunRange(br.BodyStart, br.BodyEnd)
		}
	}
	if p.ElseStart != -1 {
		return ip.RunRange(p.ElseStart, p.ElseEnd)
	}
	return End{Kind: EndNormal}, nil
}

// execLoop runs the Loop executor of §4.6, shared by while/until/
// do-while/do-until: BeginChecked selects when the predicate is tested,
// EndValue is the predicate value that stops the loop. A Break inside the
// body becomes the loop's own Normal; Continue is swallowed; Return
// propagates. Otherwise runs only if a begin-checked loop never executes
// its body at all.
func (ip *Interpreter) execLoop(p *source.LoopPayload) (End, error) {
	executed := false
	for {
		if p.BeginChecked {
			v, err := ip.evalBool(p.Cond)
			if err != nil {
				return End{}, err
			}
			if v == p.EndValue {
				break
			}
		}
		executed = true
		e, err := ip.RunRange(p.BodyStart, p.BodyEnd)
		if err != nil {
			return End{}, err
		}
		switch e.Kind {
		case EndBreak:
			return End{Kind: EndNormal}, nil
		case EndReturn:
			return e, nil
		}
		if !p.BeginChecked {
			v, err := ip.evalBool(p.Cond)
			if err != nil {
				return End{}, err
			}
			if v == p.EndValue {
				break
			}
		}
	}
	if p.BeginChecked && !executed && p.OtherwiseStart != -1 {
		return ip.RunRange(p.OtherwiseStart, p.OtherwiseEnd)
	}
	return End{Kind: EndNormal}, nil
}

// execFor runs the For executor of §4.6: push a fresh scope, run the
// initialization once, then delegate to the begin-checked Loop contract
// with Step as the end-of-iteration hook, popping the scope on any exit.
func (ip *Interpreter) execFor(p *source.ForPayload) (End, error) {
	ip.Scope.PushFrame()
	defer ip.Scope.PopFrame()

	if p.InitIsDecl {
		v, err := p.InitExpr.Eval(ip.ctx())
		if err != nil {
			return End{}, err
		}
		got := v.TypeName()
		if got != p.InitType {
			return End{}, ip.initTypeError(p.InitType, p.InitName, got)
		}
		ip.Scope.Allocate(p.InitName, v)
	} else if _, err := p.InitExpr.Eval(ip.ctx()); err != nil {
		return End{}, err
	}

	executed := false
	for {
		v, err := ip.evalBool(p.Cond)
		if err != nil {
			return End{}, err
		}
		if !v {
			break
		}
		executed = true
		e, err := ip.RunRange(p.BodyStart, p.BodyEnd)
		if err != nil {
			return End{}, err
		}
		switch e.Kind {
		case EndBreak:
			return End{Kind: EndNormal}, nil
		case EndReturn:
			return e, nil
		}
		if _, err := p.Step.Eval(ip.ctx()); err != nil {
			return End{}, err
		}
	}
	if !executed && p.OtherwiseStart != -1 {
		return ip.RunRange(p.OtherwiseStart, p.OtherwiseEnd)
	}
	return End{Kind: EndNormal}, nil
}

// execTry runs the Try/Catch executor of §4.6: the catch body only runs
// if the try body raises a PhoenixRuntimeError (every error this
// interpreter produces); the end condition is whichever body completed.
func (ip *Interpreter) execTry(p *source.TryPayload) (End, error) {
	e, err := ip.RunRange(p.BodyStart, p.BodyEnd)
	if err == nil {
		return e, nil
	}
	return ip.RunRange(p.CatchStart, p.CatchEnd)
}
