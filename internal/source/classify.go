package source

import (
	"github.com/jscheiny/Phoenix-sub000/internal/exprtree"
	"github.com/jscheiny/Phoenix-sub000/internal/lexer"
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// Classification is the statement kind a line settles into on first
// visit (§4.5's table), cached on the Line forever after.
type Classification int

const (
	Undefined Classification = iota
	Empty
	TryStmt
	IfStmt
	LoopStmt
	ForStmt
	BreakStmt
	ContinueStmt
	ReturnStmt
	FunctionStmt
	InitStmt
	PrintStmt
	ParseStmt
)

// IfBranch is one predicate/body pair of an If-chain (§4.5/§4.6).
type IfBranch struct {
	Cond               exprtree.Node
	BodyStart, BodyEnd int
}

// IfPayload is the compiled payload of an If-classified line.
type IfPayload struct {
	Branches          []IfBranch
	ElseStart, ElseEnd int // -1, -1 if no else clause
}

// LoopPayload is the compiled payload of a While/Until/Do-while/Do-until
// line (§4.5/§4.6): a single shape parameterized by when the predicate is
// checked and which boolean value of it ends the loop.
type LoopPayload struct {
	Cond                         exprtree.Node
	BeginChecked                 bool
	EndValue                     bool
	BodyStart, BodyEnd           int
	OtherwiseStart, OtherwiseEnd int // -1, -1 if absent
}

// ForPayload is the compiled payload of a For-classified line (§4.5/§4.6).
type ForPayload struct {
	InitIsDecl                   bool
	InitType, InitName           string
	InitExpr                     exprtree.Node
	Cond                         exprtree.Node
	Step                         exprtree.Node
	BodyStart, BodyEnd           int
	OtherwiseStart, OtherwiseEnd int
}

// TryPayload is the compiled payload of a Try-classified line.
type TryPayload struct {
	BodyStart, BodyEnd   int
	CatchStart, CatchEnd int
}

// ReturnPayload, PrintPayload hold an optional expression (nil if bare).
type ReturnPayload struct{ Expr exprtree.Node }
type PrintPayload struct{ Expr exprtree.Node }

// InitPayload is the compiled payload of a `<type> <name> = <expr>` line.
type InitPayload struct {
	Type, Name string
	Expr       exprtree.Node
}

// ParsePayload is the compiled payload of any line that is just a plain
// expression statement (assignment, bare call, …).
type ParsePayload struct{ Expr exprtree.Node }

// FuncBody is the opaque body-range payload stored in value.Function.Body
// (which is typed `any` precisely so the value package need not import
// source — §9's cycle-breaking note).
type FuncBody struct {
	BodyStart, BodyEnd int
}

// FunctionPayload is the compiled payload of a Function-classified line.
type FunctionPayload struct {
	Name string
	Fn   *value.Function
}

var orphanKeywords = map[string]bool{
	"else": true, "otherwise": true, "catch": true, "case": true, "default": true,
}

// GetOrClassify returns the classification/payload for src.Lines[idx],
// classifying it on first visit and caching a setup error so a faulty
// line that is never executed never raises (§4.5, §7).
func (s *Source) GetOrClassify(idx int) (*Line, error) {
	line := s.Lines[idx]
	if line.SetupErr != nil {
		return line, line.SetupErr
	}
	if line.Stmt != Undefined {
		return line, nil
	}
	if err := s.classify(idx); err != nil {
		pe, ok := err.(*perrors.Error)
		if !ok {
			pe = perrors.New(perrors.Syntax, "%s", err.Error())
		}
		line.SetupErr = pe
		return line, pe
	}
	return line, nil
}

func (s *Source) classify(idx int) error {
	line := s.Lines[idx]
	if line.Empty() {
		line.Stmt = Empty
		line.ContinuationIndex = idx + 1
		return nil
	}
	toks, err := line.Tokens()
	if err != nil {
		return perrors.New(perrors.Syntax, "%s", err.Error())
	}
	if len(toks) == 0 {
		line.Stmt = Empty
		line.ContinuationIndex = idx + 1
		return nil
	}

	first := toks[0]
	if first.Kind == lexer.Word && orphanKeywords[first.Text] {
		return perrors.New(perrors.Syntax, "%s outside its parent compound statement", first.Text)
	}

	switch {
	case first.Kind == lexer.Word && first.Text == "try":
		return s.classifyTry(idx, toks)
	case first.Kind == lexer.Word && first.Text == "if":
		return s.classifyIf(idx, toks)
	case first.Kind == lexer.Word && first.Text == "do":
		return s.classifyDo(idx, toks)
	case first.Kind == lexer.Word && first.Text == "while":
		return s.classifyLoop(idx, toks, true, false)
	case first.Kind == lexer.Word && first.Text == "until":
		return s.classifyLoop(idx, toks, true, true)
	case first.Kind == lexer.Word && first.Text == "for":
		return s.classifyFor(idx, toks)
	case first.Kind == lexer.Word && first.Text == "break":
		return classifySimpleKeyword(line, idx, toks, BreakStmt)
	case first.Kind == lexer.Word && first.Text == "continue":
		return classifySimpleKeyword(line, idx, toks, ContinueStmt)
	case first.Kind == lexer.Word && first.Text == "return":
		return classifyReturn(line, idx, toks)
	case first.Kind == lexer.Word && first.Text == "print":
		return classifyPrint(line, idx, toks)
	case first.Kind == lexer.Word && first.Text == "function":
		return s.classifyFunction(idx, toks)
	case isTypeStart(first):
		return classifyInit(line, idx, toks)
	default:
		expr, err := exprtree.Build(toks)
		if err != nil {
			return err
		}
		line.Stmt = ParseStmt
		line.Payload = &ParsePayload{Expr: expr}
		line.ContinuationIndex = idx + 1
		return nil
	}
}

func classifySimpleKeyword(line *Line, idx int, toks []lexer.Token, kind Classification) error {
	if len(toks) != 1 {
		return perrors.New(perrors.Syntax, "unexpected tokens after %s", toks[0].Text)
	}
	line.Stmt = kind
	line.ContinuationIndex = idx + 1
	return nil
}

func classifyReturn(line *Line, idx int, toks []lexer.Token) error {
	var expr exprtree.Node
	if len(toks) > 1 {
		e, err := exprtree.Build(toks[1:])
		if err != nil {
			return err
		}
		expr = e
	}
	line.Stmt = ReturnStmt
	line.Payload = &ReturnPayload{Expr: expr}
	line.ContinuationIndex = idx + 1
	return nil
}

func classifyPrint(line *Line, idx int, toks []lexer.Token) error {
	var expr exprtree.Node
	if len(toks) > 1 {
		e, err := exprtree.Build(toks[1:])
		if err != nil {
			return err
		}
		expr = e
	}
	line.Stmt = PrintStmt
	line.Payload = &PrintPayload{Expr: expr}
	line.ContinuationIndex = idx + 1
	return nil
}

func isTypeStart(t lexer.Token) bool {
	if t.Is("[") {
		return true
	}
	return t.Kind == lexer.Word && isTypeWord(t.Text)
}

func isTypeWord(s string) bool {
	switch s {
	case value.KindInteger, value.KindLong, value.KindDouble, value.KindString,
		value.KindBoolean, value.KindTuple, value.KindType, value.KindFunction, value.KindVoid:
		return true
	}
	return false
}

// parseTypeTokens greedily parses a (possibly bracket-nested) type name
// starting at pos, per §6's "Array type syntax: `[` inner-type `]`,
// nestable."
func parseTypeTokens(toks []lexer.Token, pos int) (string, int, error) {
	if pos >= len(toks) {
		return "", pos, perrors.New(perrors.Syntax, "expected type name")
	}
	t := toks[pos]
	if t.Is("[") {
		inner, next, err := parseTypeTokens(toks, pos+1)
		if err != nil {
			return "", pos, err
		}
		if next >= len(toks) || !toks[next].Is("]") {
			return "", pos, perrors.New(perrors.Syntax, "expected ']' in type name")
		}
		return "[" + inner + "]", next + 1, nil
	}
	if t.Kind == lexer.Word && isTypeWord(t.Text) {
		return t.Text, pos + 1, nil
	}
	return "", pos, perrors.New(perrors.Syntax, "expected type name")
}

func classifyInit(line *Line, idx int, toks []lexer.Token) error {
	typeName, pos, err := parseTypeTokens(toks, 0)
	if err != nil {
		return err
	}
	if pos >= len(toks) || toks[pos].Kind != lexer.Word || !value.ValidName(toks[pos].Text) {
		return perrors.New(perrors.Syntax, "expected variable name after type %s", typeName)
	}
	name := toks[pos].Text
	pos++
	if pos >= len(toks) || !toks[pos].Is("=") {
		return perrors.New(perrors.Syntax, "expected '=' in initialization of %s", name)
	}
	pos++
	if pos >= len(toks) {
		return perrors.New(perrors.Syntax, "expected expression after '='")
	}
	expr, err := exprtree.Build(toks[pos:])
	if err != nil {
		return err
	}
	line.Stmt = InitStmt
	line.Payload = &InitPayload{Type: typeName, Name: name, Expr: expr}
	line.ContinuationIndex = idx + 1
	return nil
}

// findParenClose finds the index of the "(" at openIdx's matching ")",
// tracking nested "[" types so `function void ([int] xs) f:` parses.
func findParenClose(toks []lexer.Token, openIdx int) (int, error) {
	depth := 0
	for i := openIdx; i < len(toks); i++ {
		switch {
		case toks[i].Is("(") || toks[i].Is("["):
			depth++
		case toks[i].Is(")") || toks[i].Is("]"):
			depth--
			if depth == 0 {
				return i, nil
			}
			if depth < 0 {
				return -1, perrors.New(perrors.Syntax, "unbalanced parentheses")
			}
		}
	}
	return -1, perrors.New(perrors.Syntax, "unterminated parameter list")
}

// splitParamCommas splits a parameter-list token range on top-level
// commas (depth tracked over "[" "]" only — params never nest "(").
func splitParamCommas(toks []lexer.Token) [][]lexer.Token {
	if len(toks) == 0 {
		return nil
	}
	var segs [][]lexer.Token
	depth, start := 0, 0
	for i, t := range toks {
		switch {
		case t.Is("["):
			depth++
		case t.Is("]"):
			depth--
		case t.Is(",") && depth == 0:
			segs = append(segs, toks[start:i])
			start = i + 1
		}
	}
	segs = append(segs, toks[start:])
	return segs
}

func parseParamList(toks []lexer.Token) ([]value.Param, error) {
	segs := splitParamCommas(toks)
	params := make([]value.Param, 0, len(segs))
	for _, seg := range segs {
		typeName, pos, err := parseTypeTokens(seg, 0)
		if err != nil {
			return nil, err
		}
		if pos >= len(seg) || seg[pos].Kind != lexer.Word || !value.ValidName(seg[pos].Text) {
			return nil, perrors.New(perrors.Syntax, "expected parameter name after type %s", typeName)
		}
		name := seg[pos].Text
		pos++
		if pos != len(seg) {
			return nil, perrors.New(perrors.Syntax, "unexpected tokens in parameter list")
		}
		params = append(params, value.Param{Type: typeName, Name: name})
	}
	return params, nil
}

// parseArgList parses an optional "(" ... ")" argument-declaration list
// starting at pos. Returns nil params and pos unchanged if none present.
func parseArgList(toks []lexer.Token, pos int) ([]value.Param, int, error) {
	if pos >= len(toks) || !toks[pos].Is("(") {
		return nil, pos, nil
	}
	closeIdx, err := findParenClose(toks, pos)
	if err != nil {
		return nil, pos, err
	}
	params, err := parseParamList(toks[pos+1 : closeIdx])
	if err != nil {
		return nil, pos, err
	}
	return params, closeIdx + 1, nil
}

// classifyFunction parses `function [<ret-type>] [(<args>)] <name>
// [(<args>)] :` (§4.5) and resolves the function body to the block
// immediately following the header (§4.6).
func (s *Source) classifyFunction(idx int, toks []lexer.Token) error {
	if len(toks) < 2 || !toks[len(toks)-1].Is(":") {
		return perrors.New(perrors.Syntax, "expected ':' to end function header")
	}
	seq := toks[1 : len(toks)-1]
	pos := 0
	retType := ""
	if pos < len(seq) && (seq[pos].Is("[") || (seq[pos].Kind == lexer.Word && isTypeWord(seq[pos].Text))) {
		rt, next, err := parseTypeTokens(seq, pos)
		if err != nil {
			return err
		}
		retType, pos = rt, next
	}
	left, pos, err := parseArgList(seq, pos)
	if err != nil {
		return err
	}
	if pos >= len(seq) || seq[pos].Kind != lexer.Word || !value.ValidName(seq[pos].Text) {
		return perrors.New(perrors.Syntax, "expected function name")
	}
	name := seq[pos].Text
	pos++
	right, pos, err := parseArgList(seq, pos)
	if err != nil {
		return err
	}
	if pos != len(seq) {
		return perrors.New(perrors.Syntax, "unexpected tokens in function header")
	}

	bodyEnd := s.BlockEnd(idx)
	fn := &value.Function{
		Name:       name,
		ReturnType: retType,
		Left:       left,
		Right:      right,
		Body:       &FuncBody{BodyStart: idx + 1, BodyEnd: bodyEnd},
		Lit:        true,
	}
	line := s.Lines[idx]
	line.Stmt = FunctionStmt
	line.Payload = &FunctionPayload{Name: name, Fn: fn}
	line.ContinuationIndex = bodyEnd + 1
	return nil
}

// classifyIf parses `if <expr> :`, then greedily consumes sibling
// `else if <expr>:` lines and a trailing `else:` at the same indent
// (§4.5, §4.6).
func (s *Source) classifyIf(idx int, toks []lexer.Token) error {
	cond, bodyEnd, err := parseHeaderBlock(s, idx, toks, 1)
	if err != nil {
		return err
	}
	branches := []IfBranch{{Cond: cond, BodyStart: idx + 1, BodyEnd: bodyEnd}}
	indent := s.Lines[idx].Indent
	next := bodyEnd + 1
	elseStart, elseEnd := -1, -1
	for next < len(s.Lines) {
		nl := s.Lines[next]
		if nl.Indent != indent {
			break
		}
		ntoks, terr := nl.Tokens()
		if terr != nil || len(ntoks) == 0 {
			break
		}
		if ntoks[0].Kind == lexer.Word && ntoks[0].Text == "else" && len(ntoks) > 1 &&
			ntoks[1].Kind == lexer.Word && ntoks[1].Text == "if" {
			c, be, err2 := parseHeaderBlock(s, next, ntoks, 2)
			if err2 != nil {
				return err2
			}
			branches = append(branches, IfBranch{Cond: c, BodyStart: next + 1, BodyEnd: be})
			next = be + 1
			continue
		}
		if ntoks[0].Kind == lexer.Word && ntoks[0].Text == "else" {
			if len(ntoks) != 2 || !ntoks[1].Is(":") {
				return perrors.New(perrors.Syntax, "expected ':' after else")
			}
			elseStart = next + 1
			elseEnd = s.BlockEnd(next)
			next = elseEnd + 1
			break
		}
		break
	}
	line := s.Lines[idx]
	line.Stmt = IfStmt
	line.Payload = &IfPayload{Branches: branches, ElseStart: elseStart, ElseEnd: elseEnd}
	line.ContinuationIndex = next
	return nil
}

// parseHeaderBlock parses tokens[kwLen:] as a `<expr> :` header (skipping
// the kwLen leading keyword tokens already matched by the caller), then
// resolves its body block.
func parseHeaderBlock(s *Source, idx int, toks []lexer.Token, kwLen int) (exprtree.Node, int, error) {
	if len(toks) < kwLen+2 || !toks[len(toks)-1].Is(":") {
		return nil, 0, perrors.New(perrors.Syntax, "expected ':' to end header")
	}
	cond, err := exprtree.Build(toks[kwLen : len(toks)-1])
	if err != nil {
		return nil, 0, err
	}
	bodyEnd := s.BlockEnd(idx)
	return cond, bodyEnd, nil
}

// classifyLoop parses `while <expr>:` / `until <expr>:` (begin-checked),
// then an optional sibling `otherwise:` (§4.5).
func (s *Source) classifyLoop(idx int, toks []lexer.Token, beginChecked, endValue bool) error {
	cond, bodyEnd, err := parseHeaderBlock(s, idx, toks, 1)
	if err != nil {
		return err
	}
	otherwiseStart, otherwiseEnd, next := s.consumeOtherwise(idx, bodyEnd)
	line := s.Lines[idx]
	line.Stmt = LoopStmt
	line.Payload = &LoopPayload{
		Cond: cond, BeginChecked: beginChecked, EndValue: endValue,
		BodyStart: idx + 1, BodyEnd: bodyEnd,
		OtherwiseStart: otherwiseStart, OtherwiseEnd: otherwiseEnd,
	}
	line.ContinuationIndex = next
	return nil
}

// consumeOtherwise looks for a sibling `otherwise:` line at the same
// indent immediately after a block ending at bodyEnd.
func (s *Source) consumeOtherwise(headerIdx, bodyEnd int) (start, end, next int) {
	indent := s.Lines[headerIdx].Indent
	cand := bodyEnd + 1
	if cand >= len(s.Lines) || s.Lines[cand].Indent != indent {
		return -1, -1, bodyEnd + 1
	}
	ntoks, err := s.Lines[cand].Tokens()
	if err != nil || len(ntoks) != 2 || ntoks[0].Kind != lexer.Word || ntoks[0].Text != "otherwise" || !ntoks[1].Is(":") {
		return -1, -1, bodyEnd + 1
	}
	oe := s.BlockEnd(cand)
	return cand + 1, oe, oe + 1
}

// classifyDo parses `do :` then requires the sibling line right after the
// body to be `while <expr>:` or `until <expr>:` with no body of its own
// — the do-while/do-until tail predicate (§4.5).
func (s *Source) classifyDo(idx int, toks []lexer.Token) error {
	if len(toks) != 2 || !toks[1].Is(":") {
		return perrors.New(perrors.Syntax, "expected ':' after do")
	}
	bodyEnd := s.BlockEnd(idx)
	tailIdx := bodyEnd + 1
	if tailIdx >= len(s.Lines) {
		return perrors.New(perrors.Syntax, "do without matching while/until")
	}
	tail := s.Lines[tailIdx]
	ttoks, err := tail.Tokens()
	if err != nil {
		return perrors.New(perrors.Syntax, "%s", err.Error())
	}
	if len(ttoks) < 2 || ttoks[0].Kind != lexer.Word || !ttoks[len(ttoks)-1].Is(":") {
		return perrors.New(perrors.Syntax, "do without matching while/until")
	}
	var endValue bool
	switch ttoks[0].Text {
	case "while":
		endValue = false
	case "until":
		endValue = true
	default:
		return perrors.New(perrors.Syntax, "do without matching while/until")
	}
	cond, err := exprtree.Build(ttoks[1 : len(ttoks)-1])
	if err != nil {
		return err
	}
	line := s.Lines[idx]
	line.Stmt = LoopStmt
	line.Payload = &LoopPayload{
		Cond: cond, BeginChecked: false, EndValue: endValue,
		BodyStart: idx + 1, BodyEnd: bodyEnd,
		OtherwiseStart: -1, OtherwiseEnd: -1,
	}
	line.ContinuationIndex = tailIdx + 1
	return nil
}

// classifyFor parses `for <init> ; <cond> ; <step> :` (§4.5).
func (s *Source) classifyFor(idx int, toks []lexer.Token) error {
	if len(toks) < 2 || !toks[len(toks)-1].Is(":") {
		return perrors.New(perrors.Syntax, "expected ':' to end for header")
	}
	body := toks[1 : len(toks)-1]
	parts := splitBySemicolon(body)
	if len(parts) != 3 {
		return perrors.New(perrors.Syntax, "expected 'for <init> ; <cond> ; <step> :'")
	}
	initIsDecl := len(parts[0]) > 0 && isTypeStart(parts[0][0])
	var initType, initName string
	var initExpr exprtree.Node
	var err error
	if initIsDecl {
		typeName, pos, terr := parseTypeTokens(parts[0], 0)
		if terr != nil {
			return terr
		}
		if pos >= len(parts[0]) || parts[0][pos].Kind != lexer.Word || !value.ValidName(parts[0][pos].Text) {
			return perrors.New(perrors.Syntax, "expected variable name in for-init")
		}
		name := parts[0][pos].Text
		pos++
		if pos >= len(parts[0]) || !parts[0][pos].Is("=") {
			return perrors.New(perrors.Syntax, "expected '=' in for-init")
		}
		pos++
		initExpr, err = exprtree.Build(parts[0][pos:])
		if err != nil {
			return err
		}
		initType, initName = typeName, name
	} else {
		initExpr, err = exprtree.Build(parts[0])
		if err != nil {
			return err
		}
	}
	cond, err := exprtree.Build(parts[1])
	if err != nil {
		return err
	}
	step, err := exprtree.Build(parts[2])
	if err != nil {
		return err
	}
	bodyEnd := s.BlockEnd(idx)
	otherwiseStart, otherwiseEnd, next := s.consumeOtherwise(idx, bodyEnd)
	line := s.Lines[idx]
	line.Stmt = ForStmt
	line.Payload = &ForPayload{
		InitIsDecl: initIsDecl, InitType: initType, InitName: initName, InitExpr: initExpr,
		Cond: cond, Step: step,
		BodyStart: idx + 1, BodyEnd: bodyEnd,
		OtherwiseStart: otherwiseStart, OtherwiseEnd: otherwiseEnd,
	}
	line.ContinuationIndex = next
	return nil
}

func splitBySemicolon(toks []lexer.Token) [][]lexer.Token {
	var parts [][]lexer.Token
	start := 0
	for i, t := range toks {
		if t.Is(";") {
			parts = append(parts, toks[start:i])
			start = i + 1
		}
	}
	parts = append(parts, toks[start:])
	return parts
}

// classifyTry parses `try :` and requires a sibling `catch:` at the same
// indent immediately following the body (§4.5).
func (s *Source) classifyTry(idx int, toks []lexer.Token) error {
	if len(toks) != 2 || !toks[1].Is(":") {
		return perrors.New(perrors.Syntax, "expected ':' after try")
	}
	bodyEnd := s.BlockEnd(idx)
	indent := s.Lines[idx].Indent
	catchIdx := bodyEnd + 1
	if catchIdx >= len(s.Lines) || s.Lines[catchIdx].Indent != indent {
		return perrors.New(perrors.Syntax, "try without catch")
	}
	ctoks, err := s.Lines[catchIdx].Tokens()
	if err != nil || len(ctoks) != 2 || ctoks[0].Kind != lexer.Word || ctoks[0].Text != "catch" || !ctoks[1].Is(":") {
		return perrors.New(perrors.Syntax, "try without catch")
	}
	catchEnd := s.BlockEnd(catchIdx)
	line := s.Lines[idx]
	line.Stmt = TryStmt
	line.Payload = &TryPayload{
		BodyStart: idx + 1, BodyEnd: bodyEnd,
		CatchStart: catchIdx + 1, CatchEnd: catchEnd,
	}
	line.ContinuationIndex = catchEnd + 1
	return nil
}
