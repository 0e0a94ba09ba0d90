package exprtree

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jscheiny/Phoenix-sub000/internal/lexer"
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
	"github.com/jscheiny/Phoenix-sub000/internal/value"
)

// buildContext distinguishes the three shapes a comma-separated token
// range can be parsed as: a single required expression, a parenthesized
// argument/tuple list, or a bracketed array literal (§4.3 Phase A/C).
type buildContext int

const (
	ctxExpr buildContext = iota
	ctxParen
	ctxBracket
)

// Build parses a full token range (one line's expression slot: a
// condition, a print argument, an initializer right-hand side, …) into a
// single evaluable Node. Tuples are not constructible at this top level —
// only within parentheses (§3) — so a bare top-level comma is a syntax
// error here.
func Build(tokens []lexer.Token) (Node, error) {
	return build(tokens, ctxExpr)
}

func build(tokens []lexer.Token, ctx buildContext) (Node, error) {
	segments, err := splitTopLevelCommas(tokens)
	if err != nil {
		return nil, err
	}
	switch ctx {
	case ctxExpr:
		if len(segments) == 0 {
			return nil, perrors.New(perrors.Syntax, "expected expression")
		}
		if len(segments) > 1 {
			return nil, perrors.New(perrors.Syntax, "unexpected ',' outside parentheses")
		}
		return buildSegment(segments[0])
	case ctxParen:
		elems, err := buildSegments(segments)
		if err != nil {
			return nil, err
		}
		return &ParenGroup{Elements: elems}, nil
	default: // ctxBracket
		elems, err := buildSegments(segments)
		if err != nil {
			return nil, err
		}
		return &BracketGroup{Elements: elems}, nil
	}
}

func buildSegments(segments [][]lexer.Token) ([]Node, error) {
	nodes := make([]Node, len(segments))
	for i, seg := range segments {
		n, err := buildSegment(seg)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// buildSegment runs Phase A (linearize), Phase B (call/reference
// recognition), and Phase C (precedence reduction) over one comma-free
// token range.
func buildSegment(tokens []lexer.Token) (Node, error) {
	if len(tokens) == 0 {
		return nil, perrors.New(perrors.Syntax, "expected expression")
	}
	nodes, err := linearize(tokens)
	if err != nil {
		return nil, err
	}
	nodes, err = resolveFunctionRefs(nodes)
	if err != nil {
		return nil, err
	}
	nodes = bindCalls(nodes)
	return reduce(nodes)
}

// splitTopLevelCommas splits tokens on commas at bracket-nesting depth
// zero. An empty input yields zero segments (the "()" zero-arg case); a
// leading/trailing/doubled comma is a syntax error.
func splitTopLevelCommas(tokens []lexer.Token) ([][]lexer.Token, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	var segments [][]lexer.Token
	depth := 0
	start := 0
	for i, t := range tokens {
		if t.Kind != lexer.Delim {
			continue
		}
		switch t.Text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
			if depth < 0 {
				return nil, perrors.New(perrors.Syntax, "unbalanced brackets")
			}
		case ",":
			if depth == 0 {
				if i == start {
					return nil, perrors.New(perrors.Syntax, "missing operand before ','")
				}
				segments = append(segments, tokens[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, perrors.New(perrors.Syntax, "unbalanced brackets")
	}
	if start >= len(tokens) {
		return nil, perrors.New(perrors.Syntax, "missing operand after ','")
	}
	segments = append(segments, tokens[start:])
	return segments, nil
}

// findClose locates the index, within tokens, of the delimiter that
// closes the bracket opened at openIdx, validating balance/matching
// along the way (§4.3: "Mismatched or unbalanced brackets raise
// SyntaxError").
func findClose(tokens []lexer.Token, openIdx int) (int, error) {
	stack := []string{tokens[openIdx].Text}
	for i := openIdx + 1; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind != lexer.Delim {
			continue
		}
		switch t.Text {
		case "(", "[":
			stack = append(stack, t.Text)
		case ")", "]":
			if len(stack) == 0 {
				return -1, perrors.New(perrors.Syntax, "unbalanced brackets")
			}
			top := stack[len(stack)-1]
			expected := ")"
			if top == "[" {
				expected = "]"
			}
			if expected != t.Text {
				return -1, perrors.New(perrors.Syntax, "mismatched brackets")
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}
	return -1, perrors.New(perrors.Syntax, "unbalanced brackets")
}

// opPlaceholder is an unbound operator awaiting Phase C reduction.
type opPlaceholder struct {
	Op         string
	Prefix     bool
	Precedence int
}

func (o *opPlaceholder) Eval(*Context) (value.Value, error) {
	return nil, perrors.New(perrors.Syntax, "unreduced operator %s", o.Op)
}

func isOperatorNode(n Node) bool {
	_, ok := n.(*opPlaceholder)
	return ok
}

// linearize performs Phase A: one Node per token, with "(" / "[" ranges
// recursively parsed in place.
func linearize(tokens []lexer.Token) ([]Node, error) {
	var nodes []Node
	i := 0
	for i < len(tokens) {
		t := tokens[i]
		if t.Kind == lexer.Delim {
			switch t.Text {
			case "(":
				closeIdx, err := findClose(tokens, i)
				if err != nil {
					return nil, err
				}
				n, err := build(tokens[i+1:closeIdx], ctxParen)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, n)
				i = closeIdx + 1
				continue
			case "[":
				closeIdx, err := findClose(tokens, i)
				if err != nil {
					return nil, err
				}
				n, err := build(tokens[i+1:closeIdx], ctxBracket)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, n)
				i = closeIdx + 1
				continue
			case ")", "]":
				return nil, perrors.New(perrors.Syntax, "unbalanced brackets")
			default:
				nodes = append(nodes, makeOperatorPlaceholder(t.Text, nodes))
				i++
				continue
			}
		}
		n, err := makeWordNode(t)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
		i++
	}
	return nodes, nil
}

// makeOperatorPlaceholder classifies a delimiter token as a binary or
// prefix-unary operator placeholder. A "-" is reclassified to prefix
// Negate when its left neighbor is absent or is itself an unbound
// operator (§4.3 Phase A).
func makeOperatorPlaceholder(op string, existing []Node) Node {
	if op == "-" {
		if len(existing) == 0 || isOperatorNode(existing[len(existing)-1]) {
			return &opPlaceholder{Op: "-", Prefix: true, Precedence: precUnaryMinusNot}
		}
		return &opPlaceholder{Op: "-", Prefix: false, Precedence: binaryPrecedence("-")}
	}
	if op == "@" {
		return &opPlaceholder{Op: "@", Prefix: true, Precedence: precUnaryRef}
	}
	return &opPlaceholder{Op: op, Prefix: false, Precedence: binaryPrecedence(op)}
}

var (
	reInt        = regexp.MustCompile(`^[0-9]+$`)
	reLong       = regexp.MustCompile(`^[0-9]+[lL]$`)
	reDoubleD    = regexp.MustCompile(`^[0-9]+[dD]$`)
	reDoubleDot  = regexp.MustCompile(`^\.[0-9]+[dD]?$`)
	reDoubleFull = regexp.MustCompile(`^[0-9]+\.[0-9]*[dD]?$`)
)

var typeNames = map[string]bool{
	value.KindInteger: true, value.KindLong: true, value.KindDouble: true,
	value.KindString: true, value.KindBoolean: true, value.KindTuple: true,
	"type": true, value.KindFunction: true, value.KindVoid: true,
}

// makeWordNode classifies a single Word token into a literal, a
// reclassified logical-keyword operator, or a resolution node (§4.1 rule
//5, §4.3 Phase A).
func makeWordNode(t lexer.Token) (Node, error) {
	if t.Quoted {
		return &LiteralNode{Val: value.NewString(t.Text)}, nil
	}
	switch t.Text {
	case "and", "or":
		return &opPlaceholder{Op: t.Text, Prefix: false, Precedence: binaryPrecedence(t.Text)}, nil
	case "not":
		return &opPlaceholder{Op: "not", Prefix: true, Precedence: precUnaryMinusNot}, nil
	case "true":
		return &LiteralNode{Val: value.NewBoolean(true)}, nil
	case "false":
		return &LiteralNode{Val: value.NewBoolean(false)}, nil
	}
	if lit, ok, err := parseNumeric(t.Text); err != nil {
		return nil, err
	} else if ok {
		return &LiteralNode{Val: lit}, nil
	}
	if typeNames[t.Text] {
		return &LiteralNode{Val: value.NewType(t.Text)}, nil
	}
	if !value.ValidName(t.Text) {
		return nil, perrors.New(perrors.Syntax, "invalid identifier: %s", t.Text)
	}
	return &ResolutionNode{Name: t.Text}, nil
}

// parseNumeric recognizes the numeric literal grammar of §6: \d+ for
// Integer; \d+[lL] for Long (the natural completion of §6's d/D-suffixed
// Double grammar, needed to make the §8 factorial example's `1l` literal
// parse); \d+d, .\d+[d]?, \d+\.\d*[d]? for Double.
func parseNumeric(text string) (value.Value, bool, error) {
	switch {
	case reInt.MatchString(text):
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, false, perrors.New(perrors.Syntax, "invalid integer literal: %s", text)
		}
		return value.NewInteger(int32(n)), true, nil
	case reLong.MatchString(text):
		digits := text[:len(text)-1]
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, false, perrors.New(perrors.Syntax, "invalid long literal: %s", text)
		}
		return value.NewLong(n), true, nil
	case reDoubleD.MatchString(text), reDoubleDot.MatchString(text), reDoubleFull.MatchString(text):
		digits := strings.TrimRight(text, "dD")
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return nil, false, perrors.New(perrors.Syntax, "invalid double literal: %s", text)
		}
		return value.NewDouble(f), true, nil
	}
	return nil, false, nil
}

// resolveFunctionRefs performs the `@name` half of Phase B: a unary `@`
// immediately followed by a resolution node collapses into that node
// with Ref set, suppressing its implicit call (§4.3 Phase B).
func resolveFunctionRefs(nodes []Node) ([]Node, error) {
	var out []Node
	for i := 0; i < len(nodes); i++ {
		ph, isAt := nodes[i].(*opPlaceholder)
		if isAt && ph.Op == "@" {
			if i+1 >= len(nodes) {
				return nil, perrors.New(perrors.Syntax, "missing operand for @")
			}
			res, ok := nodes[i+1].(*ResolutionNode)
			if !ok {
				return nil, perrors.New(perrors.Syntax, "@ must precede a name")
			}
			out = append(out, &ResolutionNode{Name: res.Name, Ref: true})
			i++
			continue
		}
		out = append(out, nodes[i])
	}
	return out, nil
}

// bindCalls performs the remaining half of Phase B: a non-operator node
// adjacent to a ParenGroup on either or both sides becomes a CallNode
// consuming that group's elements as an argument list (§4.3 Phase B). A
// node already marked as a function reference does not participate —
// `@foo` takes the function value itself, never a call.
func bindCalls(nodes []Node) []Node {
	var out []Node
	i := 0
	for i < len(nodes) {
		n := nodes[i]
		if isOperatorNode(n) {
			out = append(out, n)
			i++
			continue
		}
		if res, ok := n.(*ResolutionNode); ok && res.Ref {
			out = append(out, n)
			i++
			continue
		}
		call := &CallNode{Callee: n}
		if len(out) > 0 {
			if pg, ok := out[len(out)-1].(*ParenGroup); ok {
				call.Left = pg.Elements
				call.HasLeft = true
				out = out[:len(out)-1]
			}
		}
		if i+1 < len(nodes) {
			if pg, ok := nodes[i+1].(*ParenGroup); ok {
				call.Right = pg.Elements
				call.HasRight = true
				i++
			}
		}
		if call.HasLeft || call.HasRight {
			out = append(out, call)
		} else {
			out = append(out, n)
		}
		i++
	}
	return out
}

// reduce performs Phase C: repeatedly bind the un-bound operator node
// with the highest precedence (leftmost on ties, rightmost for the
// right-associative assignment/`^` operators and for chained prefix
// unary operators, which must reduce innermost-first).
func reduce(nodes []Node) (Node, error) {
	list := append([]Node(nil), nodes...)
	for {
		bestIdx, bestPrec := -1, -1
		for idx, n := range list {
			ph, ok := n.(*opPlaceholder)
			if !ok {
				continue
			}
			if ph.Precedence > bestPrec {
				bestIdx, bestPrec = idx, ph.Precedence
			} else if ph.Precedence == bestPrec && (rightAssociative(ph.Op) || ph.Prefix) {
				bestIdx = idx
			}
		}
		if bestIdx == -1 {
			break
		}
		ph := list[bestIdx].(*opPlaceholder)
		var replaced Node
		var from, to int
		if ph.Prefix {
			if bestIdx+1 >= len(list) {
				return nil, perrors.New(perrors.Syntax, "missing operand for %s", ph.Op)
			}
			right := list[bestIdx+1]
			if isOperatorNode(right) {
				return nil, perrors.New(perrors.Syntax, "missing operand for %s", ph.Op)
			}
			if ph.Op == "@" {
				return nil, perrors.New(perrors.Syntax, "@ must precede a name")
			}
			replaced = &UnaryNode{Op: ph.Op, Operand: right}
			from, to = bestIdx, bestIdx+1
		} else {
			if bestIdx == 0 || bestIdx+1 >= len(list) {
				return nil, perrors.New(perrors.Syntax, "missing operand for %s", ph.Op)
			}
			left, right := list[bestIdx-1], list[bestIdx+1]
			if isOperatorNode(left) || isOperatorNode(right) {
				return nil, perrors.New(perrors.Syntax, "missing operand for %s", ph.Op)
			}
			if assignOps[ph.Op] {
				replaced = &AssignNode{Op: ph.Op, Target: left, Rhs: right}
			} else {
				replaced = &BinaryNode{Op: ph.Op, Left: left, Right: right}
			}
			from, to = bestIdx-1, bestIdx+1
		}
		list = replaceRange(list, from, to, replaced)
	}
	if len(list) != 1 {
		return nil, perrors.New(perrors.Syntax, "malformed expression")
	}
	return list[0], nil
}

func replaceRange(list []Node, from, to int, node Node) []Node {
	out := make([]Node, 0, len(list)-(to-from))
	out = append(out, list[:from]...)
	out = append(out, node)
	out = append(out, list[to+1:]...)
	return out
}
