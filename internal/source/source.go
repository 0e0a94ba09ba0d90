// Package source implements the line-indexed source model of §4.4: file
// loading, comment stripping, indent-prefix block-extent resolution, and
// (in classify.go) the per-line statement cache and classifier of §4.5.
//
// The model itself — one cached Line per physical source line, classified
// lazily on first visit — classifies one line at a time because a line's
// compiled payload must be replayable without re-parsing (§1 rule 2),
// which only makes sense in a model that keeps per-line identity.
package source

import (
	"os"
	"strings"

	"github.com/jscheiny/Phoenix-sub000/internal/lexer"
	"github.com/jscheiny/Phoenix-sub000/internal/perrors"
)

// Source is a loaded, comment-stripped, line-indexed program (§3 "Source
// line", §4.4).
type Source struct {
	Path  string
	Lines []*Line
}

// Load reads path, strips line comments, splits into Lines, and appends
// the one empty sentinel line required by §4.4.
func Load(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromString(path, string(raw)), nil
}

// FromString builds a Source directly from program text, used by tests
// and by the CLI's stdin/interactive mode.
func FromString(path, text string) *Source {
	rawLines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	src := &Source{Path: path}
	for _, raw := range rawLines {
		src.Lines = append(src.Lines, newLine(raw))
	}
	// Sentinel: guarantees every block scan and continuation-index lookup
	// terminates on a line that is always Empty (§4.4).
	src.Lines = append(src.Lines, newLine(""))
	return src
}

// Size returns the total number of lines, including the sentinel.
func (s *Source) Size() int { return len(s.Lines) }

// Line returns the line at idx, or nil if out of range.
func (s *Source) Line(idx int) *Line {
	if idx < 0 || idx >= len(s.Lines) {
		return nil
	}
	return s.Lines[idx]
}

// newLine splits raw text into its indent prefix and comment-stripped,
// trimmed content.
func newLine(raw string) *Line {
	indent := raw[:len(raw)-len(strings.TrimLeft(raw, " \t"))]
	stripped := stripComment(raw)
	content := strings.TrimSpace(stripped)
	return &Line{Text: raw, Indent: indent, Content: content}
}

// stripComment truncates raw at the first unquoted "//", honoring the
// same quote/escape rules the tokenizer uses so a "//" inside a string
// literal is not mistaken for a comment start (§4.4).
func stripComment(raw string) string {
	runes := []rune(raw)
	var quote rune
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if quote != 0 {
			if ch == '\\' {
				i++ // skip the escaped character, quoted or not
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				return string(runes[:i])
			}
		}
	}
	return raw
}

// Line owns the state of §3's "Source line": raw text, indent string,
// stripped content, a lazily computed token list, and the classification
// state the statement classifier fills in on first visit.
type Line struct {
	Text   string
	Indent string
	Content string

	toks      []lexer.Token
	tokenized bool

	Stmt              Classification
	Payload           any
	ContinuationIndex int
	SetupErr          *perrors.Error
}

// Empty reports whether this line has no content, per §4.4/§4.5 — based
// purely on stripped content, so block-extent resolution never needs to
// tokenize a line (§8 property 2: block_end depends only on indentation).
func (l *Line) Empty() bool { return l.Content == "" }

// Tokens lazily tokenizes Content, caching a successful result. A tokenize
// failure (unterminated string literal, bad escape) is not cached: each
// call tokenizes again and returns the error again. Callers that need a
// perrors.Error should route it through classify, which wraps it with
// Syntax category and caches it as the line's SetupErr.
func (l *Line) Tokens() ([]lexer.Token, error) {
	if l.tokenized {
		return l.toks, nil
	}
	toks, err := lexer.Tokenize(l.Content)
	if err != nil {
		return nil, err
	}
	l.toks = toks
	l.tokenized = true
	return l.toks, nil
}

// IndentGreater reports whether indent a is strictly "greater" than b in
// the prefix sense of §3: a starts with b and a != b.
func IndentGreater(a, b string) bool {
	return strings.HasPrefix(a, b) && a != b
}

// BlockEnd resolves the block extent of §3 for a header at headerIdx with
// indent headerIndent: the maximal contiguous range of lines whose every
// non-empty line's indent is IndentGreater than headerIndent. Returns the
// last index inside the block (headerIdx itself if the block is empty).
func (s *Source) BlockEnd(headerIdx int) int {
	headerIndent := s.Lines[headerIdx].Indent
	j := headerIdx
	for k := headerIdx + 1; k < len(s.Lines); k++ {
		line := s.Lines[k]
		if line.Empty() {
			j = k
			continue
		}
		if IndentGreater(line.Indent, headerIndent) {
			j = k
			continue
		}
		break
	}
	return j
}
