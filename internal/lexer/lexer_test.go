package lexer

import "testing"

func TestTokenizeWordsAndDelimiters(t *testing.T) {
	toks, err := Tokenize(`x += 1 * (y - 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		kind Kind
		text string
	}{
		{Word, "x"}, {Delim, "+="}, {Word, "1"}, {Delim, "*"},
		{Delim, "("}, {Word, "y"}, {Delim, "-"}, {Word, "2"}, {Delim, ")"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d: got {%v %q}, want {%v %q}", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestTokenizeLongestMatchDelimiters(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a == b", []string{"a", "==", "b"}},
		{"a=b", []string{"a", "=", "b"}},
		{"a<=b", []string{"a", "<=", "b"}},
		{"a<b", []string{"a", "<", "b"}},
		{"x+=1", []string{"x", "+=", "1"}},
	}
	for _, tt := range tests {
		toks, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.input, err)
		}
		if len(toks) != len(tt.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, toks, tt.want)
		}
		for i, w := range tt.want {
			if toks[i].Text != w {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, toks[i].Text, w)
			}
		}
	}
}

func TestTokenizeQuotedLiteralsAndEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb" 'c\'d'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(toks), toks)
	}
	if !toks[0].Quoted || toks[0].Text != "a\nb" {
		t.Errorf("token 0 = %+v, want Quoted text %q", toks[0], "a\nb")
	}
	if !toks[1].Quoted || toks[1].Text != "c'd" {
		t.Errorf("token 1 = %+v, want Quoted text %q", toks[1], "c'd")
	}
}

func TestTokenizeUnterminatedStringIsError(t *testing.T) {
	if _, err := Tokenize(`"abc`); err == nil {
		t.Fatal("expected error for unterminated string literal")
	}
}

func TestTokenizeInvalidEscapeIsError(t *testing.T) {
	if _, err := Tokenize(`"a\qb"`); err == nil {
		t.Fatal("expected error for invalid escape sequence")
	}
}

func TestTokenizeWhitespaceSeparatesWords(t *testing.T) {
	toks, err := Tokenize("foo   bar\tbaz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
	for i, w := range []string{"foo", "bar", "baz"} {
		if toks[i].Text != w {
			t.Errorf("token %d = %q, want %q", i, toks[i].Text, w)
		}
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	toks, err := Tokenize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 0 {
		t.Fatalf("got %d tokens, want 0", len(toks))
	}
}
