package lexer

import (
	"testing"

	"synthizer/internal/diag"
	"synthizer/internal/source"
	"synthizer/internal/token"
)

func makeTestLexer(t *testing.T, src string) (*Lexer, *source.Interner, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.syn", []byte(src))
	interner := source.NewInterner()
	bag := diag.NewBag(64)
	lx := New(fs.Get(id), interner, Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, interner, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			"assignment",
			"x = 1;",
			[]token.Kind{token.Ident, token.Assign, token.NumLit, token.Semicolon, token.EOF},
		},
		{
			"function header",
			"[f a = -1]",
			[]token.Kind{token.LBracket, token.Ident, token.Ident, token.Assign, token.Minus, token.NumLit, token.RBracket, token.EOF},
		},
		{
			"two char operators",
			"<= >= == != ~= && || ^^",
			[]token.Kind{token.LtEq, token.GtEq, token.EqEq, token.BangEq, token.TildeEq, token.AndAnd, token.OrOr, token.CaretCaret, token.EOF},
		},
		{
			"single char operators",
			"+ - * / ^ % ! < >",
			[]token.Kind{token.Plus, token.Minus, token.Star, token.Slash, token.Caret, token.Percent, token.Bang, token.Lt, token.Gt, token.EOF},
		},
		{
			"guard entry",
			"{ + x ? x > 0; }",
			[]token.Kind{token.LBrace, token.Plus, token.Ident, token.Question, token.Ident, token.Gt, token.NumLit, token.Semicolon, token.RBrace, token.EOF},
		},
		{
			"keywords",
			"if else iffy",
			[]token.Kind{token.KwIf, token.KwElse, token.Ident, token.EOF},
		},
		{
			"comment only",
			"// just a comment\n",
			[]token.Kind{token.EOF},
		},
		{
			"comment between tokens",
			"x // trailing\n= 1",
			[]token.Kind{token.Ident, token.Assign, token.NumLit, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, _, bag := makeTestLexer(t, tt.src)
			got := kinds(lx.Tokens())
			if bag.HasErrors() {
				t.Fatalf("lexing %q produced errors: %v", tt.src, bag.Items())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d = %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestNumberValues(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.5", 3.5},
		{"1.", 1},
		{"2e3", 2000},
		{"2.5e-2", 0.025},
		{"1E+1", 10},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lx, _, _ := makeTestLexer(t, tt.src)
			tok := lx.Next()
			if tok.Kind != token.NumLit {
				t.Fatalf("kind = %v, want number", tok.Kind)
			}
			if tok.Value != tt.want {
				t.Fatalf("value = %g, want %g", tok.Value, tt.want)
			}
		})
	}
}

func TestExponentWithoutDigitsStaysIdentifier(t *testing.T) {
	lx, interner, _ := makeTestLexer(t, "2east")
	first := lx.Next()
	if first.Kind != token.NumLit || first.Value != 2 {
		t.Fatalf("first token = %v (%g), want number 2", first.Kind, first.Value)
	}
	second := lx.Next()
	if second.Kind != token.Ident {
		t.Fatalf("second token = %v, want identifier", second.Kind)
	}
	if name := interner.MustLookup(second.Ident); name != "east" {
		t.Fatalf("identifier = %q, want %q", name, "east")
	}
}

func TestLeadingDotIsNotAConstant(t *testing.T) {
	// The symbol category claims `.` before the numeric category, so
	// the optional integer part of the constant grammar never applies.
	lx, _, bag := makeTestLexer(t, ".5")
	first := lx.Next()
	if first.Kind != token.Dot {
		t.Fatalf("first token = %v, want `.`", first.Kind)
	}
	second := lx.Next()
	if second.Kind != token.NumLit || second.Value != 5 {
		t.Fatalf("second token = %v (%g), want number 5", second.Kind, second.Value)
	}
	if bag.Len() != 0 {
		t.Fatalf("bag has %d diagnostics, want 0", bag.Len())
	}
}

func TestIdentifiersAreInterned(t *testing.T) {
	lx, _, _ := makeTestLexer(t, "osc osc other")
	a := lx.Next()
	b := lx.Next()
	c := lx.Next()
	if a.Ident != b.Ident {
		t.Fatalf("same spelling interned to %v and %v", a.Ident, b.Ident)
	}
	if a.Ident == c.Ident {
		t.Fatal("different spellings interned to the same id")
	}
}

func TestUnrecognizedByteIsReported(t *testing.T) {
	lx, _, bag := makeTestLexer(t, "x = @;")
	toks := lx.Tokens()
	if !bag.HasErrors() {
		t.Fatal("no diagnostic for unrecognized byte")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LexUnrecognizedToken {
			found = true
		}
	}
	if !found {
		t.Fatalf("no LexUnrecognizedToken in %v", bag.Items())
	}
	// Lexing continues past the bad byte.
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		t.Fatalf("stream does not end with EOF: %v", last.Kind)
	}
}

func TestSpansCoverLexemes(t *testing.T) {
	lx, _, _ := makeTestLexer(t, "ab + 12")
	tok := lx.Next()
	if tok.Span.Start != 0 || tok.Span.End != 2 {
		t.Fatalf("ident span = [%d,%d), want [0,2)", tok.Span.Start, tok.Span.End)
	}
	tok = lx.Next()
	if tok.Span.Start != 3 || tok.Span.End != 4 {
		t.Fatalf("op span = [%d,%d), want [3,4)", tok.Span.Start, tok.Span.End)
	}
	tok = lx.Next()
	if tok.Span.Start != 5 || tok.Span.End != 7 {
		t.Fatalf("number span = [%d,%d), want [5,7)", tok.Span.Start, tok.Span.End)
	}
}
