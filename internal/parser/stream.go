package parser

import (
	"synthizer/internal/source"
	"synthizer/internal/token"
)

// TokenStream is a bounded cursor over a token span. Sub-parses get
// their own slices so they cannot read past the construct they were
// handed; positions are indices into the stream's own slice.
type TokenStream struct {
	toks []token.Token
	idx  int
	end  source.Span // zero-length span at the end of the input
}

// NewStream wraps a lexed token list. A trailing EOF token provides
// the end-of-input position and is excluded from the stream.
func NewStream(toks []token.Token) *TokenStream {
	var end source.Span
	if n := len(toks); n > 0 {
		last := toks[n-1]
		if last.Kind == token.EOF {
			toks = toks[:n-1]
			end = last.Span
		} else {
			end = source.Span{File: last.Span.File, Start: last.Span.End, End: last.Span.End}
		}
	}
	return &TokenStream{toks: toks, end: end}
}

// Next consumes and returns the next token.
func (ts *TokenStream) Next() (token.Token, bool) {
	if ts.idx >= len(ts.toks) {
		return token.Token{}, false
	}
	t := ts.toks[ts.idx]
	ts.idx++
	return t, true
}

// Peek returns the token k positions ahead without consuming it.
func (ts *TokenStream) Peek(k int) (token.Token, bool) {
	if ts.idx+k >= len(ts.toks) {
		return token.Token{}, false
	}
	return ts.toks[ts.idx+k], true
}

// Pos returns the current index into the stream's slice.
func (ts *TokenStream) Pos() int { return ts.idx }

// SetPos rewinds or advances the cursor to an absolute index.
func (ts *TokenStream) SetPos(i int) { ts.idx = i }

// Empty reports whether the stream is exhausted.
func (ts *TokenStream) Empty() bool { return ts.idx >= len(ts.toks) }

// Rest returns the unconsumed tail of the stream.
func (ts *TokenStream) Rest() []token.Token { return ts.toks[ts.idx:] }

// Tokens returns the stream's tokens between two indices.
func (ts *TokenStream) Tokens(start, end int) []token.Token {
	return ts.toks[start:end]
}

// Slice returns an independent sub-stream over [start, end).
func (ts *TokenStream) Slice(start, end int) *TokenStream {
	sub := ts.toks[start:end]
	sp := ts.end
	if len(sub) > 0 {
		last := sub[len(sub)-1].Span
		sp = source.Span{File: last.File, Start: last.End, End: last.End}
	} else if start < len(ts.toks) {
		first := ts.toks[start].Span
		sp = source.Span{File: first.File, Start: first.Start, End: first.Start}
	}
	return &TokenStream{toks: sub, end: sp}
}

// EndSpan returns a zero-length span at the end of the stream's input,
// used to position errors when the input was exhausted.
func (ts *TokenStream) EndSpan() source.Span { return ts.end }
