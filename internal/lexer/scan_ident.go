package lexer

import (
	"synthizer/internal/token"
)

// scanIdentOrKeyword scans an identifier lexeme and promotes the
// keyword forms ('if'/'else') to their symbol kinds, so they never
// become plain identifiers.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}

	return token.Token{
		Kind:  token.Ident,
		Span:  sp,
		Text:  text,
		Ident: lx.interner.Intern(text),
	}
}
