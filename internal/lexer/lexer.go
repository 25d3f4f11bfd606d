// Package lexer converts raw source text into positioned tokens.
//
// Matching at each cursor position is tried in a fixed priority order:
// line comment, horizontal whitespace, newline, two-character
// operators, punctuation and keyword symbols, identifier, operator,
// numeric constant. The first pattern matching at the current offset
// wins; there is no cross-category backtracking. Lexing never fails
// outright: an unrecognized byte is reported, skipped, and scanning
// continues, so the caller always receives a complete token list.
package lexer

import (
	"synthizer/internal/diag"
	"synthizer/internal/source"
	"synthizer/internal/token"
)

type Lexer struct {
	file     *source.File
	interner *source.Interner
	cursor   Cursor
	opts     Options
	look     *token.Token // 1-element lookahead buffer
}

func New(file *source.File, interner *source.Interner, opts Options) *Lexer {
	return &Lexer{
		file:     file,
		interner: interner,
		cursor:   NewCursor(file),
		opts:     opts,
	}
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	for {
		lx.skipTrivia()

		if lx.cursor.EOF() {
			return token.Token{
				Kind: token.EOF,
				Span: lx.EmptySpan(),
			}
		}

		// Two-character operators go first so '=' and '~' cannot
		// shadow '==' and '~='.
		if tok, ok := lx.scanTwoCharOperator(); ok {
			return tok
		}

		ch := lx.cursor.Peek()
		switch {
		case isSymbolByte(ch):
			return lx.scanSymbol()

		case isIdentStartByte(ch):
			return lx.scanIdentOrKeyword()

		case isOperatorByte(ch):
			return lx.scanSingleCharOperator()

		case isDec(ch):
			return lx.scanNumber()

		default:
			// Unrecognized byte: report, skip exactly one byte, go on.
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.report(diag.LexUnrecognizedToken, lx.cursor.SpanFrom(start), "unrecognized token")
		}
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Tokens drains the lexer into a slice terminated by the EOF token.
func (lx *Lexer) Tokens() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// skipTrivia consumes line comments, spaces, tabs and newlines.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '/' && b1 == '/' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue
		}
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
