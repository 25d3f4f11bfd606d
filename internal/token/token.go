package token

import (
	"synthizer/internal/source"
)

// Token represents a single source token with its location.
//
// Payload fields are populated per kind: Ident carries the interned
// identifier handle, NumLit the parsed numeric value. Text always holds
// the raw source lexeme.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Ident source.StringID // valid when Kind == Ident
	Value float64         // valid when Kind == NumLit
}

// IsOperator reports whether the token is an expression operator.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Caret, Percent, Bang,
		Lt, Gt, LtEq, GtEq, EqEq, BangEq, TildeEq,
		AndAnd, OrOr, CaretCaret:
		return true
	default:
		return false
	}
}

// IsSymbol reports whether the token is punctuation or a keyword symbol.
func (t Token) IsSymbol() bool {
	switch t.Kind {
	case Dot, Comma, Assign, Colon, Semicolon, Question, Backslash,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket,
		KwIf, KwElse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is one of the keyword symbols.
func (t Token) IsKeyword() bool {
	return t.Kind == KwIf || t.Kind == KwElse
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }
