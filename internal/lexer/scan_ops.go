package lexer

import (
	"synthizer/internal/source"
	"synthizer/internal/token"
)

// twoCharOps holds the two-character operator forms. They must be
// recognized before any category that could consume their first byte.
var twoCharOps = []struct {
	a, b byte
	kind token.Kind
}{
	{'^', '^', token.CaretCaret},
	{'>', '=', token.GtEq},
	{'<', '=', token.LtEq},
	{'~', '=', token.TildeEq},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
}

func (lx *Lexer) scanTwoCharOperator() (token.Token, bool) {
	start := lx.cursor.Mark()
	for _, op := range twoCharOps {
		if lx.try2(op.a, op.b) {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: op.kind, Span: sp, Text: lx.text(sp)}, true
		}
	}
	return token.Token{}, false
}

func (lx *Lexer) scanSingleCharOperator() token.Token {
	start := lx.cursor.Mark()
	var kind token.Kind
	switch lx.cursor.Bump() {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '^':
		kind = token.Caret
	case '%':
		kind = token.Percent
	case '!':
		kind = token.Bang
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	default:
		kind = token.Invalid
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanSymbol() token.Token {
	start := lx.cursor.Mark()
	var kind token.Kind
	switch lx.cursor.Bump() {
	case '.':
		kind = token.Dot
	case ',':
		kind = token.Comma
	case '=':
		kind = token.Assign
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '?':
		kind = token.Question
	case '\\':
		kind = token.Backslash
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	default:
		kind = token.Invalid
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
