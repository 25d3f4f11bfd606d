package lexer

import (
	"strconv"

	"synthizer/internal/token"
)

// scanNumber scans a numeric constant:
//
//	digits ('.' digits?)? exponent?
//
// with exponent = [eE] [+-]? digits. An exponent marker without digits
// is not part of the constant; the marker byte is left for the
// identifier category ("2east" lexes as 2, east).
//
// A constant never begins with the dot: the symbol category claims
// `.` before the numeric category is tried, so ".5" lexes as a period
// followed by the constant 5.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// Fractional part; a trailing dot is allowed ("1." is a constant).
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// Exponent, only when the digits that make it valid are present.
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		if lx.exponentAhead() {
			lx.cursor.Bump() // e/E
			if b := lx.cursor.Peek(); b == '+' || b == '-' {
				lx.cursor.Bump()
			}
			for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// The scanner only admits ParseFloat-compatible shapes.
		panic("lexer: unparsable numeric constant " + strconv.Quote(text))
	}
	return token.Token{Kind: token.NumLit, Span: sp, Text: text, Value: value}
}

// exponentAhead reports whether the cursor sits on a complete exponent
// (marker, optional sign, at least one digit).
func (lx *Lexer) exponentAhead() bool {
	off := lx.cursor.Off + 1 // past e/E
	if off < lx.cursor.limit() {
		if b := lx.cursor.File.Content[off]; b == '+' || b == '-' {
			off++
		}
	}
	return off < lx.cursor.limit() && isDec(lx.cursor.File.Content[off])
}
