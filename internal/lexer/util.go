package lexer

// ASCII classifiers. The lexical grammar is byte-oriented: identifiers
// admit letters, underscore, tilde and apostrophe, with digits allowed
// after the first byte.

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '~' || b == '\'' ||
		(b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isOperatorByte(b byte) bool {
	switch b {
	case '+', '*', '/', '^', '>', '<', '!', '%', '-':
		return true
	default:
		return false
	}
}

func isSymbolByte(b byte) bool {
	switch b {
	case '.', ',', '=', ':', ';', '?', '(', ')', '{', '}', '[', ']', '\\':
		return true
	default:
		return false
	}
}

// try2 consumes two bytes when they match exactly.
func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
