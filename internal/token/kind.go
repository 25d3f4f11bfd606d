package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// NumLit represents a numeric constant token.
	NumLit

	// KwIf represents the 'if' keyword symbol.
	KwIf // if
	// KwElse represents the 'else' keyword symbol.
	KwElse // else

	// Plus represents the addition operator token.
	Plus // +
	// Minus represents the subtraction operator token.
	Minus // -
	// Star represents the multiplication operator token.
	Star // *
	// Slash represents the division operator token.
	Slash // /
	// Caret represents the exponentiation operator token.
	Caret // ^
	// Percent represents the modulo operator token.
	Percent // %
	// Bang represents the logical-not operator token.
	Bang // !
	// Lt represents the less-than operator token.
	Lt // <
	// Gt represents the greater-than operator token.
	Gt // >
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// EqEq represents the equality operator token.
	EqEq // ==
	// BangEq represents the inequality operator token.
	BangEq // !=
	// TildeEq represents the approximate-equality operator token.
	TildeEq // ~=
	// AndAnd represents the logical-and operator token.
	AndAnd // &&
	// OrOr represents the logical-or operator token.
	OrOr // ||
	// CaretCaret represents the logical-xor operator token.
	CaretCaret // ^^

	// Dot represents the period symbol token.
	Dot // .
	// Comma represents the comma symbol token.
	Comma // ,
	// Assign represents the equals symbol token.
	Assign // =
	// Colon represents the colon symbol token.
	Colon // :
	// Semicolon represents the semicolon symbol token.
	Semicolon // ;
	// Question represents the question-mark symbol token.
	Question // ?
	// Backslash represents the backslash symbol token.
	Backslash // \
	// LParen represents the left round bracket token.
	LParen // (
	// RParen represents the right round bracket token.
	RParen // )
	// LBrace represents the left curly bracket token.
	LBrace // {
	// RBrace represents the right curly bracket token.
	RBrace // }
	// LBracket represents the left square bracket token.
	LBracket // [
	// RBracket represents the right square bracket token.
	RBracket // ]
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "EOF",
	Ident:      "identifier",
	NumLit:     "number",
	KwIf:       "if",
	KwElse:     "else",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Caret:      "^",
	Percent:    "%",
	Bang:       "!",
	Lt:         "<",
	Gt:         ">",
	LtEq:       "<=",
	GtEq:       ">=",
	EqEq:       "==",
	BangEq:     "!=",
	TildeEq:    "~=",
	AndAnd:     "&&",
	OrOr:       "||",
	CaretCaret: "^^",
	Dot:        ".",
	Comma:      ",",
	Assign:     "=",
	Colon:      ":",
	Semicolon:  ";",
	Question:   "?",
	Backslash:  `\`,
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// BracketShape distinguishes the three bracket families.
type BracketShape uint8

const (
	BracketNone BracketShape = iota
	BracketRound
	BracketSquare
	BracketCurly
)

// Bracket returns the bracket shape of k and whether it opens the pair.
func (k Kind) Bracket() (shape BracketShape, open bool) {
	switch k {
	case LParen:
		return BracketRound, true
	case RParen:
		return BracketRound, false
	case LBracket:
		return BracketSquare, true
	case RBracket:
		return BracketSquare, false
	case LBrace:
		return BracketCurly, true
	case RBrace:
		return BracketCurly, false
	default:
		return BracketNone, false
	}
}

// Closing returns the closing counterpart of an opening bracket kind.
func (k Kind) Closing() Kind {
	switch k {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	default:
		return Invalid
	}
}
