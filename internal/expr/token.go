package expr

import (
	"synthizer/internal/source"
)

// TokenKind tags the intermediate token form used inside the engine.
type TokenKind uint8

const (
	OpTok TokenKind = iota
	ValueTok
	VarTok
	LParenTok
	RParenTok
	FnTok
)

// ExprToken is the engine's intermediate token. Compilation lowers
// lexer tokens into these; the paren kinds exist only between the
// tokenization and shunting-yard passes and never reach compiled form.
type ExprToken struct {
	Kind TokenKind
	Op   Operator        // OpTok
	Val  float64         // ValueTok
	Slot int             // VarTok: variable slot in the compile scope
	ID   source.StringID // VarTok: identifier, kept for type resolution
	Call *Call           // FnTok
	Span source.Span
}
