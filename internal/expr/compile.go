// Package expr is the expression engine: it compiles a flat token
// span into postfix form via the shunting-yard algorithm and evaluates
// the postfix form against a runtime variable scope. An expression is
// compiled once and can be evaluated many times with different
// bindings.
package expr

import (
	"fmt"

	"synthizer/internal/diag"
	"synthizer/internal/scope"
	"synthizer/internal/source"
	"synthizer/internal/token"
)

// Resolver supplies name resolution during compilation. *scope.Scope
// satisfies it; the seam exists so a signature pre-collection pass
// could substitute its own lookup without touching the engine.
type Resolver interface {
	VarSlot(id source.StringID) (int, bool)
	Func(id source.StringID) (scope.Function, bool)
}

// Expression is a compiled expression in postfix (RPN) form.
type Expression struct {
	RPN  []ExprToken
	Span source.Span
}

// Compile converts a token span into a reusable compiled expression,
// resolving identifiers against res as it goes.
func Compile(tokens []token.Token, res Resolver, interner *source.Interner) (*Expression, *diag.CompileError) {
	out, err := toExprTokens(tokens, res, interner)
	if err != nil {
		return nil, err
	}
	rpn, err := shuntingYard(out)
	if err != nil {
		return nil, err
	}

	sp := tokens[0].Span
	for _, t := range tokens[1:] {
		sp = sp.Cover(t.Span)
	}
	if err := checkShape(rpn, sp); err != nil {
		return nil, err
	}
	return &Expression{RPN: rpn, Span: sp}, nil
}

// checkShape simulates the operand stack over the postfix sequence so
// every later walk over it (evaluation, typing, tree building) sees a
// balanced program. A bare `()` arrives here as a zero-length
// sequence: paren matching in shuntingYard accepts it without
// emitting anything.
func checkShape(rpn []ExprToken, sp source.Span) *diag.CompileError {
	if len(rpn) == 0 {
		return diag.ErrorfAt(diag.SynEmptyExpression, sp, "empty expression in file")
	}
	depth := 0
	for _, t := range rpn {
		if t.Kind == OpTok {
			if depth < t.Op.Arity() {
				return diag.ErrorfAt(diag.SynStackImbalance, t.Span,
					"zero values in expression")
			}
			depth -= t.Op.Arity() - 1
			continue
		}
		depth++
	}
	if depth > 1 {
		return diag.ErrorfAt(diag.SynStackImbalance, sp,
			"too many values in expression")
	}
	return nil
}

// FoldScope replaces variable entries with concrete values wherever sc
// already has a binding for them. Optional and idempotent; evaluation
// never requires it.
func (e *Expression) FoldScope(sc *scope.Scope) {
	for i := range e.RPN {
		t := &e.RPN[i]
		if t.Kind != VarTok {
			continue
		}
		if v, ok := sc.Value(t.Slot); ok {
			*t = ExprToken{Kind: ValueTok, Val: v, Span: t.Span}
		}
	}
}

// toExprTokens lowers lexer tokens into engine tokens: constants pass
// through, operator lexemes map to operator kinds, identifiers resolve
// to variable slots or compiled calls. A trailing post-pass
// reinterprets Sub as unary Neg when it starts the expression or
// follows another operator or a left paren.
func toExprTokens(tokens []token.Token, res Resolver, interner *source.Interner) ([]ExprToken, *diag.CompileError) {
	if len(tokens) == 0 {
		return nil, diag.Errorf(diag.SynEmptyExpression, "empty expression in file")
	}

	var out []ExprToken
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Kind == token.EOF:
			// Bounded spans normally exclude EOF; tolerate it.

		case tok.Kind == token.NumLit:
			out = append(out, ExprToken{Kind: ValueTok, Val: tok.Value, Span: tok.Span})

		case tok.Kind == token.LParen:
			out = append(out, ExprToken{Kind: LParenTok, Span: tok.Span})

		case tok.Kind == token.RParen:
			out = append(out, ExprToken{Kind: RParenTok, Span: tok.Span})

		case tok.IsOperator():
			op, ok := FromToken(tok.Kind)
			if !ok {
				return nil, diag.ErrorfAt(diag.SynUnexpectedToken, tok.Span,
					"unexpected operator in expression: `%s`", tok.Kind)
			}
			out = append(out, ExprToken{Kind: OpTok, Op: op, Span: tok.Span})

		case tok.Kind == token.Ident:
			isCall := i+1 < len(tokens) && tokens[i+1].Kind == token.LParen
			if !isCall {
				slot, ok := res.VarSlot(tok.Ident)
				if !ok {
					return nil, diag.ErrorfAt(diag.SynUnresolvedVariable, tok.Span,
						"variable `%s` appears in expression but is not defined in scope",
						interner.MustLookup(tok.Ident))
				}
				out = append(out, ExprToken{Kind: VarTok, Slot: slot, ID: tok.Ident, Span: tok.Span})
				continue
			}

			// Forward scan for the matching close paren.
			end, err := matchCall(tokens, i, tok.Span)
			if err != nil {
				return nil, err
			}
			fn, ok := res.Func(tok.Ident)
			if !ok {
				return nil, diag.ErrorfAt(diag.SynUnresolvedFunction, tok.Span,
					"function `%s` appears in expression but is not defined in scope",
					interner.MustLookup(tok.Ident))
			}
			call, err := compileCall(tokens[i:end+1], fn, res, interner)
			if err != nil {
				return nil, err
			}
			out = append(out, ExprToken{Kind: FnTok, Call: call, Span: call.Span})
			i = end

		default:
			return nil, diag.ErrorfAt(diag.SynUnexpectedToken, tok.Span,
				"unexpected token in expression `%s`", tok.Kind)
		}
	}

	for i := range out {
		if out[i].Kind != OpTok || out[i].Op != OpSub {
			continue
		}
		if i == 0 || out[i-1].Kind == OpTok || out[i-1].Kind == LParenTok {
			out[i].Op = OpNeg
		}
	}

	return out, nil
}

// matchCall scans forward from the callee at index i, tracking paren
// depth, and returns the index of the close paren that balances the
// call.
func matchCall(tokens []token.Token, i int, calleeSpan source.Span) (int, *diag.CompileError) {
	depth := 0
	for j := i + 1; j < len(tokens); j++ {
		switch tokens[j].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
		if depth == 0 && j > i+1 {
			return j, nil
		}
	}
	return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, calleeSpan,
		"unexpected end of file in function call")
}

// shuntingYard converts the infix token sequence to postfix form using
// an auxiliary operator stack.
func shuntingYard(tokens []ExprToken) ([]ExprToken, *diag.CompileError) {
	var out, stack []ExprToken

	for _, t := range tokens {
		switch t.Kind {
		case ValueTok, VarTok, FnTok:
			out = append(out, t)

		case OpTok:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != OpTok {
					break
				}
				if (!t.Op.RightAssoc() && t.Op.Precedence() <= top.Op.Precedence()) ||
					t.Op.Precedence() < top.Op.Precedence() {
					stack = stack[:len(stack)-1]
					out = append(out, top)
				} else {
					break
				}
			}
			stack = append(stack, t)

		case LParenTok:
			stack = append(stack, t)

		case RParenTok:
			foundLeft := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == LParenTok {
					foundLeft = true
					break
				}
				if top.Kind != OpTok {
					panic(fmt.Sprintf("expr: unexpected value on operator stack: %v", top.Kind))
				}
				out = append(out, top)
			}
			if !foundLeft {
				return nil, diag.ErrorfAt(diag.SynMismatchedParens, t.Span,
					"mismatched parens: skewed right")
			}
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		switch top.Kind {
		case OpTok:
			stack = stack[:len(stack)-1]
			out = append(out, top)
		case LParenTok, RParenTok:
			return nil, diag.ErrorfAt(diag.SynMismatchedParens, top.Span,
				"mismatched parens: skewed left")
		default:
			panic(fmt.Sprintf("expr: non operator on stack: %v", top.Kind))
		}
	}

	return out, nil
}
