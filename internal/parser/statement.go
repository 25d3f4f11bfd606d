package parser

import (
	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/expr"
	"synthizer/internal/scope"
	"synthizer/internal/token"
)

// ParseStatement parses a function body: a `{`-prefixed block of
// entries, a nested `[...]` closure definition, or a single
// expression spanning the whole bounded stream.
func (p *Parser) ParseStatement(ts *TokenStream, sc *scope.Scope) (ast.Statement, *diag.CompileError) {
	first, ok := ts.Peek(0)
	if !ok {
		return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
			"expected statement, got EOF")
	}

	switch first.Kind {
	case token.LBrace:
		return p.parseBlock(ts, sc)

	case token.LBracket:
		def, err := p.ParseFunctionDef(ts, sc)
		if err != nil {
			return nil, err
		}
		return &ast.ClosureStatement{Def: def, Pos: def.Pos}, nil

	default:
		// A top-level expression body keeps its terminating `;` in
		// the item extent; entry bodies arrive without one.
		rest := ts.Rest()
		if n := len(rest); n > 0 && rest[n-1].Kind == token.Semicolon {
			rest = rest[:n-1]
		}
		x, err := expr.Compile(rest, sc, p.interner)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStatement{X: x, Pos: x.Span}, nil
	}
}

// parseBlock parses `{ (<op> <body> (? <guard>)? ;)* }`. Each entry's
// body and guard are sliced out of the stream and parsed recursively;
// guards get a cloned scope since they evolve independently of their
// host statement. A bare `;` is skipped. A closure entry starts with
// `[` directly and registers its definition into the block's scope so
// later entries can call it.
func (p *Parser) parseBlock(ts *TokenStream, sc *scope.Scope) (ast.Statement, *diag.CompileError) {
	lbrace, _ := ts.Next()
	block := &ast.BlockStatement{LBrace: lbrace.Span}

	for {
		lead, ok := ts.Peek(0)
		if !ok {
			return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected operator, `;` or `}`, got EOF")
		}

		op := expr.OpInvalid
		switch {
		case lead.Kind == token.Semicolon:
			ts.Next()
			continue
		case lead.Kind == token.RBrace:
			ts.Next()
			block.Pos = lbrace.Span.Cover(lead.Span)
			return block, nil
		case lead.Kind == token.LBracket:
			// Closure entry; no folding operator.
		case lead.IsOperator():
			ts.Next()
			var binary bool
			op, binary = entryOperator(lead.Kind)
			if !binary {
				return nil, diag.ErrorfAt(diag.SynUnexpectedToken, lead.Span,
					"operator `%s` cannot start a block entry", lead.Kind)
			}
		default:
			return nil, diag.ErrorfAt(diag.SynUnexpectedToken, lead.Span,
				"expected operator, `;` or `}`, got `%s`", lead.Kind)
		}

		entry, err := p.parseEntry(ts, sc, op, lead.Kind == token.LBracket)
		if err != nil {
			return nil, err
		}
		block.Entries = append(block.Entries, entry)
	}
}

// parseEntry consumes one entry's body tokens up to its `;`, slicing
// out a guard if a `?` intervenes.
func (p *Parser) parseEntry(ts *TokenStream, sc *scope.Scope, op expr.Operator, closure bool) (ast.BlockEntry, *diag.CompileError) {
	start := ts.Pos()

	// A nested block body is brace-matched first so its own `;`
	// tokens do not end the entry.
	if next, ok := ts.Peek(0); ok && next.Kind == token.LBrace {
		if err := p.matchBraces(ts); err != nil {
			return ast.BlockEntry{}, err
		}
	}
	if closure {
		if err := p.skipClosure(ts); err != nil {
			return ast.BlockEntry{}, err
		}
	}

	var guard *expr.Expression
	var bodyEnd int
	for {
		pos := ts.Pos()
		next, ok := ts.Next()
		if !ok {
			return ast.BlockEntry{}, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected `;` or `?` to end expression, got EOF")
		}
		if next.Kind == token.Semicolon {
			bodyEnd = pos
			break
		}
		if next.Kind == token.Question {
			bodyEnd = pos
			g, err := p.parseGuard(ts, sc)
			if err != nil {
				return ast.BlockEntry{}, err
			}
			guard = g
			break
		}
	}

	var body ast.Statement
	var err *diag.CompileError
	if closure {
		// The closure registers into the block's own scope.
		body, err = p.ParseStatement(ts.Slice(start, bodyEnd), sc)
	} else {
		body, err = p.ParseStatement(ts.Slice(start, bodyEnd), sc.Clone())
	}
	if err != nil {
		return ast.BlockEntry{}, err
	}

	pos := body.Span()
	if guard != nil {
		pos = pos.Cover(guard.Span)
	}
	return ast.BlockEntry{Op: op, Guard: guard, Body: body, Pos: pos}, nil
}

// parseGuard consumes the condition tokens after `?` up to the
// terminating `;` and compiles them against a cloned scope.
func (p *Parser) parseGuard(ts *TokenStream, sc *scope.Scope) (*expr.Expression, *diag.CompileError) {
	start := ts.Pos()
	for {
		pos := ts.Pos()
		next, ok := ts.Next()
		if !ok {
			return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected `;` to end condition, got EOF")
		}
		if next.Kind == token.Semicolon {
			return expr.Compile(ts.Tokens(start, pos), sc.Clone(), p.interner)
		}
	}
}

// matchBraces consumes a balanced `{ ... }` region starting at the
// current position.
func (p *Parser) matchBraces(ts *TokenStream) *diag.CompileError {
	depth := 0
	for {
		next, ok := ts.Next()
		if !ok {
			return diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected `}` to close block, got EOF")
		}
		switch next.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// skipClosure consumes a closure's `[ ... ]` header and, when present,
// its brace-matched block body, leaving expression bodies to the
// surrounding `;` scan.
func (p *Parser) skipClosure(ts *TokenStream) *diag.CompileError {
	depth := 0
	for {
		next, ok := ts.Next()
		if !ok {
			return diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected `]` to close function header, got EOF")
		}
		switch next.Kind {
		case token.LBracket:
			depth++
		case token.RBracket:
			depth--
			if depth == 0 {
				if next, ok := ts.Peek(0); ok && next.Kind == token.LBrace {
					return p.matchBraces(ts)
				}
				return nil
			}
		}
	}
}

// entryOperator maps an entry's leading token to its folding operator.
// Only binary operators can fold an entry into the accumulator.
func entryOperator(k token.Kind) (expr.Operator, bool) {
	op, ok := expr.FromToken(k)
	if !ok || op.Arity() != 2 {
		return expr.OpInvalid, false
	}
	return op, true
}
