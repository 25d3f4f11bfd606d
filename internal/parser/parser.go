// Package parser builds the syntax tree by recursive descent. Parsing
// is capability based: every sub-parse receives a bounded token span
// plus a scope handle, and name resolution happens during parsing by
// one token of lookahead, not in a separate pass.
package parser

import (
	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/expr"
	"synthizer/internal/scope"
	"synthizer/internal/source"
	"synthizer/internal/token"
)

type Options struct {
	// Reporter receives parse diagnostics batched at item granularity.
	Reporter diag.Reporter
}

type Parser struct {
	interner *source.Interner
	opts     Options
}

func New(interner *source.Interner, opts Options) *Parser {
	return &Parser{interner: interner, opts: opts}
}

func (p *Parser) report(err *diag.CompileError) {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(err.Diagnostic())
	}
}

// ParseRoot parses the whole token stream into top-level items. A
// failed item is reported and skipped; parsing resumes at the next
// item boundary, so one bad definition does not hide the rest.
func (p *Parser) ParseRoot(ts *TokenStream, sc *scope.Scope) *ast.Root {
	root := &ast.Root{}

	for !ts.Empty() {
		start := ts.Pos()
		end, err := p.itemExtent(ts)
		if err != nil {
			p.report(err)
			if !p.recoverToItem(ts) {
				return root
			}
			continue
		}
		item, err := p.parseItem(ts.Slice(start, end), sc)
		ts.SetPos(end)
		if err != nil {
			p.report(err)
			continue
		}
		root.Items = append(root.Items, item)
	}

	return root
}

// recoverToItem consumes tokens after a failed item extent so parsing
// can resume at the next plausible item. It stops after a top-level
// `;` or in front of a token that can begin an item, and reports
// whether any resume point was found before the stream ran out.
func (p *Parser) recoverToItem(ts *TokenStream) bool {
	depth := 0
	for !ts.Empty() {
		t, _ := ts.Next()
		switch t.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.Semicolon:
			if depth == 0 {
				return true
			}
		}
		if depth == 0 {
			if next, ok := ts.Peek(0); ok &&
				(next.Kind == token.LBracket || next.Kind == token.Ident) {
				return true
			}
		}
	}
	return false
}

// itemExtent scans forward from the current position to find where the
// item ends, without consuming the stream. A `[` item covers its
// bracketed header plus either a brace-matched block or an
// expression up to the next top-level `;`; an assignment runs to its
// `;`.
func (p *Parser) itemExtent(ts *TokenStream) (int, *diag.CompileError) {
	first, _ := ts.Peek(0)

	switch first.Kind {
	case token.LBracket:
		i := ts.Pos()
		depth := 0
		for ; ; i++ {
			t, ok := ts.Peek(i - ts.Pos())
			if !ok {
				return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
					"expected `]` to close function header, got EOF")
			}
			if t.Kind == token.LBracket {
				depth++
			} else if t.Kind == token.RBracket {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		i++ // past `]`

		body, ok := ts.Peek(i - ts.Pos())
		if !ok {
			return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected block, got EOF")
		}
		if body.Kind == token.LBrace {
			depth = 0
			for ; ; i++ {
				t, ok := ts.Peek(i - ts.Pos())
				if !ok {
					return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
						"expected `}` to close block, got EOF")
				}
				if t.Kind == token.LBrace {
					depth++
				} else if t.Kind == token.RBrace {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			return i + 1, nil
		}
		return p.scanToSemicolon(ts, i, "expected `;` to end function body, got EOF")

	case token.Ident:
		return p.scanToSemicolon(ts, ts.Pos(), "expected `;` to end assignment, got EOF")

	default:
		return 0, diag.ErrorfAt(diag.SynUnexpectedToken, first.Span,
			"expected `[` or an assignment, got `%s`", first.Kind)
	}
}

// scanToSemicolon returns the index one past the first top-level `;`
// at or after index i.
func (p *Parser) scanToSemicolon(ts *TokenStream, i int, eofMsg string) (int, *diag.CompileError) {
	depth := 0
	for ; ; i++ {
		t, ok := ts.Peek(i - ts.Pos())
		if !ok {
			return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(), eofMsg)
		}
		switch t.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		case token.Semicolon:
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
}

func (p *Parser) parseItem(ts *TokenStream, sc *scope.Scope) (ast.Item, *diag.CompileError) {
	first, _ := ts.Peek(0)
	if first.Kind == token.LBracket {
		return p.ParseFunctionDef(ts, sc)
	}
	return p.parseAssignment(ts, sc)
}

// parseAssignment parses `name = expression ;`. The variable becomes
// visible to the items that follow it; the expression itself is
// compiled against the scope as it was, so self-reference fails.
func (p *Parser) parseAssignment(ts *TokenStream, sc *scope.Scope) (*ast.Assignment, *diag.CompileError) {
	name, _ := ts.Next()
	eq, ok := ts.Next()
	if !ok {
		return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
			"expected `=`, got EOF")
	}
	if eq.Kind != token.Assign {
		return nil, diag.ErrorfAt(diag.SynUnexpectedToken, eq.Span,
			"expected `=`, got `%s`", eq.Kind)
	}

	// The item extent guarantees the trailing `;`.
	rest := ts.Rest()
	body := rest[:len(rest)-1]
	semi := rest[len(rest)-1]

	x, err := expr.Compile(body, sc, p.interner)
	if err != nil {
		return nil, err.WithPos(name.Span)
	}
	sc.DefineVar(name.Ident)

	return &ast.Assignment{
		Ident: ast.At(name.Ident, name.Span),
		X:     x,
		Pos:   name.Span.Cover(semi.Span),
	}, nil
}
