package parser

import (
	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/scope"
	"synthizer/internal/token"
)

// ParseFunctionDef parses `[ name (arg (= signed-const)?)(, arg)* ] body`.
// The definition is registered into its own scope before the body is
// parsed so recursive bodies resolve, and into sc only once the whole
// definition parsed cleanly.
func (p *Parser) ParseFunctionDef(ts *TokenStream, sc *scope.Scope) (*ast.FunctionDef, *diag.CompileError) {
	open, ok := ts.Next()
	if !ok {
		return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(), "expected `[`, got EOF")
	}
	if open.Kind != token.LBracket {
		return nil, diag.ErrorfAt(diag.SynUnexpectedToken, open.Span,
			"expected `[`, got `%s`", open.Kind)
	}

	name, ok := ts.Next()
	if !ok {
		return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
			"expected function name, got EOF")
	}
	if name.Kind != token.Ident {
		return nil, diag.ErrorfAt(diag.SynUnexpectedToken, name.Span,
			"expected function name, got `%s`", name.Kind)
	}

	env := sc.Clone()
	def := ast.NewFunctionDef(ast.At(name.Ident, name.Span), env, p.interner)
	env.DefineFunc(name.Ident, def)

	if err := p.parseParams(ts, def); err != nil {
		return nil, err
	}

	if ts.Empty() {
		return nil, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
			"expected block, got EOF")
	}
	body, err := p.ParseStatement(ts.Slice(ts.Pos(), len(ts.toks)), env)
	if err != nil {
		return nil, err
	}
	def.Body = body
	def.Pos = open.Span.Cover(body.Span())

	sc.DefineFunc(name.Ident, def)
	return def, nil
}

// parseParams consumes the argument list up to and including the
// closing `]`. A duplicate name errors at its second occurrence; a
// default is an optionally sign-prefixed numeric constant.
func (p *Parser) parseParams(ts *TokenStream, def *ast.FunctionDef) *diag.CompileError {
	for {
		next, ok := ts.Next()
		if !ok {
			return diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected argument name or `]`, got EOF")
		}
		if next.Kind == token.RBracket {
			return nil
		}
		if next.Kind != token.Ident {
			return diag.ErrorfAt(diag.SynUnexpectedToken, next.Span,
				"expected argument name, got `%s`", next.Kind)
		}
		if def.HasParam(next.Ident) {
			return diag.ErrorfAt(diag.SynDuplicateArgument, next.Span,
				"argument `%s` defined twice", p.interner.MustLookup(next.Ident))
		}
		param := ast.Param{Name: ast.At(next.Ident, next.Span)}

		sep, ok := ts.Next()
		if ok && sep.Kind == token.Assign {
			val, err := p.parseSignedConst(ts)
			if err != nil {
				return err
			}
			param.Default = val
			param.HasDefault = true
			sep, ok = ts.Next()
		}

		switch {
		case !ok:
			return diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected `=`, `,` or `]`, got EOF")
		case sep.Kind == token.Comma:
			def.AddParam(param)
		case sep.Kind == token.RBracket:
			def.AddParam(param)
			return nil
		default:
			return diag.ErrorfAt(diag.SynUnexpectedToken, sep.Span,
				"expected `=`, `,` or `]`, got `%s`", sep.Kind)
		}
	}
}

// parseSignedConst parses a numeric constant with an optional leading
// minus.
func (p *Parser) parseSignedConst(ts *TokenStream) (float64, *diag.CompileError) {
	next, ok := ts.Next()
	if !ok {
		return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
			"expected numerical constant, got EOF")
	}
	neg := false
	if next.Kind == token.Minus {
		neg = true
		next, ok = ts.Next()
		if !ok {
			return 0, diag.ErrorfAt(diag.SynUnexpectedEOF, ts.EndSpan(),
				"expected numerical constant, got EOF")
		}
	}
	if next.Kind != token.NumLit {
		return 0, diag.ErrorfAt(diag.SynUnexpectedToken, next.Span,
			"expected numerical constant, got `%s`", next.Kind)
	}
	if neg {
		return -next.Value, nil
	}
	return next.Value, nil
}
