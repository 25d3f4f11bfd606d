package expr

import (
	"slices"

	"synthizer/internal/diag"
	"synthizer/internal/scope"
	"synthizer/internal/source"
	"synthizer/internal/token"
)

// CallStyle distinguishes `f(x=1, y=2)` from `f(1, 2)`. A single call
// must not mix the two.
type CallStyle uint8

const (
	OrderedCall CallStyle = iota
	NamedCall
)

func (s CallStyle) String() string {
	if s == NamedCall {
		return "named"
	}
	return "ordered"
}

// ArgKind tags the call-side argument forms.
type ArgKind uint8

const (
	// ArgExpr is a bare positional expression.
	ArgExpr ArgKind = iota
	// ArgAssign is `name = expr`.
	ArgAssign
	// ArgOpAssign is `name <op>= expr`: the parameter's declared
	// default combined with the expression value.
	ArgOpAssign
)

type CallArg struct {
	Kind ArgKind
	Name source.StringID // ArgAssign, ArgOpAssign
	Op   Operator        // ArgOpAssign
	Expr *Expression
	Span source.Span
}

// Call is a compiled function call: the resolved callee plus compiled
// argument expressions. Like Expression it is compiled once and
// evaluated many times.
type Call struct {
	Callee source.StringID
	Fn     scope.Function
	Style  CallStyle
	Args   []CallArg
	Span   source.Span
}

// compileCall compiles `ident ( args )`. tokens covers the whole call,
// callee included, with the close paren last.
func compileCall(tokens []token.Token, fn scope.Function, res Resolver, interner *source.Interner) (*Call, *diag.CompileError) {
	callee := tokens[0]
	sp := callee.Span.Cover(tokens[len(tokens)-1].Span)
	call := &Call{Callee: callee.Ident, Fn: fn, Span: sp}

	inner := tokens[2 : len(tokens)-1]
	segs := splitArgs(inner)

	name := func() string { return interner.MustLookup(callee.Ident) }

	for _, seg := range segs {
		if len(seg) == 0 {
			return nil, diag.ErrorfAt(diag.SynUnexpectedToken, sp,
				"empty argument in call to `%s`", name())
		}
		arg, err := compileArg(seg, res, interner)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}

	// Settle the call style from the first argument and reject mixes.
	for i, arg := range call.Args {
		style := OrderedCall
		if arg.Kind != ArgExpr {
			style = NamedCall
		}
		if i == 0 {
			call.Style = style
		} else if style != call.Style {
			return nil, diag.ErrorfAt(diag.SynMixedCallStyle, arg.Span,
				"mixed named and ordered arguments in call to `%s`", name())
		}
	}

	params := fn.Params()
	if call.Style == OrderedCall && len(call.Args) > len(params) {
		return nil, diag.ErrorfAt(diag.SynTooManyArguments, sp,
			"too many arguments in call to `%s`: expected at most %d, got %d",
			name(), len(params), len(call.Args))
	}
	if call.Style == NamedCall {
		for _, arg := range call.Args {
			if !slices.Contains(params, arg.Name) {
				return nil, diag.ErrorfAt(diag.SynUnknownArgument, arg.Span,
					"function `%s` has no argument `%s`",
					name(), interner.MustLookup(arg.Name))
			}
		}
	}

	return call, nil
}

// splitArgs splits the region between the call parens on top-level
// commas.
func splitArgs(inner []token.Token) [][]token.Token {
	if len(inner) == 0 {
		return nil
	}
	var segs [][]token.Token
	depth, start := 0, 0
	for i, t := range inner {
		switch t.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		case token.Comma:
			if depth == 0 {
				segs = append(segs, inner[start:i])
				start = i + 1
			}
		}
	}
	return append(segs, inner[start:])
}

func compileArg(seg []token.Token, res Resolver, interner *source.Interner) (CallArg, *diag.CompileError) {
	sp := seg[0].Span.Cover(seg[len(seg)-1].Span)

	// name = expr
	if len(seg) >= 2 && seg[0].Kind == token.Ident && seg[1].Kind == token.Assign {
		e, err := Compile(seg[2:], res, interner)
		if err != nil {
			return CallArg{}, err.WithPos(sp)
		}
		return CallArg{Kind: ArgAssign, Name: seg[0].Ident, Expr: e, Span: sp}, nil
	}

	// name <op>= expr; the operator and `=` lex as separate tokens.
	if len(seg) >= 3 && seg[0].Kind == token.Ident && seg[2].Kind == token.Assign {
		if op, ok := FromToken(seg[1].Kind); ok {
			e, err := Compile(seg[3:], res, interner)
			if err != nil {
				return CallArg{}, err.WithPos(sp)
			}
			return CallArg{Kind: ArgOpAssign, Name: seg[0].Ident, Op: op, Expr: e, Span: sp}, nil
		}
	}

	e, err := Compile(seg, res, interner)
	if err != nil {
		return CallArg{}, err.WithPos(sp)
	}
	return CallArg{Kind: ArgExpr, Expr: e, Span: sp}, nil
}

// Eval evaluates the argument expressions against the caller's scope,
// binds them to the callee's parameters and invokes the function.
func (c *Call) Eval(sc *scope.Scope) (float64, *diag.CompileError) {
	bindings := make(map[source.StringID]float64, len(c.Args))
	params := c.Fn.Params()

	for i, arg := range c.Args {
		v, err := arg.Expr.Eval(sc)
		if err != nil {
			return 0, err
		}
		switch arg.Kind {
		case ArgExpr:
			bindings[params[i]] = v
		case ArgAssign:
			bindings[arg.Name] = v
		case ArgOpAssign:
			def, ok := c.Fn.Default(arg.Name)
			if !ok {
				return 0, diag.ErrorfAt(diag.SynMissingArgument, arg.Span,
					"operator-assign argument requires a declared default value")
			}
			bindings[arg.Name] = binaryOp(arg.Op, def, v)
		}
	}

	v, err := c.Fn.Call(bindings)
	if err != nil {
		if ce, ok := err.(*diag.CompileError); ok {
			return 0, ce
		}
		return 0, diag.ErrorfAt(diag.SynUnexpectedToken, c.Span, "%s", err)
	}
	return v, nil
}
