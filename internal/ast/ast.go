package ast

import (
	"synthizer/internal/diag"
	"synthizer/internal/expr"
	"synthizer/internal/scope"
	"synthizer/internal/source"
)

// Root is the parsed program: top-level items in source order.
type Root struct {
	Items []Item
}

// Item is a top-level program element.
type Item interface {
	isItem()
	Span() source.Span
}

// Assignment is a top-level `name = expression;`.
type Assignment struct {
	Ident Node[source.StringID]
	X     *expr.Expression
	Pos   source.Span
}

func (*Assignment) isItem()             {}
func (a *Assignment) Span() source.Span { return a.Pos }

func (*FunctionDef) isItem() {}

// Statement is a function body: either a guarded block of entries or a
// single expression.
type Statement interface {
	isStatement()
	Span() source.Span
	// Eval computes the statement's numeric value against a scope with
	// bound variables.
	Eval(sc *scope.Scope) (float64, *diag.CompileError)
}

// ExprStatement is a body consisting of one expression.
type ExprStatement struct {
	X   *expr.Expression
	Pos source.Span
}

func (*ExprStatement) isStatement()        {}
func (s *ExprStatement) Span() source.Span { return s.Pos }

func (s *ExprStatement) Eval(sc *scope.Scope) (float64, *diag.CompileError) {
	return s.X.Eval(sc)
}

// BlockStatement is a `{`-prefixed sequence of entries. Its block key
// for scope purposes is the byte offset of the opening brace.
type BlockStatement struct {
	Entries []BlockEntry
	LBrace  source.Span
	Pos     source.Span
}

func (*BlockStatement) isStatement()        {}
func (s *BlockStatement) Span() source.Span { return s.Pos }

// Key returns the block key: the source offset of the opening brace.
func (s *BlockStatement) Key() uint32 { return s.LBrace.Start }

// BlockEntry is one `<op> <body> (? <guard>)? ;` entry. Closure
// entries carry no operator and contribute no value; they only define
// a function.
type BlockEntry struct {
	Op    expr.Operator    // OpInvalid for closure entries
	Guard *expr.Expression // nil when unguarded
	Body  Statement
	Pos   source.Span
}

// Eval folds the entries in order: the accumulator starts at zero and
// each entry whose guard holds combines its body value with the
// entry's operator. Entries with failing guards are skipped.
func (s *BlockStatement) Eval(sc *scope.Scope) (float64, *diag.CompileError) {
	acc := 0.0
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Op == expr.OpInvalid {
			continue
		}
		if e.Guard != nil {
			g, err := e.Guard.Eval(sc)
			if err != nil {
				return 0, err
			}
			if !expr.IsTruthy(g) {
				continue
			}
		}
		v, err := e.Body.Eval(sc)
		if err != nil {
			return 0, err
		}
		acc = expr.Apply(e.Op, acc, v)
	}
	return acc, nil
}

// ClosureStatement is a nested `[...]` definition inside a block. It
// registers a function in the enclosing scope and has no numeric value.
type ClosureStatement struct {
	Def *FunctionDef
	Pos source.Span
}

func (*ClosureStatement) isStatement()        {}
func (s *ClosureStatement) Span() source.Span { return s.Pos }

func (s *ClosureStatement) Eval(*scope.Scope) (float64, *diag.CompileError) {
	return 0, diag.ErrorfAt(diag.SynUnexpectedToken, s.Pos,
		"closure definition used as a value")
}
