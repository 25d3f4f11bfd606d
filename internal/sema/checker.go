// Package sema resolves symbol types over the parsed program. It only
// runs on compilations with no earlier errors.
//
// Function bodies are typed lazily: a definition first registers its
// symbol and captures the active block chain, and the body is resolved
// on the first call that needs its result (or in a final sweep). Body
// resolution re-enters the captured chain, so a function currently on
// the active stack calling itself is detected as a scope cycle and
// typed Indeterminate until the outer resolution finishes.
package sema

import (
	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/expr"
	"synthizer/internal/source"
	"synthizer/internal/types"
)

type Checker struct {
	table    *types.TypeTable
	interner *source.Interner
	reporter diag.Reporter

	results map[*ast.FunctionDef]types.Type
	topDefs map[source.StringID]*ast.FunctionDef
}

func New(table *types.TypeTable, interner *source.Interner, rep diag.Reporter) *Checker {
	return &Checker{
		table:    table,
		interner: interner,
		reporter: rep,
		results:  map[*ast.FunctionDef]types.Type{},
		topDefs:  map[source.StringID]*ast.FunctionDef{},
	}
}

func (c *Checker) report(err *diag.CompileError) {
	if c.reporter != nil {
		c.reporter.Report(err.Diagnostic())
	}
}

// Check resolves every item's type into the table. Errors are batched
// at item granularity. After the walk, any symbol whose type never
// settled is reported: Indeterminate must not survive to final output.
func (c *Checker) Check(root *ast.Root) {
	var pending []*ast.FunctionDef

	for _, item := range root.Items {
		switch it := item.(type) {
		case *ast.Assignment:
			ty, err := c.typeOfExpr(it.X)
			if err != nil {
				c.report(err)
				continue
			}
			c.table.SetType(it.Ident.Item, it.Ident.Span, ty)

		case *ast.FunctionDef:
			c.declareDef(it)
			c.topDefs[it.Ident.Item] = it
			pending = append(pending, it)

		default:
			continue
		}
	}

	// Sweep the definitions nothing called.
	for _, def := range pending {
		if _, err := c.resultOf(def); err != nil {
			c.report(err)
		}
	}

	for _, sym := range c.table.Unresolved() {
		c.report(diag.ErrorfAt(diag.SemIndeterminateType, sym.Span,
			"type of `%s` could not be determined",
			c.interner.MustLookup(sym.ID)))
	}
}

// declareDef registers the definition's symbol in the innermost open
// block and captures the lexical chain its body must be resolved under.
func (c *Checker) declareDef(def *ast.FunctionDef) {
	key := defKey(def)
	def.Chain = append(c.table.Scope(), key)
	c.table.SetType(def.Ident.Item, def.Ident.Span, types.FunctionType(def.Ident.Item))
}

// resultOf resolves the definition's return type, typing the body on
// first use. The body is typed under the captured chain restored in
// bulk, with the definition's own block innermost.
func (c *Checker) resultOf(def *ast.FunctionDef) (types.Type, *diag.CompileError) {
	if ty, ok := c.results[def]; ok {
		return ty, nil
	}

	c.table.EnterScope(def.Chain)
	for i := range def.ParamSet {
		p := &def.ParamSet[i]
		c.table.SetType(p.Name.Item, p.Name.Span, types.NumberType())
	}
	ty, err := c.typeOfStatement(def.Body)
	c.table.LeaveBlock()
	if err != nil {
		return types.Type{}, err
	}

	if ty.Kind == types.Indeterminate {
		return types.Type{}, diag.ErrorfAt(diag.SemIndeterminateType, def.Ident.Span,
			"recursive definition of `%s` never resolves to a concrete type", def.Name())
	}
	c.results[def] = ty
	return ty, nil
}

func (c *Checker) typeOfStatement(st ast.Statement) (types.Type, *diag.CompileError) {
	switch s := st.(type) {
	case *ast.ExprStatement:
		return c.typeOfExpr(s.X)

	case *ast.ClosureStatement:
		c.declareDef(s.Def)
		return types.FunctionType(s.Def.Ident.Item), nil

	case *ast.BlockStatement:
		for i := range s.Entries {
			e := &s.Entries[i]
			ty, err := c.typeOfStatement(e.Body)
			if err != nil {
				return types.Type{}, err
			}
			if e.Op != expr.OpInvalid && ty.Kind == types.Boolean {
				return types.Type{}, diag.ErrorfAt(diag.SemTypeMismatch, e.Body.Span(),
					"block entry must yield a Number, got %s", ty)
			}
			if e.Guard != nil {
				gty, err := c.typeOfExpr(e.Guard)
				if err != nil {
					return types.Type{}, err
				}
				if gty.Kind == types.Number {
					return types.Type{}, diag.ErrorfAt(diag.SemGuardNotBoolean, e.Guard.Span,
						"guard condition must be a Boolean, got %s", gty)
				}
			}
		}
		return types.NumberType(), nil

	default:
		panic("sema: unknown statement type")
	}
}

// defKey returns the block key of a definition: the offset of its
// body's opening brace, or of the header's `[` for expression bodies.
func defKey(def *ast.FunctionDef) types.BlockKey {
	if bs, ok := def.Body.(*ast.BlockStatement); ok {
		return types.BlockKey(bs.Key())
	}
	return types.BlockKey(def.Pos.Start)
}

// Entrypoint verifies that name is defined, is a function, and has the
// declared signature: one Number parameter to a Number result.
func (c *Checker) Entrypoint(name source.StringID) (*ast.FunctionDef, *diag.CompileError) {
	spelled := c.interner.MustLookup(name)

	sym, _, ok := c.table.GetSymbol(name)
	if !ok {
		return nil, diag.Errorf(diag.SemEntrypointNotFound,
			"entry point `%s` is not defined", spelled)
	}
	if sym.Ty.Kind != types.Function {
		return nil, diag.ErrorfAt(diag.SemEntrypointSignature, sym.Span,
			"entry point `%s` is not a function, got %s", spelled, sym.Ty)
	}
	def, ok := c.topDefs[name]
	if !ok {
		return nil, diag.ErrorfAt(diag.SemEntrypointSignature, sym.Span,
			"entry point `%s` must be defined at the top level", spelled)
	}
	if len(def.ParamSet) != 1 {
		return nil, diag.ErrorfAt(diag.SemEntrypointSignature, def.Ident.Span,
			"entry point `%s` must take exactly one Number argument, got %d",
			spelled, len(def.ParamSet))
	}
	ret, err := c.resultOf(def)
	if err != nil {
		return nil, err
	}
	if ret.Kind != types.Number {
		return nil, diag.ErrorfAt(diag.SemEntrypointSignature, def.Ident.Span,
			"entry point `%s` must return a Number, got %s", spelled, ret)
	}
	return def, nil
}
