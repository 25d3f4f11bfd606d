package ast

import (
	"synthizer/internal/diag"
	"synthizer/internal/scope"
	"synthizer/internal/source"
	"synthizer/internal/types"
)

// Param is one declared function parameter. Names are unique within a
// definition, enforced at parse time.
type Param struct {
	Name       Node[source.StringID]
	Default    float64
	HasDefault bool
}

// FunctionDef is a parsed `[name args] body` definition. It implements
// scope.Function: calling it binds arguments over the definition's own
// compile scope and evaluates the body.
type FunctionDef struct {
	Ident    Node[source.StringID]
	ParamSet []Param
	Body     Statement // set once the body has been parsed
	Pos      source.Span

	// Captured lexical context: the scope the body was compiled
	// against and the active block chain at the definition site, used
	// to re-enter the captured scopes during type resolution.
	Env   *scope.Scope
	Chain []types.BlockKey

	interner *source.Interner
}

// NewFunctionDef starts a definition with its header parsed. env is
// the definition's own scope: parameters declared as variables plus
// every function visible at the definition site, the definition itself
// included so recursive bodies compile.
func NewFunctionDef(ident Node[source.StringID], env *scope.Scope, interner *source.Interner) *FunctionDef {
	return &FunctionDef{Ident: ident, Env: env, interner: interner}
}

func (d *FunctionDef) Span() source.Span { return d.Pos }

// Name returns the source spelling of the definition's identifier.
func (d *FunctionDef) Name() string {
	return d.interner.MustLookup(d.Ident.Item)
}

// HasParam reports whether name is already declared.
func (d *FunctionDef) HasParam(name source.StringID) bool {
	for i := range d.ParamSet {
		if d.ParamSet[i].Name.Item == name {
			return true
		}
	}
	return false
}

// AddParam declares a parameter and its slot in the definition scope.
func (d *FunctionDef) AddParam(p Param) {
	d.ParamSet = append(d.ParamSet, p)
	d.Env.DefineVar(p.Name.Item)
}

// Params returns the declared parameter names in declaration order.
func (d *FunctionDef) Params() []source.StringID {
	out := make([]source.StringID, len(d.ParamSet))
	for i := range d.ParamSet {
		out[i] = d.ParamSet[i].Name.Item
	}
	return out
}

// Default returns the declared default for a parameter.
func (d *FunctionDef) Default(param source.StringID) (float64, bool) {
	for i := range d.ParamSet {
		if p := &d.ParamSet[i]; p.Name.Item == param {
			return p.Default, p.HasDefault
		}
	}
	return 0, false
}

// Call evaluates the body against a fresh frame: the definition scope
// cloned, each parameter bound from args or its default. Cloning keeps
// recursive invocations independent.
func (d *FunctionDef) Call(args map[source.StringID]float64) (float64, error) {
	frame := d.Env.Clone()
	for i := range d.ParamSet {
		p := &d.ParamSet[i]
		v, bound := args[p.Name.Item]
		if !bound {
			if !p.HasDefault {
				return 0, diag.ErrorfAt(diag.SynMissingArgument, d.Ident.Span,
					"argument `%s` to `%s` has no value",
					d.interner.MustLookup(p.Name.Item), d.Name())
			}
			v = p.Default
		}
		slot, ok := frame.VarSlot(p.Name.Item)
		if !ok {
			panic("ast: parameter missing from definition scope")
		}
		frame.SetValue(slot, v)
	}
	v, err := d.Body.Eval(frame)
	if err != nil {
		return 0, err
	}
	return v, nil
}
