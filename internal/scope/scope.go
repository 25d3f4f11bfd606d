// Package scope holds the runtime name environment used while parsing
// and evaluating: variable slots and the function registry.
//
// A Scope is passed by reference into nested parses and cloned only
// where two sub-parses must diverge independently, e.g. a guard
// expression parsed alongside its host statement.
package scope

import (
	"maps"
	"slices"

	"synthizer/internal/source"
)

// Function is anything callable from an expression. Parameter names
// are exposed so ordered calls can bind positionally; defaults so
// operator-assign arguments can start from the declared value.
type Function interface {
	// Params returns the declared parameter names in declaration order.
	Params() []source.StringID
	// Default returns the declared default value for a parameter.
	Default(param source.StringID) (float64, bool)
	// Call evaluates the function with the given argument bindings.
	Call(args map[source.StringID]float64) (float64, error)
}

// Scope maps identifiers to variable slots and registered functions.
// Variable slots separate declaration (compile time) from binding
// (evaluation time): a compiled expression references slots, and the
// same compiled form can be evaluated against different bindings.
type Scope struct {
	varSlots map[source.StringID]int
	varNames []source.StringID // slot -> identifier
	values   []slotValue
	funcs    map[source.StringID]Function
}

type slotValue struct {
	val float64
	set bool
}

func New() *Scope {
	return &Scope{
		varSlots: map[source.StringID]int{},
		funcs:    map[source.StringID]Function{},
	}
}

// Clone returns an independently evolving copy. Registered functions
// are shared; slot tables and bindings are copied.
func (s *Scope) Clone() *Scope {
	return &Scope{
		varSlots: maps.Clone(s.varSlots),
		varNames: slices.Clone(s.varNames),
		values:   slices.Clone(s.values),
		funcs:    maps.Clone(s.funcs),
	}
}

// DefineVar declares a variable and returns its slot. Re-declaring an
// existing name returns the existing slot.
func (s *Scope) DefineVar(id source.StringID) int {
	if slot, ok := s.varSlots[id]; ok {
		return slot
	}
	slot := len(s.varNames)
	s.varSlots[id] = slot
	s.varNames = append(s.varNames, id)
	s.values = append(s.values, slotValue{})
	return slot
}

// VarSlot resolves a variable name to its slot.
func (s *Scope) VarSlot(id source.StringID) (int, bool) {
	slot, ok := s.varSlots[id]
	return slot, ok
}

// VarName returns the identifier a slot was declared under.
func (s *Scope) VarName(slot int) source.StringID {
	if slot < 0 || slot >= len(s.varNames) {
		return source.NoStringID
	}
	return s.varNames[slot]
}

// SetValue binds a value to a declared slot.
func (s *Scope) SetValue(slot int, v float64) {
	s.values[slot] = slotValue{val: v, set: true}
}

// Value returns the binding for a slot, if one has been set.
func (s *Scope) Value(slot int) (float64, bool) {
	if slot < 0 || slot >= len(s.values) {
		return 0, false
	}
	sv := s.values[slot]
	return sv.val, sv.set
}

// DefineFunc registers fn under id, shadowing any previous entry.
func (s *Scope) DefineFunc(id source.StringID, fn Function) {
	s.funcs[id] = fn
}

// Func resolves a function name.
func (s *Scope) Func(id source.StringID) (Function, bool) {
	fn, ok := s.funcs[id]
	return fn, ok
}
