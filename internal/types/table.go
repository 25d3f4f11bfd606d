// Package types holds the scope-aware symbol and type table.
//
// Lexical blocks are kept in a flat map keyed by the block's opening
// byte offset, with an explicit stack of active keys on the side. The
// flat form reproduces shadowing and bulk enter/leave without a
// parent-linked tree of shared nodes.
package types

import (
	"slices"

	"synthizer/internal/source"
)

// TypeTable maps active lexical blocks to their declared symbols.
//
// The scope stack always starts with the outermost block (key 0) and
// that entry is never removed. depths records how many levels each
// enter pushed so the matching LeaveBlock pops the same count.
type TypeTable struct {
	symbols map[BlockKey]map[source.StringID]*Symbol
	scope   []BlockKey
	depths  []int
}

func NewTable() *TypeTable {
	return &TypeTable{
		symbols: map[BlockKey]map[source.StringID]*Symbol{0: {}},
		scope:   []BlockKey{0},
		depths:  []int{1},
	}
}

// EnterBlock opens one nested block keyed by its source offset.
func (t *TypeTable) EnterBlock(key BlockKey) {
	t.scope = append(t.scope, key)
	t.depths = append(t.depths, 1)
	if _, ok := t.symbols[key]; !ok {
		t.symbols[key] = map[source.StringID]*Symbol{}
	}
}

// EnterScope pushes a precomputed multi-level chain at once. Used to
// restore a closure's captured lexical context; the matching LeaveBlock
// removes the whole chain.
func (t *TypeTable) EnterScope(chain []BlockKey) {
	t.scope = append(t.scope, chain...)
	t.depths = append(t.depths, len(chain))
	for _, key := range chain {
		if _, ok := t.symbols[key]; !ok {
			t.symbols[key] = map[source.StringID]*Symbol{}
		}
	}
}

// LeaveBlock closes the levels pushed by the matching EnterBlock or
// EnterScope. Leaving the outermost scope is a defect in the caller,
// never in user input, so it panics.
func (t *TypeTable) LeaveBlock() {
	if len(t.depths) <= 1 {
		panic("types: tried to leave the outermost scope")
	}
	n := t.depths[len(t.depths)-1]
	t.depths = t.depths[:len(t.depths)-1]
	t.scope = t.scope[:len(t.scope)-n]
}

// HasScopeCycle reports whether key is already on the active stack,
// i.e. the block is currently being resolved further up the call chain.
func (t *TypeTable) HasScopeCycle(key BlockKey) bool {
	return slices.Contains(t.scope, key)
}

// Scope returns a copy of the active scope chain, outermost first.
func (t *TypeTable) Scope() []BlockKey {
	return slices.Clone(t.scope)
}

// SetType declares or updates id in the innermost open block. A
// same-named symbol in an outer block is shadowed, never overwritten.
func (t *TypeTable) SetType(id source.StringID, span source.Span, ty Type) {
	key := t.scope[len(t.scope)-1]
	m := t.symbols[key]
	if sym, ok := m[id]; ok {
		sym.Ty = ty
		return
	}
	m[id] = &Symbol{
		Scope: slices.Clone(t.scope),
		ID:    id,
		Span:  span,
		Ty:    ty,
	}
}

// GetSymbol walks the active scope stack innermost to outermost and
// returns the first match plus the number of levels crossed (0 means
// the innermost block). Later stages use the depth to tell whether a
// reference crosses a function boundary.
func (t *TypeTable) GetSymbol(id source.StringID) (*Symbol, int, bool) {
	return t.GetSymbolWithin(t.scope, id)
}

// GetSymbolWithin looks id up against an explicit scope chain instead
// of the active stack.
func (t *TypeTable) GetSymbolWithin(scope []BlockKey, id source.StringID) (*Symbol, int, bool) {
	for depth := 0; depth < len(scope); depth++ {
		key := scope[len(scope)-1-depth]
		if m, ok := t.symbols[key]; ok {
			if sym, ok := m[id]; ok {
				return sym, depth, true
			}
		}
	}
	return nil, 0, false
}

// Unresolved returns every symbol whose type is still Indeterminate or
// was never set. A finished compilation must report these as type
// errors rather than expose them.
func (t *TypeTable) Unresolved() []*Symbol {
	var out []*Symbol
	for _, m := range t.symbols {
		for _, sym := range m {
			if !sym.Ty.IsResolved() {
				out = append(out, sym)
			}
		}
	}
	return out
}
