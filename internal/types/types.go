package types

import (
	"synthizer/internal/source"
)

// Kind enumerates the resolvable types of the language.
type Kind uint8

const (
	// Invalid marks a symbol whose type has not been resolved yet.
	Invalid Kind = iota
	// Number is the only value type: an IEEE float.
	Number
	// Boolean is the result of comparison and logic operators. At the
	// value boundary it collapses to the two sentinel floats.
	Boolean
	// Function is the type of a defined function, tagged with its name.
	Function
	// Indeterminate is the transient placeholder used while a
	// recursive definition is being resolved. It must never survive to
	// the final table.
	Indeterminate
)

// Type is the resolved type of a symbol. Fn is populated only for
// Function types and names the definition.
type Type struct {
	Kind Kind
	Fn   source.StringID
}

func NumberType() Type        { return Type{Kind: Number} }
func BooleanType() Type       { return Type{Kind: Boolean} }
func IndeterminateType() Type { return Type{Kind: Indeterminate} }

func FunctionType(fn source.StringID) Type {
	return Type{Kind: Function, Fn: fn}
}

func (t Type) IsResolved() bool {
	return t.Kind != Invalid && t.Kind != Indeterminate
}

func (t Type) String() string {
	switch t.Kind {
	case Number:
		return "Number"
	case Boolean:
		return "Boolean"
	case Function:
		return "Function"
	case Indeterminate:
		return "Indeterminate"
	default:
		return "Invalid"
	}
}

// BlockKey is the source byte offset of the brace (or bracket) that
// opens a lexical block. Key 0 is reserved for the outermost scope.
type BlockKey uint32

// Symbol is one declared name: the scope chain it was declared under,
// the interned identifier, the declaration span and the resolved type.
type Symbol struct {
	Scope []BlockKey
	ID    source.StringID
	Span  source.Span
	Ty    Type
}
