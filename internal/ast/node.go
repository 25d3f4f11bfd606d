// Package ast defines the syntax tree: items, statements, function
// definitions and the recursive expression node model. Every node
// carries the source span it came from so each diagnostic can cite an
// exact location.
package ast

import (
	"synthizer/internal/source"
)

// Node pairs a payload with its source span. Used uniformly for small
// payloads such as identifiers and operators.
type Node[T any] struct {
	Item T
	Span source.Span
}

// At wraps item with its span.
func At[T any](item T, sp source.Span) Node[T] {
	return Node[T]{Item: item, Span: sp}
}
