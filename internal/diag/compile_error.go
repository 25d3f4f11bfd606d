package diag

import (
	"fmt"

	"synthizer/internal/source"
)

// CompileError is the structured failure returned by a single parse or
// resolution attempt. It short-circuits the attempt that produced it;
// the caller batches it into a Bag at statement or definition
// granularity and moves on to the next unit.
type CompileError struct {
	Code   Code
	Span   source.Span
	HasPos bool
	Msg    string
}

func (e *CompileError) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s :: %s", e.Span, e.Msg)
	}
	return e.Msg
}

// Errorf builds a CompileError without a position.
func Errorf(code Code, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ErrorfAt builds a CompileError carrying the offending span.
func ErrorfAt(code Code, span source.Span, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Span: span, HasPos: true, Msg: fmt.Sprintf(format, args...)}
}

// WithPos returns a copy of e pinned to span, unless e already has one.
func (e *CompileError) WithPos(span source.Span) *CompileError {
	if e.HasPos {
		return e
	}
	cp := *e
	cp.Span = span
	cp.HasPos = true
	return &cp
}

// Diagnostic converts the error into a bag entry.
func (e *CompileError) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Msg,
		Primary:  e.Span,
		NoPos:    !e.HasPos,
	}
}

// LogTo appends the error to bag, preserving arrival order.
func (e *CompileError) LogTo(bag *Bag) {
	if bag != nil {
		bag.Add(e.Diagnostic())
	}
}
