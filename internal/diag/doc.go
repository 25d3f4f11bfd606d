// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: severity, a stable numeric code, a
// message, the primary source.Span, and optional notes. Phases emit
// through a Reporter so producers never couple to concrete storage;
// diag.BagReporter aggregates into a Bag, which preserves arrival order
// and answers HasErrors for phase gating.
//
// CompileError is the short-circuiting structured failure used inside a
// single parse or resolution attempt. It travels as an ordinary Go
// error; the statement- or definition-level caller decides whether to
// log it into the bag and continue with the next unit, or abort.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
