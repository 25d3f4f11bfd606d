package diag

import (
	"synthizer/internal/source"
)

// Note attaches secondary context to a diagnostic ("declared here").
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// NoPos marks diagnostics for which no source position is
	// meaningful (e.g. an empty file).
	NoPos bool
	Notes []Note
}
