package lexer

import (
	"synthizer/internal/diag"
	"synthizer/internal/source"
)

type Options struct {
	// Reporter receives lexical diagnostics; nil drops them (lexing
	// continues either way).
	Reporter diag.Reporter
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.Diagnostic{
			Severity: diag.SevError, Code: code, Message: msg, Primary: sp,
		})
	}
}
