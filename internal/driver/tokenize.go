// Package driver orchestrates the compilation pipeline: loading
// sources, lexing, parsing, and type checking, plus the parallel
// directory walk and the on-disk result cache used by the CLI.
package driver

import (
	"fmt"

	"synthizer/internal/diag"
	"synthizer/internal/lexer"
	"synthizer/internal/source"
	"synthizer/internal/token"
)

// TokenizeResult carries everything a caller needs to inspect or print
// the token stream of a single file.
type TokenizeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Interner *source.Interner
	Tokens   []token.Token
	Bag      *diag.Bag
}

// Tokenize loads path and lexes it to completion. Lexical diagnostics
// land in the result bag; only I/O failures return an error.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tokenizeFile(fs, fs.Get(id), maxDiagnostics), nil
}

// TokenizeSource lexes an in-memory buffer under a virtual file name.
func TokenizeSource(name string, src []byte, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return tokenizeFile(fs, fs.Get(id), maxDiagnostics)
}

func tokenizeFile(fs *source.FileSet, file *source.File, maxDiagnostics int) *TokenizeResult {
	bag := newBag(maxDiagnostics)
	interner := source.NewInterner()
	lx := lexer.New(file, interner, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Interner: interner,
		Tokens:   lx.Tokens(),
		Bag:      bag,
	}
}
