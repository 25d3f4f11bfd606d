package driver

import (
	"fmt"

	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/lexer"
	"synthizer/internal/parser"
	"synthizer/internal/scope"
	"synthizer/internal/sema"
	"synthizer/internal/source"
	"synthizer/internal/token"
	"synthizer/internal/types"
)

// defaultMaxDiagnostics bounds a run's bag when the caller does not.
const defaultMaxDiagnostics = 100

// newBag builds a diagnostic bag honoring the configured cap.
func newBag(maxDiagnostics int) *diag.Bag {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultMaxDiagnostics
	}
	return diag.NewBag(maxDiagnostics)
}

// Options configures a single-file pipeline run.
type Options struct {
	// MaxDiagnostics caps the bag; 0 uses defaultMaxDiagnostics.
	MaxDiagnostics int
	// Entrypoint, when non-empty, is validated after the check phase
	// and its definition stored in CheckResult.Entry.
	Entrypoint string
	// Timings appends an informational phase-timing diagnostic.
	Timings bool
}

// CheckResult is the output of the full front-end pipeline for one
// file. Later stages are nil when an earlier stage reported errors.
type CheckResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Interner *source.Interner
	Tokens   []token.Token
	Root     *ast.Root
	Globals  *scope.Scope
	Table    *types.TypeTable
	Entry    *ast.FunctionDef
	Bag      *diag.Bag
}

// Check loads path and runs lex, parse and type check over it. Only
// I/O failures return an error; everything else lands in the bag.
func Check(path string, opts Options) (*CheckResult, error) {
	timer := NewTimer()
	timer.Begin(PhaseLoad)

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return checkFile(fs, fs.Get(id), opts, timer), nil
}

// CheckSource runs the pipeline over an in-memory buffer.
func CheckSource(name string, src []byte, opts Options) *CheckResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return checkFile(fs, fs.Get(id), opts, NewTimer())
}

func checkFile(fs *source.FileSet, file *source.File, opts Options, timer *Timer) *CheckResult {
	bag := newBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	interner := source.NewInterner()

	res := &CheckResult{
		FileSet:  fs,
		File:     file,
		Interner: interner,
		Bag:      bag,
	}

	timer.Begin(PhaseLex)
	lx := lexer.New(file, interner, lexer.Options{Reporter: reporter})
	res.Tokens = lx.Tokens()

	timer.Begin(PhaseParse)
	res.Globals = scope.New()
	p := parser.New(interner, parser.Options{Reporter: reporter})
	res.Root = p.ParseRoot(parser.NewStream(res.Tokens), res.Globals)

	// Type checking assumes a structurally sound tree; a parse error
	// leaves definitions half-registered, so stop here.
	if bag.HasErrors() {
		appendRunTimings(bag, timer, opts)
		return res
	}

	timer.Begin(PhaseCheck)
	res.Table = types.NewTable()
	checker := sema.New(res.Table, interner, reporter)
	checker.Check(res.Root)

	if opts.Entrypoint != "" && !bag.HasErrors() {
		entryID := interner.Intern(opts.Entrypoint)
		def, cerr := checker.Entrypoint(entryID)
		if cerr != nil {
			cerr.LogTo(bag)
		} else {
			res.Entry = def
		}
	}

	appendRunTimings(bag, timer, opts)
	return res
}

func appendRunTimings(bag *diag.Bag, timer *Timer, opts Options) {
	timer.End()
	if opts.Timings {
		appendTimings(bag, timer)
	}
}
