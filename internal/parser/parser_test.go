package parser

import (
	"strings"
	"testing"

	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/lexer"
	"synthizer/internal/scope"
	"synthizer/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Root, *scope.Scope, *source.Interner, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.syn", []byte(src))
	interner := source.NewInterner()
	bag := diag.NewBag(64)
	lx := lexer.New(fs.Get(id), interner, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	p := New(interner, Options{Reporter: diag.BagReporter{Bag: bag}})
	sc := scope.New()
	root := p.ParseRoot(NewStream(lx.Tokens()), sc)
	return root, sc, interner, bag
}

func mustParseClean(t *testing.T, src string) (*ast.Root, *scope.Scope, *source.Interner) {
	t.Helper()
	root, sc, interner, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("parse of %q produced errors: %v", src, bag.Items())
	}
	return root, sc, interner
}

func onlyDef(t *testing.T, root *ast.Root) *ast.FunctionDef {
	t.Helper()
	if len(root.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(root.Items))
	}
	def, ok := root.Items[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("item is %T, want *ast.FunctionDef", root.Items[0])
	}
	return def
}

func callArgs(def *ast.FunctionDef, vals ...float64) map[source.StringID]float64 {
	args := map[source.StringID]float64{}
	for i, p := range def.Params() {
		if i >= len(vals) {
			break
		}
		args[p] = vals[i]
	}
	return args
}

func TestParseAssignments(t *testing.T) {
	root, sc, interner := mustParseClean(t, "freq = 220;\ngain = freq / 110;")

	if len(root.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(root.Items))
	}
	names := []string{"freq", "gain"}
	for i, item := range root.Items {
		a, ok := item.(*ast.Assignment)
		if !ok {
			t.Fatalf("item %d is %T, want *ast.Assignment", i, item)
		}
		if got := interner.MustLookup(a.Ident.Item); got != names[i] {
			t.Errorf("item %d named %q, want %q", i, got, names[i])
		}
		if _, ok := sc.VarSlot(a.Ident.Item); !ok {
			t.Errorf("assignment %q left no variable slot behind", names[i])
		}
	}
}

func TestAssignmentCannotReferenceItself(t *testing.T) {
	root, _, _, bag := parseSource(t, "a = a + 1;")

	if len(root.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(root.Items))
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	if items[0].Code != diag.SynUnresolvedVariable {
		t.Errorf("code = %v, want %v", items[0].Code, diag.SynUnresolvedVariable)
	}
	want := "variable `a` appears in expression but is not defined in scope"
	if items[0].Message != want {
		t.Errorf("message = %q, want %q", items[0].Message, want)
	}
}

func TestBadItemDoesNotHideTheNext(t *testing.T) {
	root, _, interner, bag := parseSource(t, "a = ;\nb = 2;")

	if got := bag.Len(); got != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", got, bag.Items())
	}
	if code := bag.Items()[0].Code; code != diag.SynEmptyExpression {
		t.Errorf("code = %v, want %v", code, diag.SynEmptyExpression)
	}
	if len(root.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(root.Items))
	}
	a := root.Items[0].(*ast.Assignment)
	if got := interner.MustLookup(a.Ident.Item); got != "b" {
		t.Errorf("surviving item is %q, want %q", got, "b")
	}
}

func TestStrayTokenDoesNotHideLaterItems(t *testing.T) {
	root, _, interner, bag := parseSource(t, "5;\nfreq = 220;")

	if got := bag.Len(); got != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", got, bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynUnexpectedToken {
		t.Errorf("code = %v, want %v", d.Code, diag.SynUnexpectedToken)
	}
	if want := "expected `[` or an assignment, got `number`"; d.Message != want {
		t.Errorf("message = %q, want %q", d.Message, want)
	}
	if len(root.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(root.Items))
	}
	a := root.Items[0].(*ast.Assignment)
	if got := interner.MustLookup(a.Ident.Item); got != "freq" {
		t.Errorf("surviving item is %q, want %q", got, "freq")
	}
}

func TestStraySemicolonDoesNotHideLaterItems(t *testing.T) {
	root, _, _, bag := parseSource(t, "; freq = 220;\n; gain = 0.5;")

	if got := bag.Len(); got != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", got, bag.Items())
	}
	if len(root.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(root.Items))
	}
}

func TestEmptyParensIsReportedNotFatal(t *testing.T) {
	root, _, _, bag := parseSource(t, "x = ();\ny = 1;")

	if got := bag.Len(); got != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", got, bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynEmptyExpression {
		t.Errorf("code = %v, want %v", d.Code, diag.SynEmptyExpression)
	}
	if d.NoPos {
		t.Error("diagnostic lost the position of the empty parens")
	}
	if len(root.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(root.Items))
	}
}

func TestEmptyGuardDiagnosticHasNoPosition(t *testing.T) {
	_, _, _, bag := parseSource(t, "[f t] { + 1 ? ; }")

	if got := bag.Len(); got != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", got, bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynEmptyExpression {
		t.Errorf("code = %v, want %v", d.Code, diag.SynEmptyExpression)
	}
	if !d.NoPos {
		t.Error("position-less diagnostic was stored with a fabricated span")
	}
}

func TestFunctionDefCall(t *testing.T) {
	root, _, _ := mustParseClean(t, "[add x y] x + y;")
	def := onlyDef(t, root)

	if got := def.Name(); got != "add" {
		t.Errorf("Name() = %q, want %q", got, "add")
	}
	if got := len(def.Params()); got != 2 {
		t.Fatalf("got %d params, want 2", got)
	}
	v, err := def.Call(callArgs(def, 2, 3))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if v != 5 {
		t.Errorf("add(2, 3) = %g, want 5", v)
	}
}

func TestParamDefaults(t *testing.T) {
	root, _, _ := mustParseClean(t, "[f a = -1, b = 2.5] a + b;")
	def := onlyDef(t, root)

	v, err := def.Call(nil)
	if err != nil {
		t.Fatalf("Call with defaults: %v", err)
	}
	if v != 1.5 {
		t.Errorf("f() = %g, want 1.5", v)
	}

	v, err = def.Call(callArgs(def, 10))
	if err != nil {
		t.Fatalf("Call overriding a: %v", err)
	}
	if v != 12.5 {
		t.Errorf("f(10) = %g, want 12.5", v)
	}
}

func TestMissingArgumentWithoutDefault(t *testing.T) {
	root, _, _ := mustParseClean(t, "[f a] a * 2;")
	def := onlyDef(t, root)

	_, err := def.Call(nil)
	if err == nil {
		t.Fatal("Call without argument succeeded, want error")
	}
	want := "argument `a` to `f` has no value"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}
}

func TestDuplicateArgument(t *testing.T) {
	root, _, _, bag := parseSource(t, "[f a, a] a;")

	if len(root.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(root.Items))
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	if items[0].Code != diag.SynDuplicateArgument {
		t.Errorf("code = %v, want %v", items[0].Code, diag.SynDuplicateArgument)
	}
	if want := "argument `a` defined twice"; items[0].Message != want {
		t.Errorf("message = %q, want %q", items[0].Message, want)
	}
}

func TestBlockEntriesAndGuards(t *testing.T) {
	root, _, _ := mustParseClean(t, "[env t] {\n\t+ 1;\n\t- 0.25 ? t > 0.5;\n}")
	def := onlyDef(t, root)

	v, err := def.Call(callArgs(def, 0.25))
	if err != nil {
		t.Fatalf("env(0.25): %v", err)
	}
	if v != 1 {
		t.Errorf("env(0.25) = %g, want 1", v)
	}

	v, err = def.Call(callArgs(def, 0.75))
	if err != nil {
		t.Fatalf("env(0.75): %v", err)
	}
	if v != 0.75 {
		t.Errorf("env(0.75) = %g, want 0.75", v)
	}
}

func TestRecursiveDefinition(t *testing.T) {
	root, _, _ := mustParseClean(t,
		"[fact n] {\n\t+ 1 ? n < 1;\n\t+ n * fact(n - 1) ? n > 0.5;\n}")
	def := onlyDef(t, root)

	v, err := def.Call(callArgs(def, 4))
	if err != nil {
		t.Fatalf("fact(4): %v", err)
	}
	if v != 24 {
		t.Errorf("fact(4) = %g, want 24", v)
	}
}

func TestClosureEntryDefinesLocalFunction(t *testing.T) {
	root, _, _ := mustParseClean(t, "[f x] {\n\t[double y] y * 2;\n\t+ double(x);\n}")
	def := onlyDef(t, root)

	v, err := def.Call(callArgs(def, 3))
	if err != nil {
		t.Fatalf("f(3): %v", err)
	}
	if v != 6 {
		t.Errorf("f(3) = %g, want 6", v)
	}
}

func TestClosureBody(t *testing.T) {
	root, _, _ := mustParseClean(t, "[outer] [inner x] x + 1;")
	def := onlyDef(t, root)

	if got := def.Name(); got != "outer" {
		t.Errorf("Name() = %q, want %q", got, "outer")
	}
	if _, ok := def.Body.(*ast.ClosureStatement); !ok {
		t.Fatalf("body is %T, want *ast.ClosureStatement", def.Body)
	}
}

func TestEarlierDefinitionsVisibleLater(t *testing.T) {
	root, _, _ := mustParseClean(t, "[half x] x / 2;\n[quarter x] half(half(x));")

	if len(root.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(root.Items))
	}
	def := root.Items[1].(*ast.FunctionDef)
	v, err := def.Call(callArgs(def, 8))
	if err != nil {
		t.Fatalf("quarter(8): %v", err)
	}
	if v != 2 {
		t.Errorf("quarter(8) = %g, want 2", v)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
	}{
		{
			"missing equals",
			"a + 1;",
			diag.SynUnexpectedToken,
			"expected `=`, got `+`",
		},
		{
			"item starts with symbol",
			"= 1;",
			diag.SynUnexpectedToken,
			"expected `[` or an assignment, got `=`",
		},
		{
			"unterminated assignment",
			"a = 1",
			diag.SynUnexpectedEOF,
			"expected `;` to end assignment, got EOF",
		},
		{
			"unterminated header",
			"[f a",
			diag.SynUnexpectedEOF,
			"expected `]` to close function header, got EOF",
		},
		{
			"unterminated expression body",
			"[f] 1",
			diag.SynUnexpectedEOF,
			"expected `;` to end function body, got EOF",
		},
		{
			"unterminated block",
			"[f] { + 1;",
			diag.SynUnexpectedEOF,
			"expected `}` to close block, got EOF",
		},
		{
			"header without name",
			"[= a] 1;",
			diag.SynUnexpectedToken,
			"expected function name, got `=`",
		},
		{
			"bad parameter separator",
			"[f a : b] 1;",
			diag.SynUnexpectedToken,
			"expected `=`, `,` or `]`, got `:`",
		},
		{
			"non-numeric default",
			"[f a = b] 1;",
			diag.SynUnexpectedToken,
			"expected numerical constant, got `identifier`",
		},
		{
			"entry without operator",
			"[f] { 1; }",
			diag.SynUnexpectedToken,
			"expected operator, `;` or `}`, got `number`",
		},
		{
			"unary operator leads entry",
			"[f] { ! 1; }",
			diag.SynUnexpectedToken,
			"operator `!` cannot start a block entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, bag := parseSource(t, tt.src)
			items := bag.Items()
			if len(items) == 0 {
				t.Fatalf("parse of %q produced no diagnostics", tt.src)
			}
			if items[0].Code != tt.code {
				t.Errorf("code = %v, want %v", items[0].Code, tt.code)
			}
			if items[0].Message != tt.msg {
				t.Errorf("message = %q, want %q", items[0].Message, tt.msg)
			}
		})
	}
}

func TestStreamBounds(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.syn", []byte("a = 1;"))
	interner := source.NewInterner()
	lx := lexer.New(fs.Get(id), interner, lexer.Options{})
	ts := NewStream(lx.Tokens())

	if ts.Empty() {
		t.Fatal("fresh stream is empty")
	}
	// The EOF token is stripped; only the four real tokens remain.
	n := 0
	for {
		if _, ok := ts.Next(); !ok {
			break
		}
		n++
	}
	if n != 4 {
		t.Errorf("drained %d tokens, want 4", n)
	}
	if sp := ts.EndSpan(); sp.Start != sp.End {
		t.Errorf("end span %v is not empty", sp)
	}

	ts.SetPos(0)
	sub := ts.Slice(1, 3)
	if got := len(sub.Rest()); got != 2 {
		t.Errorf("sub-stream has %d tokens, want 2", got)
	}
	if _, ok := sub.Peek(2); ok {
		t.Error("Peek past the sub-stream bound succeeded")
	}
}
