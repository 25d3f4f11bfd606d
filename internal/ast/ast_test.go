package ast

import (
	"strings"
	"testing"

	"synthizer/internal/expr"
	"synthizer/internal/lexer"
	"synthizer/internal/scope"
	"synthizer/internal/source"
)

func compileExpr(t *testing.T, src string, sc *scope.Scope, interner *source.Interner) *expr.Expression {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.syn", []byte(src))
	lx := lexer.New(fs.Get(id), interner, lexer.Options{})
	toks := lx.Tokens()
	e, err := expr.Compile(toks[:len(toks)-1], sc, interner)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return e
}

// stubFn satisfies scope.Function with two parameters, the second
// defaulted.
type stubFn struct {
	a, b source.StringID
}

func (f *stubFn) Params() []source.StringID { return []source.StringID{f.a, f.b} }

func (f *stubFn) Default(p source.StringID) (float64, bool) {
	if p == f.b {
		return 10, true
	}
	return 0, false
}

func (f *stubFn) Call(args map[source.StringID]float64) (float64, error) {
	return args[f.a] - args[f.b], nil
}

func TestTreeFromExprShapes(t *testing.T) {
	interner := source.NewInterner()
	sc := scope.New()
	x := interner.Intern("x")
	sc.DefineVar(x)

	tree := TreeFromExpr(compileExpr(t, "1 + 2 * x", sc, interner))

	add, ok := tree.(*Infix)
	if !ok {
		t.Fatalf("root is %T, want *Infix", tree)
	}
	if add.Op.Item != expr.OpAdd {
		t.Errorf("root op = %v, want +", add.Op.Item)
	}
	if c, ok := add.Left.(*Constant); !ok || c.Value != 1 {
		t.Errorf("left = %#v, want Constant 1", add.Left)
	}
	mul, ok := add.Right.(*Infix)
	if !ok {
		t.Fatalf("right is %T, want *Infix", add.Right)
	}
	if mul.Op.Item != expr.OpMul {
		t.Errorf("right op = %v, want *", mul.Op.Item)
	}
	v, ok := mul.Right.(*Variable)
	if !ok {
		t.Fatalf("multiplicand is %T, want *Variable", mul.Right)
	}
	if v.Ident.Item != x {
		t.Errorf("variable identity mismatch")
	}
}

func TestTreeFromExprPrefix(t *testing.T) {
	interner := source.NewInterner()
	sc := scope.New()
	sc.DefineVar(interner.Intern("x"))

	tree := TreeFromExpr(compileExpr(t, "-x", sc, interner))

	pre, ok := tree.(*Prefix)
	if !ok {
		t.Fatalf("root is %T, want *Prefix", tree)
	}
	if pre.Op.Item != expr.OpNeg {
		t.Errorf("op = %v, want unary minus", pre.Op.Item)
	}
	if _, ok := pre.Operand.(*Variable); !ok {
		t.Errorf("operand is %T, want *Variable", pre.Operand)
	}
}

func TestTreeFromCallArguments(t *testing.T) {
	interner := source.NewInterner()
	sc := scope.New()
	fn := &stubFn{a: interner.Intern("a"), b: interner.Intern("b")}
	sc.DefineFunc(interner.Intern("f"), fn)

	ordered := TreeFromExpr(compileExpr(t, "f(1, 2)", sc, interner))
	call, ok := ordered.(*FunctionCall)
	if !ok {
		t.Fatalf("root is %T, want *FunctionCall", ordered)
	}
	if call.Style != expr.OrderedCall {
		t.Errorf("style = %v, want ordered", call.Style)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if _, ok := call.Args[0].(*ExprArg); !ok {
		t.Errorf("arg 0 is %T, want *ExprArg", call.Args[0])
	}

	named := TreeFromExpr(compileExpr(t, "f(b = 2, a = 1)", sc, interner))
	call = named.(*FunctionCall)
	if call.Style != expr.NamedCall {
		t.Errorf("style = %v, want named", call.Style)
	}
	arg, ok := call.Args[0].(*AssignArg)
	if !ok {
		t.Fatalf("arg 0 is %T, want *AssignArg", call.Args[0])
	}
	if arg.Name.Item != fn.b {
		t.Errorf("named arg binds wrong parameter")
	}
}

func TestBlockEvalFoldsEntries(t *testing.T) {
	interner := source.NewInterner()
	sc := scope.New()

	entry := func(op expr.Operator, body, guard string) BlockEntry {
		e := BlockEntry{Op: op, Body: &ExprStatement{X: compileExpr(t, body, sc, interner)}}
		if guard != "" {
			e.Guard = compileExpr(t, guard, sc, interner)
		}
		return e
	}

	block := &BlockStatement{Entries: []BlockEntry{
		entry(expr.OpAdd, "2", ""),
		entry(expr.OpMul, "3", ""),
		entry(expr.OpAdd, "100", "1 < 0"), // guard fails, skipped
		entry(expr.OpSub, "1", "1 < 2"),
	}}

	v, err := block.Eval(sc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v != 5 {
		t.Errorf("Eval = %g, want 5 ((0+2)*3-1)", v)
	}
}

func TestBlockEvalSkipsClosureEntries(t *testing.T) {
	interner := source.NewInterner()
	sc := scope.New()

	block := &BlockStatement{Entries: []BlockEntry{
		{Op: expr.OpInvalid, Body: &ClosureStatement{}},
		{Op: expr.OpAdd, Body: &ExprStatement{X: compileExpr(t, "4", sc, interner)}},
	}}

	v, err := block.Eval(sc)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v != 4 {
		t.Errorf("Eval = %g, want 4", v)
	}
}

func TestClosureStatementHasNoValue(t *testing.T) {
	st := &ClosureStatement{}
	_, err := st.Eval(scope.New())
	if err == nil {
		t.Fatal("Eval succeeded, want error")
	}
	if !strings.Contains(err.Msg, "closure definition used as a value") {
		t.Errorf("unexpected message %q", err.Msg)
	}
}

func TestLowerGuardBecomesConditional(t *testing.T) {
	interner := source.NewInterner()
	sc := scope.New()

	block := &BlockStatement{Entries: []BlockEntry{
		{
			Op:    expr.OpAdd,
			Body:  &ExprStatement{X: compileExpr(t, "1", sc, interner)},
			Guard: compileExpr(t, "2 > 1", sc, interner),
		},
	}}

	lowered := Lower(block)
	b, ok := lowered.(*Block)
	if !ok {
		t.Fatalf("lowered to %T, want *Block", lowered)
	}
	if len(b.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(b.Entries))
	}
	cond, ok := b.Entries[0].(*Conditional)
	if !ok {
		t.Fatalf("entry is %T, want *Conditional", b.Entries[0])
	}
	if _, ok := cond.Cond.(*Infix); !ok {
		t.Errorf("condition is %T, want *Infix", cond.Cond)
	}
	if _, ok := cond.Then.(*Constant); !ok {
		t.Errorf("then branch is %T, want *Constant", cond.Then)
	}
	els, ok := cond.Else.(*Boolean)
	if !ok {
		t.Fatalf("else branch is %T, want *Boolean", cond.Else)
	}
	if els.Value {
		t.Error("implicit else contributes true, want false")
	}
}
