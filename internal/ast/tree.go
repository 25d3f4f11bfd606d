package ast

import (
	"fmt"

	"synthizer/internal/expr"
	"synthizer/internal/source"
)

// Expression is the recursive tree form of a compiled expression. The
// engine works on postfix; the tree is reconstructed from it with the
// same stack walk the evaluator uses, and is the shape handed to
// downstream consumers alongside the type table.
type Expression interface {
	isExpression()
	Span() source.Span
}

// Constant is a numeric literal or a folded-in value.
type Constant struct {
	Value float64
	Pos   source.Span
}

// Boolean is a logical value. The grammar has no boolean literals;
// these nodes appear where a construct supplies an implicit truth
// value, such as the else branch of a guard.
type Boolean struct {
	Value bool
	Pos   source.Span
}

// Infix applies a binary operator to two operands in source order.
type Infix struct {
	Op          Node[expr.Operator]
	Left, Right Expression
	Pos         source.Span
}

// Prefix applies a unary operator.
type Prefix struct {
	Op      Node[expr.Operator]
	Operand Expression
	Pos     source.Span
}

// Variable references a declared variable.
type Variable struct {
	Ident Node[source.StringID]
	Slot  int
	Pos   source.Span
}

// Block is the tree form of a block statement: each entry lowered in
// order, guards turned into Conditionals.
type Block struct {
	Entries []Expression
	Pos     source.Span
}

// FunctionCall invokes a resolved function with tree-form arguments.
type FunctionCall struct {
	Callee Node[source.StringID]
	Style  expr.CallStyle
	Args   []Argument
	Pos    source.Span
}

// Conditional selects Then when Cond is truthy, otherwise Else.
type Conditional struct {
	Cond, Then, Else Expression
	Pos              source.Span
}

// Closure wraps a nested function definition appearing in expression
// position.
type Closure struct {
	Def *FunctionDef
	Pos source.Span
}

func (*Constant) isExpression()     {}
func (*Boolean) isExpression()      {}
func (*Infix) isExpression()        {}
func (*Prefix) isExpression()       {}
func (*Variable) isExpression()     {}
func (*Block) isExpression()        {}
func (*FunctionCall) isExpression() {}
func (*Conditional) isExpression()  {}
func (*Closure) isExpression()      {}

func (e *Constant) Span() source.Span     { return e.Pos }
func (e *Boolean) Span() source.Span      { return e.Pos }
func (e *Infix) Span() source.Span        { return e.Pos }
func (e *Prefix) Span() source.Span       { return e.Pos }
func (e *Variable) Span() source.Span     { return e.Pos }
func (e *Block) Span() source.Span        { return e.Pos }
func (e *FunctionCall) Span() source.Span { return e.Pos }
func (e *Conditional) Span() source.Span  { return e.Pos }
func (e *Closure) Span() source.Span      { return e.Pos }

// Argument is one call or definition argument.
type Argument interface {
	isArgument()
	Span() source.Span
}

// IdentArg is a definition-side parameter without a default.
type IdentArg struct {
	Name Node[source.StringID]
}

// AssignArg is `name = expr`: a call-side named argument or a
// definition-side parameter default.
type AssignArg struct {
	Name Node[source.StringID]
	X    Expression
	Pos  source.Span
}

// OpAssignArg is a call-side `name <op>= expr` argument.
type OpAssignArg struct {
	Name Node[source.StringID]
	Op   Node[expr.Operator]
	X    Expression
	Pos  source.Span
}

// ExprArg is a call-side positional argument.
type ExprArg struct {
	X   Expression
	Pos source.Span
}

func (*IdentArg) isArgument()    {}
func (*AssignArg) isArgument()   {}
func (*OpAssignArg) isArgument() {}
func (*ExprArg) isArgument()     {}

func (a *IdentArg) Span() source.Span    { return a.Name.Span }
func (a *AssignArg) Span() source.Span   { return a.Pos }
func (a *OpAssignArg) Span() source.Span { return a.Pos }
func (a *ExprArg) Span() source.Span     { return a.Pos }

// TreeFromExpr rebuilds the tree form of a compiled expression. The
// input comes from a successful compilation, so a malformed sequence
// here is a defect, not user input, and panics.
func TreeFromExpr(e *expr.Expression) Expression {
	var stack []Expression

	pop := func() Expression {
		if len(stack) == 0 {
			panic("ast: malformed postfix sequence")
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for i := range e.RPN {
		t := &e.RPN[i]
		switch t.Kind {
		case expr.ValueTok:
			stack = append(stack, &Constant{Value: t.Val, Pos: t.Span})

		case expr.VarTok:
			stack = append(stack, &Variable{
				Ident: At(t.ID, t.Span),
				Slot:  t.Slot,
				Pos:   t.Span,
			})

		case expr.FnTok:
			stack = append(stack, treeFromCall(t.Call))

		case expr.OpTok:
			if t.Op.Arity() == 1 {
				operand := pop()
				stack = append(stack, &Prefix{
					Op:      At(t.Op, t.Span),
					Operand: operand,
					Pos:     operand.Span().Cover(t.Span),
				})
			} else {
				right := pop()
				left := pop()
				stack = append(stack, &Infix{
					Op:    At(t.Op, t.Span),
					Left:  left,
					Right: right,
					Pos:   left.Span().Cover(right.Span()),
				})
			}

		default:
			panic(fmt.Sprintf("ast: unexpected token kind %d in compiled expression", t.Kind))
		}
	}

	if len(stack) != 1 {
		panic("ast: malformed postfix sequence")
	}
	return stack[0]
}

func treeFromCall(c *expr.Call) *FunctionCall {
	out := &FunctionCall{
		Callee: At(c.Callee, c.Span),
		Style:  c.Style,
		Pos:    c.Span,
	}
	for _, arg := range c.Args {
		x := TreeFromExpr(arg.Expr)
		switch arg.Kind {
		case expr.ArgAssign:
			out.Args = append(out.Args, &AssignArg{
				Name: At(arg.Name, arg.Span), X: x, Pos: arg.Span,
			})
		case expr.ArgOpAssign:
			out.Args = append(out.Args, &OpAssignArg{
				Name: At(arg.Name, arg.Span),
				Op:   At(arg.Op, arg.Span),
				X:    x,
				Pos:  arg.Span,
			})
		default:
			out.Args = append(out.Args, &ExprArg{X: x, Pos: arg.Span})
		}
	}
	return out
}

// Lower produces the tree form of a statement. Guarded entries become
// Conditionals whose else branch is the implicit false contribution;
// closure entries become Closure nodes.
func Lower(st Statement) Expression {
	switch s := st.(type) {
	case *ExprStatement:
		return TreeFromExpr(s.X)

	case *ClosureStatement:
		return &Closure{Def: s.Def, Pos: s.Pos}

	case *BlockStatement:
		out := &Block{Pos: s.Pos}
		for i := range s.Entries {
			e := &s.Entries[i]
			lowered := Lower(e.Body)
			if e.Guard != nil {
				lowered = &Conditional{
					Cond: TreeFromExpr(e.Guard),
					Then: lowered,
					Else: &Boolean{Value: false, Pos: e.Guard.Span},
					Pos:  e.Pos,
				}
			}
			out.Entries = append(out.Entries, lowered)
		}
		return out

	default:
		panic(fmt.Sprintf("ast: unknown statement type %T", st))
	}
}
