package sema

import (
	"synthizer/internal/ast"
	"synthizer/internal/diag"
	"synthizer/internal/expr"
	"synthizer/internal/types"
)

// typeOfExpr walks the compiled postfix form with a type stack, the
// same walk the evaluator performs over values.
//
// Operators are monomorphic, so an Indeterminate operand never blocks
// them: the operator still fixes the result type, which is how a
// recursive body settles to a concrete type. Only a genuinely wrong
// operand type is a mismatch.
func (c *Checker) typeOfExpr(e *expr.Expression) (types.Type, *diag.CompileError) {
	var stack []types.Type

	for i := range e.RPN {
		t := &e.RPN[i]
		switch t.Kind {
		case expr.ValueTok:
			stack = append(stack, types.NumberType())

		case expr.VarTok:
			ty := types.NumberType()
			if sym, _, ok := c.table.GetSymbol(t.ID); ok && sym.Ty.IsResolved() {
				ty = sym.Ty
			}
			stack = append(stack, ty)

		case expr.FnTok:
			ty, err := c.typeOfCall(t.Call)
			if err != nil {
				return types.Type{}, err
			}
			stack = append(stack, ty)

		case expr.OpTok:
			n := t.Op.Arity()
			if len(stack) < n {
				panic("sema: malformed postfix sequence")
			}
			operands := stack[len(stack)-n:]
			stack = stack[:len(stack)-n]

			want, result := operandTypes(t.Op)
			for _, oty := range operands {
				if oty.Kind == types.Indeterminate || oty.Kind == want {
					continue
				}
				return types.Type{}, diag.ErrorfAt(diag.SemTypeMismatch, t.Span,
					"type mismatch: operator `%s` expects %s operands, got %s",
					t.Op, types.Type{Kind: want}, oty)
			}
			stack = append(stack, result)
		}
	}

	if len(stack) != 1 {
		panic("sema: malformed postfix sequence")
	}
	return stack[0], nil
}

// operandTypes returns the operand type an operator expects and the
// type it produces.
func operandTypes(op expr.Operator) (operand types.Kind, result types.Type) {
	switch {
	case op.IsLogic():
		return types.Boolean, types.BooleanType()
	case op.IsComparison():
		return types.Number, types.BooleanType()
	default:
		return types.Number, types.NumberType()
	}
}

// typeOfCall types a call's arguments and yields the callee's return
// type. A callee whose block is already on the active stack is being
// resolved right now, so its result is Indeterminate for the duration.
func (c *Checker) typeOfCall(call *expr.Call) (types.Type, *diag.CompileError) {
	for i := range call.Args {
		arg := &call.Args[i]
		ty, err := c.typeOfExpr(arg.Expr)
		if err != nil {
			return types.Type{}, err
		}
		if ty.Kind == types.Boolean {
			return types.Type{}, diag.ErrorfAt(diag.SemTypeMismatch, arg.Span,
				"type mismatch: arguments must be Numbers, got %s", ty)
		}
	}

	def, ok := call.Fn.(*ast.FunctionDef)
	if !ok {
		// Host-provided functions map Numbers to a Number.
		return types.NumberType(), nil
	}
	if c.table.HasScopeCycle(defKey(def)) {
		return types.IndeterminateType(), nil
	}
	return c.resultOf(def)
}
