package expr

import (
	"math"

	"synthizer/internal/diag"
	"synthizer/internal/scope"
)

// Comparison, equality and boolean operators yield one of two fixed
// sentinel floats. Truthiness everywhere is "strictly positive".
const (
	TrueValue  = 1.0
	FalseValue = -1.0

	// approxEpsilon is the ~= tolerance.
	approxEpsilon = 0.0001
)

// IsTruthy reports whether a sentinel or plain number counts as true.
func IsTruthy(v float64) bool { return v > 0 }

// FromBool converts a bool to its sentinel float.
func FromBool(v bool) float64 {
	if v {
		return TrueValue
	}
	return FalseValue
}

// Eval walks the postfix sequence maintaining a value stack. Constants
// and bound variables push values, a nested call pushes its numeric
// result, an operator pops exactly its arity. The walk must end with
// exactly one value on the stack; anything else reports the imbalance
// instead of producing a silently wrong number.
func (e *Expression) Eval(sc *scope.Scope) (float64, *diag.CompileError) {
	var stack []float64

	for i := range e.RPN {
		t := &e.RPN[i]
		switch t.Kind {
		case ValueTok:
			stack = append(stack, t.Val)

		case VarTok:
			v, ok := sc.Value(t.Slot)
			if !ok {
				return 0, diag.ErrorfAt(diag.SynUnresolvedVariable, t.Span,
					"attempted to read a variable with no bound value (slot=%d)", t.Slot)
			}
			stack = append(stack, v)

		case FnTok:
			v, err := t.Call.Eval(sc)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)

		case OpTok:
			n := t.Op.Arity()
			if len(stack) < n {
				return 0, diag.Errorf(diag.SynStackImbalance, "zero values in expression")
			}
			if n == 1 {
				x := stack[len(stack)-1]
				stack[len(stack)-1] = unaryOp(t.Op, x)
			} else {
				right := stack[len(stack)-1]
				left := stack[len(stack)-2]
				stack = stack[:len(stack)-1]
				stack[len(stack)-1] = binaryOp(t.Op, left, right)
			}

		default:
			return 0, diag.ErrorfAt(diag.SynUnexpectedToken, t.Span,
				"unexpected token in compiled expression")
		}
	}

	switch len(stack) {
	case 1:
		return stack[0], nil
	case 0:
		return 0, diag.Errorf(diag.SynStackImbalance, "zero values in expression")
	default:
		return 0, diag.Errorf(diag.SynStackImbalance, "too many values in expression")
	}
}

// Apply computes left ∘ right for a binary operator. Exposed for the
// callers that fold statement values with the statement's operator.
func Apply(op Operator, left, right float64) float64 {
	return binaryOp(op, left, right)
}

func unaryOp(op Operator, x float64) float64 {
	switch op {
	case OpNeg:
		return -x
	case OpNot:
		return FromBool(!IsTruthy(x))
	default:
		panic("expr: unary evaluation of a binary operator")
	}
}

// binaryOp computes left ∘ right in source order.
func binaryOp(op Operator, left, right float64) float64 {
	switch op {
	case OpAdd:
		return left + right
	case OpSub:
		return left - right
	case OpMul:
		return left * right
	case OpDiv:
		return left / right
	case OpExp:
		return math.Pow(left, right)
	case OpMod:
		// Signed remainder taking the sign of the left operand.
		q := math.Abs(left / right)
		c := (q - math.Floor(q)) * math.Abs(right)
		if left > 0 {
			return c
		}
		return -c
	case OpLess:
		return FromBool(left < right)
	case OpGreater:
		return FromBool(left > right)
	case OpLessEqual:
		return FromBool(left <= right)
	case OpGreaterEqual:
		return FromBool(left >= right)
	case OpEqu:
		return FromBool(left == right)
	case OpNotEqu:
		return FromBool(left != right)
	case OpApproxEqu:
		return FromBool(math.Abs(left-right) < approxEpsilon)
	case OpAnd:
		return FromBool(IsTruthy(left) && IsTruthy(right))
	case OpOr:
		return FromBool(IsTruthy(left) || IsTruthy(right))
	case OpXor:
		return FromBool(IsTruthy(left) != IsTruthy(right))
	default:
		panic("expr: binary evaluation of a unary operator")
	}
}
