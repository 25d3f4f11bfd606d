package expr

import (
	"synthizer/internal/token"
)

// Operator enumerates the expression operators understood by the
// engine, including Neg, which never appears in source directly: the
// compile pass reinterprets Sub as Neg in prefix position.
type Operator uint8

const (
	OpInvalid Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpNeg
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqu
	OpNotEqu
	OpApproxEqu
	OpNot
	OpAnd
	OpOr
	OpXor
)

// Precedence tiers, low to high:
//
//	0  && || ^^
//	1  == != ~=
//	2  < > <= >=
//	3  + -
//	4  * / %
//	6  unary minus, ! and ^
func (op Operator) Precedence() int {
	switch op {
	case OpAnd, OpOr, OpXor:
		return 0
	case OpEqu, OpNotEqu, OpApproxEqu:
		return 1
	case OpLess, OpGreater, OpGreaterEqual, OpLessEqual:
		return 2
	case OpAdd, OpSub:
		return 3
	case OpMul, OpDiv, OpMod:
		return 4
	case OpNeg, OpNot, OpExp:
		return 6
	default:
		return -1
	}
}

// Arity returns the number of operands the operator pops.
func (op Operator) Arity() int {
	switch op {
	case OpNeg, OpNot:
		return 1
	default:
		return 2
	}
}

// RightAssoc reports right associativity. Only exponentiation binds
// right to left.
func (op Operator) RightAssoc() bool {
	return op == OpExp
}

var operatorNames = map[Operator]string{
	OpAdd:          "+",
	OpSub:          "-",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpExp:          "^",
	OpNeg:          "-",
	OpLess:         "<",
	OpGreater:      ">",
	OpLessEqual:    "<=",
	OpGreaterEqual: ">=",
	OpEqu:          "==",
	OpNotEqu:       "!=",
	OpApproxEqu:    "~=",
	OpNot:          "!",
	OpAnd:          "&&",
	OpOr:           "||",
	OpXor:          "^^",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "invalid"
}

// FromToken maps an operator token kind to its engine operator.
func FromToken(k token.Kind) (Operator, bool) {
	switch k {
	case token.Plus:
		return OpAdd, true
	case token.Minus:
		return OpSub, true
	case token.Star:
		return OpMul, true
	case token.Slash:
		return OpDiv, true
	case token.Percent:
		return OpMod, true
	case token.Caret:
		return OpExp, true
	case token.Lt:
		return OpLess, true
	case token.Gt:
		return OpGreater, true
	case token.LtEq:
		return OpLessEqual, true
	case token.GtEq:
		return OpGreaterEqual, true
	case token.EqEq:
		return OpEqu, true
	case token.BangEq:
		return OpNotEqu, true
	case token.TildeEq:
		return OpApproxEqu, true
	case token.Bang:
		return OpNot, true
	case token.AndAnd:
		return OpAnd, true
	case token.OrOr:
		return OpOr, true
	case token.CaretCaret:
		return OpXor, true
	default:
		return OpInvalid, false
	}
}

// IsComparison reports whether the operator compares two Numbers into
// a Boolean.
func (op Operator) IsComparison() bool {
	switch op {
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual,
		OpEqu, OpNotEqu, OpApproxEqu:
		return true
	default:
		return false
	}
}

// IsLogic reports whether the operator combines Booleans.
func (op Operator) IsLogic() bool {
	switch op {
	case OpAnd, OpOr, OpXor, OpNot:
		return true
	default:
		return false
	}
}
