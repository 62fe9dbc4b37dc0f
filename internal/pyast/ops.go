package pyast

import "fmt"

// CmpOp is a comparison operator.
type CmpOp int

const (
	Lt CmpOp = iota
	LtE
	Gt
	GtE
	Eq
	NotEq
	Is
	IsNot
	In
	NotIn
)

var cmpOpText = [...]string{
	Lt:    "<",
	LtE:   "<=",
	Gt:    ">",
	GtE:   ">=",
	Eq:    "==",
	NotEq: "!=",
	Is:    "is",
	IsNot: "is not",
	In:    "in",
	NotIn: "not in",
}

func (op CmpOp) String() string {
	if op < 0 || int(op) >= len(cmpOpText) {
		return fmt.Sprintf("CmpOp(%d)", int(op))
	}
	return cmpOpText[op]
}

// ParseCmpOp maps operator text to a CmpOp. "<>" is accepted as the
// legacy spelling of "!=".
func ParseCmpOp(text string) (CmpOp, bool) {
	switch text {
	case "<>":
		return NotEq, true
	}
	for op, s := range cmpOpText {
		if s == text {
			return CmpOp(op), true
		}
	}
	return 0, false
}

// Swap returns the operator that keeps the relation true when the two
// operands change sides: a < b holds exactly when b > a.
// Equality, identity and membership operators are unchanged.
func (op CmpOp) Swap() CmpOp {
	switch op {
	case Lt:
		return Gt
	case Gt:
		return Lt
	case LtE:
		return GtE
	case GtE:
		return LtE
	case Eq, NotEq, Is, IsNot, In, NotIn:
		return op
	default:
		panic(fmt.Sprintf("pyast: unhandled comparison %d", int(op)))
	}
}

// Negate returns the logical complement: not (a < b) is a >= b.
// It must not be used for operand swaps.
func (op CmpOp) Negate() CmpOp {
	switch op {
	case Lt:
		return GtE
	case GtE:
		return Lt
	case Gt:
		return LtE
	case LtE:
		return Gt
	case Eq:
		return NotEq
	case NotEq:
		return Eq
	case Is:
		return IsNot
	case IsNot:
		return Is
	case In:
		return NotIn
	case NotIn:
		return In
	default:
		panic(fmt.Sprintf("pyast: unhandled comparison %d", int(op)))
	}
}

// Ordering reports whether op is one of <, <=, >, >=.
func (op CmpOp) Ordering() bool {
	switch op {
	case Lt, LtE, Gt, GtE:
		return true
	default:
		return false
	}
}

// Equality reports whether op is == or !=.
func (op CmpOp) Equality() bool {
	return op == Eq || op == NotEq
}

// ArithOp is a binary arithmetic operator.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mult
	Div
	FloorDiv
	Mod
	Pow
)

var arithOpText = [...]string{
	Add:      "+",
	Sub:      "-",
	Mult:     "*",
	Div:      "/",
	FloorDiv: "//",
	Mod:      "%",
	Pow:      "**",
}

func (op ArithOp) String() string {
	if op < 0 || int(op) >= len(arithOpText) {
		return fmt.Sprintf("ArithOp(%d)", int(op))
	}
	return arithOpText[op]
}

// ParseArithOp maps operator text to an ArithOp.
func ParseArithOp(text string) (ArithOp, bool) {
	for op, s := range arithOpText {
		if s == text {
			return ArithOp(op), true
		}
	}
	return 0, false
}

// Commutative reports whether a op b == b op a.
func (op ArithOp) Commutative() bool {
	return op == Add || op == Mult
}

// Exactness tells whether an algebraic rearrangement preserves the
// truth value of the original test.
type Exactness int

const (
	Exact Exactness = iota
	// Approximate rewrites are plausible but not equivalent for every
	// input (floor division, sign-dependent scaling).
	Approximate
)

func (e Exactness) String() string {
	switch e {
	case Exact:
		return "exact"
	case Approximate:
		return "approximate"
	default:
		return fmt.Sprintf("Exactness(%d)", int(e))
	}
}

// Inverse returns the operator that undoes op when a term moves across
// a comparison. Floor division has no exact inverse and maps to
// multiplication as a best effort. Modulo and power are not invertible.
func (op ArithOp) Inverse() (ArithOp, Exactness, bool) {
	switch op {
	case Add:
		return Sub, Exact, true
	case Sub:
		return Add, Exact, true
	case Mult:
		return Div, Exact, true
	case Div:
		return Mult, Exact, true
	case FloorDiv:
		return Mult, Approximate, true
	case Mod, Pow:
		return op, Exact, false
	default:
		panic(fmt.Sprintf("pyast: unhandled arithmetic operator %d", int(op)))
	}
}
