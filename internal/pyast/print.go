package pyast

import (
	"fmt"
	"strconv"
	"strings"
)

// binding strength, loosely following the Python grammar
const (
	precLowest  = 0
	precOr      = 1
	precAnd     = 2
	precNot     = 3
	precCompare = 4
	precBitwise = 5
	precAdd     = 9
	precMul     = 10
	precUnary   = 11
	precPow     = 12
	precAtom    = 14
)

// Format renders an expression as Python source, adding only the
// parentheses precedence requires.
func Format(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *Compare:
		writeOperand(sb, x.Left, precCompare+1)
		for i, op := range x.Ops {
			sb.WriteString(" ")
			sb.WriteString(op.String())
			sb.WriteString(" ")
			writeOperand(sb, x.Comparators[i], precCompare+1)
		}
	case *BinOp:
		p := arithPrec(x.Op)
		leftMin, rightMin := p, p+1
		if x.Op == Pow {
			// right-associative
			leftMin, rightMin = p+1, p
		}
		writeOperand(sb, x.Left, leftMin)
		sb.WriteString(" ")
		sb.WriteString(x.Op.String())
		sb.WriteString(" ")
		writeOperand(sb, x.Right, rightMin)
	case *Name:
		sb.WriteString(x.ID)
	case *Literal:
		sb.WriteString(x.Value)
	case *Other:
		sb.WriteString(x.Text)
	default:
		panic(fmt.Sprintf("pyast: unhandled expression %T", e))
	}
}

func writeOperand(sb *strings.Builder, e Expr, minPrec int) {
	if precedence(e) < minPrec {
		sb.WriteString("(")
		writeExpr(sb, e)
		sb.WriteString(")")
		return
	}
	writeExpr(sb, e)
}

func arithPrec(op ArithOp) int {
	switch op {
	case Add, Sub:
		return precAdd
	case Mult, Div, FloorDiv, Mod:
		return precMul
	case Pow:
		return precPow
	default:
		panic(fmt.Sprintf("pyast: unhandled arithmetic operator %d", int(op)))
	}
}

func precedence(e Expr) int {
	switch x := e.(type) {
	case *Compare:
		return precCompare
	case *BinOp:
		return arithPrec(x.Op)
	case *Name:
		return precAtom
	case *Literal:
		if strings.HasPrefix(x.Value, "-") {
			return precUnary
		}
		return precAtom
	case *Other:
		return otherPrec(x)
	default:
		panic(fmt.Sprintf("pyast: unhandled expression %T", e))
	}
}

func otherPrec(o *Other) int {
	switch o.Kind {
	case "conditional_expression", "lambda", "named_expression":
		return precLowest
	case "boolean_operator":
		if strings.Contains(o.Text, " or ") {
			return precOr
		}
		return precAnd
	case "not_operator":
		return precNot
	case "comparison_operator":
		return precCompare
	case "binary_operator":
		return precBitwise
	case "unary_operator":
		return precUnary
	default:
		return precAtom
	}
}

// NeedsGrouping reports whether e must be parenthesized to be joined
// with other tests using "and".
func NeedsGrouping(e Expr) bool {
	return precedence(e) < precAnd+1
}

// NumericValue returns the value of a real numeric literal.
func NumericValue(e Expr) (float64, bool) {
	lit, ok := e.(*Literal)
	if !ok || lit.Kind != NumberLit {
		return 0, false
	}
	text := strings.ReplaceAll(lit.Value, "_", "")
	if strings.HasSuffix(text, "j") || strings.HasSuffix(text, "J") {
		return 0, false
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
