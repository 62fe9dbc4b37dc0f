package verify

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/gnolang/ifnest/internal/pyast"
)

// ErrDivisionByZero mirrors Python's ZeroDivisionError.
var ErrDivisionByZero = errors.New("division by zero")

// Evaluator evaluates expressions.
type Evaluator struct{}

// NewEvaluator creates an evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// EvalExpr evaluates an expression in env. Unbound names and
// unsupported constructs evaluate to a SymbolicValue.
func (ev *Evaluator) EvalExpr(expr pyast.Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *pyast.Name:
		if val := env.Get(e.ID); val != nil {
			return val, nil
		}
		return SymbolicValue{Name: e.ID}, nil

	case *pyast.Literal:
		return literalValue(e), nil

	case *pyast.BinOp:
		left, err := ev.EvalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := ev.EvalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return evalArith(e.Op, left, right)

	case *pyast.Compare:
		left, err := ev.EvalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		// a < b < c is a < b and b < c, evaluated left to right
		for i, op := range e.Ops {
			right, err := ev.EvalExpr(e.Comparators[i], env)
			if err != nil {
				return nil, err
			}
			res := evalCompare(op, left, right)
			b, ok := res.(BoolValue)
			if !ok || !b.Val {
				return res, nil
			}
			left = right
		}
		return BoolValue{Val: true}, nil

	case *pyast.Other:
		return SymbolicValue{Name: e.Kind}, nil

	default:
		panic(fmt.Sprintf("verify: unhandled expression %T", expr))
	}
}

func literalValue(lit *pyast.Literal) Value {
	switch lit.Kind {
	case pyast.NumberLit:
		text := strings.ReplaceAll(lit.Value, "_", "")
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			return IntValue{Val: i}
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return FloatValue{Val: f}
		}
		return SymbolicValue{Name: "number"}
	case pyast.BoolLit:
		return BoolValue{Val: lit.Value == "True"}
	case pyast.StringLit:
		return SymbolicValue{Name: "string"}
	case pyast.NoneLit:
		return SymbolicValue{Name: "None"}
	default:
		panic(fmt.Sprintf("verify: unhandled literal kind %d", int(lit.Kind)))
	}
}

func evalArith(op pyast.ArithOp, left, right Value) (Value, error) {
	l, lok := numeric(left)
	r, rok := numeric(right)
	if !lok || !rok {
		return SymbolicValue{Name: "arith"}, nil
	}

	li, lInt := left.(IntValue)
	ri, rInt := right.(IntValue)
	if lInt && rInt {
		return intArith(op, li.Val, ri.Val)
	}

	switch op {
	case pyast.Add:
		return FloatValue{Val: l + r}, nil
	case pyast.Sub:
		return FloatValue{Val: l - r}, nil
	case pyast.Mult:
		return FloatValue{Val: l * r}, nil
	case pyast.Div:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return FloatValue{Val: l / r}, nil
	case pyast.FloorDiv:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return FloatValue{Val: math.Floor(l / r)}, nil
	case pyast.Mod:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return FloatValue{Val: l - r*math.Floor(l/r)}, nil
	case pyast.Pow:
		if l == 0 && r < 0 {
			return nil, ErrDivisionByZero
		}
		return FloatValue{Val: math.Pow(l, r)}, nil
	default:
		panic(fmt.Sprintf("verify: unhandled arithmetic operator %s", op))
	}
}

// overflow stands for an int result outside int64. Python ints are
// unbounded, so such results are not compared.
var overflow = SymbolicValue{Name: "overflow"}

func intArith(op pyast.ArithOp, l, r int64) (Value, error) {
	switch op {
	case pyast.Add:
		return intResult(checkedAdd(l, r))
	case pyast.Sub:
		return intResult(checkedSub(l, r))
	case pyast.Mult:
		return intResult(checkedMul(l, r))
	case pyast.Div:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return FloatValue{Val: float64(l) / float64(r)}, nil
	case pyast.FloorDiv:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		if l == math.MinInt64 && r == -1 {
			return overflow, nil
		}
		return IntValue{Val: floorDiv(l, r)}, nil
	case pyast.Mod:
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		if r == -1 {
			return IntValue{Val: 0}, nil
		}
		return IntValue{Val: l - r*floorDiv(l, r)}, nil
	case pyast.Pow:
		if r < 0 {
			if l == 0 {
				return nil, ErrDivisionByZero
			}
			return FloatValue{Val: math.Pow(float64(l), float64(r))}, nil
		}
		return intResult(checkedPow(l, r))
	default:
		panic(fmt.Sprintf("verify: unhandled arithmetic operator %s", op))
	}
}

func intResult(v int64, ok bool) (Value, error) {
	if !ok {
		return overflow, nil
	}
	return IntValue{Val: v}, nil
}

func checkedAdd(a, b int64) (int64, bool) {
	s := a + b
	return s, (s > a) == (b > 0)
}

func checkedSub(a, b int64) (int64, bool) {
	d := a - b
	return d, (d < a) == (b > 0)
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(absUint(a), absUint(b))
	if hi != 0 {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		if lo > 1<<63 {
			return 0, false
		}
		return -int64(lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// checkedPow squares its way through exp, so the loop runs at most 63
// times whatever the exponent.
func checkedPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		var ok bool
		if exp&1 == 1 {
			if result, ok = checkedMul(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = checkedMul(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func absUint(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func numeric(v Value) (float64, bool) {
	switch n := v.(type) {
	case IntValue:
		return float64(n.Val), true
	case FloatValue:
		return n.Val, true
	default:
		return 0, false
	}
}

func evalCompare(op pyast.CmpOp, left, right Value) Value {
	l, lok := numeric(left)
	r, rok := numeric(right)
	if !lok || !rok {
		return SymbolicValue{Name: "compare"}
	}
	switch op {
	case pyast.Lt:
		return BoolValue{Val: l < r}
	case pyast.LtE:
		return BoolValue{Val: l <= r}
	case pyast.Gt:
		return BoolValue{Val: l > r}
	case pyast.GtE:
		return BoolValue{Val: l >= r}
	case pyast.Eq:
		return BoolValue{Val: left.Equal(right)}
	case pyast.NotEq:
		return BoolValue{Val: !left.Equal(right)}
	case pyast.Is, pyast.IsNot, pyast.In, pyast.NotIn:
		return SymbolicValue{Name: op.String()}
	default:
		panic(fmt.Sprintf("verify: unhandled comparison %s", op))
	}
}
