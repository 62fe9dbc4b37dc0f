package rewrite

import (
	"fmt"

	"github.com/gnolang/ifnest/internal/pyast"
)

// Derive proposes rewrites of node's test using DefaultOptions.
func Derive(node *pyast.IfStmt) []Candidate {
	return DeriveWithOptions(node, DefaultOptions())
}

// DeriveWithOptions proposes rewrites of node's test. Tests outside the
// supported shape yield an empty result rather than an error: anything
// that is not a single comparison, identity and membership tests over
// arithmetic, and arithmetic through % or **.
func DeriveWithOptions(node *pyast.IfStmt, opts Options) []Candidate {
	cmp, ok := node.Test.(*pyast.Compare)
	if !ok || len(cmp.Ops) != 1 || len(cmp.Comparators) != 1 {
		return nil
	}
	op, rhs := cmp.Ops[0], cmp.Comparators[0]

	switch left := cmp.Left.(type) {
	case *pyast.Name:
		return []Candidate{{
			Pivot:     left.ID,
			Op:        op,
			Right:     rhs,
			Source:    node,
			Side:      Unchanged,
			Exactness: pyast.Exact,
		}}
	case *pyast.BinOp:
		if !op.Ordering() && !op.Equality() {
			return nil
		}
		d := deriver{node: node, maxDepth: opts.MaxDepth}
		return d.isolate(left, op, rhs, pyast.Exact, 0, Unchanged)
	case *pyast.Compare, *pyast.Literal, *pyast.Other:
		return nil
	default:
		panic(fmt.Sprintf("rewrite: unhandled expression %T", cmp.Left))
	}
}

type deriver struct {
	node     *pyast.IfStmt
	maxDepth int
}

// isolate solves lhs cmp rhs for each named operand of lhs. side is
// the side chosen at the top level; Unchanged means "not chosen yet".
func (d deriver) isolate(lhs *pyast.BinOp, cmp pyast.CmpOp, rhs pyast.Expr, ex pyast.Exactness, depth int, side Side) []Candidate {
	if _, _, ok := lhs.Op.Inverse(); !ok {
		return nil
	}

	leftName, leftIsName := lhs.Left.(*pyast.Name)
	rightName, rightIsName := lhs.Right.(*pyast.Name)
	var out []Candidate

	if leftIsName || rightIsName {
		if leftIsName {
			if step, ok := isolateLeft(lhs, cmp, rhs); ok {
				out = append(out, d.candidate(leftName.ID, step, ex, pick(side, Left)))
			}
		}
		if rightIsName {
			if step, ok := isolateRight(lhs, cmp, rhs); ok {
				out = append(out, d.candidate(rightName.ID, step, ex, pick(side, Right)))
			}
		}
		return out
	}

	if depth >= d.maxDepth {
		return nil
	}
	if inner, ok := lhs.Left.(*pyast.BinOp); ok {
		if step, ok := isolateLeft(lhs, cmp, rhs); ok {
			out = append(out, d.isolate(inner, step.op, step.rhs, combine(ex, step.ex), depth+1, pick(side, Left))...)
		}
	}
	if inner, ok := lhs.Right.(*pyast.BinOp); ok {
		if step, ok := isolateRight(lhs, cmp, rhs); ok {
			out = append(out, d.isolate(inner, step.op, step.rhs, combine(ex, step.ex), depth+1, pick(side, Right))...)
		}
	}
	return out
}

func (d deriver) candidate(pivot string, s step, ex pyast.Exactness, side Side) Candidate {
	return Candidate{
		Pivot:     pivot,
		Op:        s.op,
		Right:     s.rhs,
		Source:    d.node,
		Side:      side,
		Exactness: combine(ex, s.ex),
	}
}

func pick(chosen, here Side) Side {
	if chosen != Unchanged {
		return chosen
	}
	return here
}

func combine(a, b pyast.Exactness) pyast.Exactness {
	if a == pyast.Approximate || b == pyast.Approximate {
		return pyast.Approximate
	}
	return pyast.Exact
}

// step is one move of a term across the comparison.
type step struct {
	op  pyast.CmpOp
	rhs pyast.Expr
	ex  pyast.Exactness
}

// isolateLeft turns (L op R) cmp rhs into L cmp' (rhs inv R).
func isolateLeft(lhs *pyast.BinOp, cmp pyast.CmpOp, rhs pyast.Expr) (step, bool) {
	inv, ex, _ := lhs.Op.Inverse()
	s := step{op: cmp, rhs: &pyast.BinOp{Left: rhs, Op: inv, Right: lhs.Right}, ex: ex}

	switch lhs.Op {
	case pyast.Add, pyast.Sub:
		return s, true
	case pyast.Mult, pyast.Div, pyast.FloorDiv:
		return scaled(s, lhs.Right, cmp)
	case pyast.Mod, pyast.Pow:
		return step{}, false
	default:
		panic(fmt.Sprintf("rewrite: unhandled arithmetic operator %s", lhs.Op))
	}
}

// isolateRight turns (L op R) cmp rhs into R cmp' expr.
func isolateRight(lhs *pyast.BinOp, cmp pyast.CmpOp, rhs pyast.Expr) (step, bool) {
	switch lhs.Op {
	case pyast.Add:
		return step{op: cmp, rhs: &pyast.BinOp{Left: rhs, Op: pyast.Sub, Right: lhs.Left}, ex: pyast.Exact}, true
	case pyast.Mult:
		s := step{op: cmp, rhs: &pyast.BinOp{Left: rhs, Op: pyast.Div, Right: lhs.Left}, ex: pyast.Exact}
		return scaled(s, lhs.Left, cmp)
	case pyast.Sub:
		// L - R < rhs  <=>  R > L - rhs
		return step{op: cmp.Swap(), rhs: &pyast.BinOp{Left: lhs.Left, Op: pyast.Sub, Right: rhs}, ex: pyast.Exact}, true
	case pyast.Div, pyast.FloorDiv:
		if isZero(rhs) {
			return step{}, false
		}
		ex := pyast.Exact
		if lhs.Op == pyast.FloorDiv || cmp.Ordering() {
			ex = pyast.Approximate
		}
		return step{op: cmp.Swap(), rhs: &pyast.BinOp{Left: lhs.Left, Op: lhs.Op, Right: rhs}, ex: ex}, true
	case pyast.Mod, pyast.Pow:
		return step{}, false
	default:
		panic(fmt.Sprintf("rewrite: unhandled arithmetic operator %s", lhs.Op))
	}
}

// scaled applies the sign rule for a multiplier or divisor moving
// across the comparison.
func scaled(s step, factor pyast.Expr, cmp pyast.CmpOp) (step, bool) {
	v, literal := pyast.NumericValue(factor)
	switch {
	case literal && v == 0:
		return step{}, false
	case !cmp.Ordering():
		return s, true
	case literal && v < 0:
		s.op = cmp.Swap()
		return s, true
	case literal:
		return s, true
	default:
		s.ex = pyast.Approximate
		return s, true
	}
}

func isZero(e pyast.Expr) bool {
	v, ok := pyast.NumericValue(e)
	return ok && v == 0
}
