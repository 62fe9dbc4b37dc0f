// Package rewrite derives single-comparison alternatives for a
// conditional's test by moving arithmetic terms across the comparison.
package rewrite

import (
	"fmt"

	"github.com/gnolang/ifnest/internal/pyast"
)

// Side tells which operand of the arithmetic left-hand side was
// isolated.
type Side int

const (
	Unchanged Side = iota
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Candidate is a proposed replacement test of the form Pivot Op Right.
type Candidate struct {
	Pivot     string
	Op        pyast.CmpOp
	Right     pyast.Expr
	Source    *pyast.IfStmt
	Side      Side
	Exactness pyast.Exactness
}

// Expr rebuilds the candidate as a comparison.
func (c Candidate) Expr() pyast.Expr {
	return &pyast.Compare{
		Left:        &pyast.Name{ID: c.Pivot},
		Ops:         []pyast.CmpOp{c.Op},
		Comparators: []pyast.Expr{c.Right},
	}
}

func (c Candidate) String() string {
	return pyast.Format(c.Expr())
}

// Options tunes derivation.
type Options struct {
	// MaxDepth bounds how many nested arithmetic operands are unwrapped
	// before giving up.
	MaxDepth int
}

// DefaultOptions unwraps one nested operand.
func DefaultOptions() Options {
	return Options{MaxDepth: 1}
}
