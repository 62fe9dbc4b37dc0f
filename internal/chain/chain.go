// Package chain finds runs of nested conditionals that could be
// collapsed into a single test.
package chain

import (
	"fmt"

	"github.com/gnolang/ifnest/internal/index"
	"github.com/gnolang/ifnest/internal/pyast"
)

// Chain is a maximal run of nested conditionals. In tree mode every
// node's only body statement is the next node. Token mode leaves
// Nodes empty and only reports rows. Start and End are the positions
// of the outermost and innermost members.
type Chain struct {
	Number int
	Nodes  []*pyast.IfStmt
	Rows   []int
	Start  pyast.Pos
	End    pyast.Pos
}

// Len returns the number of conditionals in the chain.
func (c Chain) Len() int { return len(c.Rows) }

// Innermost returns the deepest conditional of a tree-mode chain.
func (c Chain) Innermost() *pyast.IfStmt {
	if len(c.Nodes) == 0 {
		return nil
	}
	return c.Nodes[len(c.Nodes)-1]
}

func newTreeChain(number int, nodes []*pyast.IfStmt) Chain {
	if len(nodes) < 2 {
		panic(fmt.Sprintf("chain: malformed chain with %d member(s)", len(nodes)))
	}
	rows := make([]int, len(nodes))
	for i, n := range nodes {
		rows[i] = n.Pos().Line
	}
	return Chain{
		Number: number,
		Nodes:  nodes,
		Rows:   rows,
		Start:  nodes[0].Pos(),
		End:    nodes[len(nodes)-1].Pos(),
	}
}

func newRowChain(number int, rows []int) Chain {
	if len(rows) < 2 {
		panic(fmt.Sprintf("chain: malformed chain with %d member(s)", len(rows)))
	}
	return Chain{
		Number: number,
		Rows:   rows,
		Start:  pyast.Pos{Line: rows[0], Column: 1},
		End:    pyast.Pos{Line: rows[len(rows)-1], Column: 1},
	}
}

// linked reports whether n continues into a nested member.
func linked(idx *index.TreeIndex, n *pyast.IfStmt) (*pyast.IfStmt, bool) {
	if n.HasAlternative {
		return nil, false
	}
	inner, ok := idx.NestedChild(n)
	if !ok || inner.HasAlternative {
		return nil, false
	}
	return inner, true
}

// Detect reports every chain of the indexed module in source order.
// A conditional already taken by an enclosing chain never starts one.
func Detect(idx *index.TreeIndex) []Chain {
	var found []Chain
	claimed := make(map[*pyast.IfStmt]bool)
	for _, n := range idx.Conditionals() {
		if claimed[n] {
			continue
		}
		nodes := []*pyast.IfStmt{n}
		for next, ok := linked(idx, n); ok; next, ok = linked(idx, next) {
			claimed[next] = true
			nodes = append(nodes, next)
		}
		if len(nodes) > 1 {
			found = append(found, newTreeChain(len(found)+1, nodes))
		}
	}
	return found
}

// DetectTokens groups the rows holding an "if" keyword into runs of
// consecutive rows. It approximates Detect without a syntax tree.
func DetectTokens(idx *index.TokenIndex) []Chain {
	var (
		found []Chain
		run   []int
	)
	flush := func() {
		if len(run) > 1 {
			found = append(found, newRowChain(len(found)+1, run))
		}
		run = nil
	}
	for _, row := range idx.ConditionalRows() {
		if len(run) > 0 && row != run[len(run)-1]+1 {
			flush()
		}
		run = append(run, row)
	}
	flush()
	return found
}
