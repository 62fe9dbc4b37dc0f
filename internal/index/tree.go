// Package index builds read-only structural views over a parsed file.
package index

import (
	"fmt"

	"github.com/gnolang/ifnest/internal/pyast"
)

// TreeIndex records every conditional of a module together with its
// containment relations.
type TreeIndex struct {
	module       *pyast.Module
	conditionals []*pyast.IfStmt
	parent       map[*pyast.IfStmt]*pyast.IfStmt
	child        map[*pyast.IfStmt]*pyast.IfStmt
}

// BuildTree indexes the module in depth-first source order.
func BuildTree(m *pyast.Module) *TreeIndex {
	idx := &TreeIndex{
		module: m,
		parent: make(map[*pyast.IfStmt]*pyast.IfStmt),
		child:  make(map[*pyast.IfStmt]*pyast.IfStmt),
	}
	if m == nil {
		return idx
	}
	idx.visit(m.Body, nil)
	return idx
}

func (idx *TreeIndex) visit(stmts []pyast.Stmt, enclosing *pyast.IfStmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *pyast.IfStmt:
			idx.conditionals = append(idx.conditionals, s)
			if enclosing != nil {
				idx.parent[s] = enclosing
			}
			if inner, ok := s.SoleIf(); ok {
				idx.child[s] = inner
			}
			idx.visit(s.Body, s)
			idx.visit(s.Orelse, s)
		case *pyast.CompoundStmt:
			for _, block := range s.Blocks {
				idx.visit(block, enclosing)
			}
		case *pyast.SimpleStmt:
		default:
			panic(fmt.Sprintf("index: unhandled statement %T", stmt))
		}
	}
}

// Module returns the indexed module.
func (idx *TreeIndex) Module() *pyast.Module { return idx.module }

// Conditionals returns every conditional in source order, elif
// clauses included.
func (idx *TreeIndex) Conditionals() []*pyast.IfStmt {
	out := make([]*pyast.IfStmt, len(idx.conditionals))
	copy(out, idx.conditionals)
	return out
}

// Parent returns the nearest enclosing conditional.
func (idx *TreeIndex) Parent(n *pyast.IfStmt) (*pyast.IfStmt, bool) {
	p, ok := idx.parent[n]
	return p, ok
}

// NestedChild returns n's sole body statement when that statement is
// a conditional.
func (idx *TreeIndex) NestedChild(n *pyast.IfStmt) (*pyast.IfStmt, bool) {
	c, ok := idx.child[n]
	return c, ok
}

// Roots returns the conditionals with no enclosing conditional.
func (idx *TreeIndex) Roots() []*pyast.IfStmt {
	var out []*pyast.IfStmt
	for _, n := range idx.conditionals {
		if _, ok := idx.parent[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
