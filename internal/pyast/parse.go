package pyast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned when the parser could not make sense of part of
// the input.
var ErrSyntax = errors.New("syntax error")

// SyntaxError locates the first unparseable region.
type SyntaxError struct {
	Pos Pos
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", ErrSyntax, e.Pos.Line, e.Pos.Column)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// clause nodes that own blocks but are not statements
var clauseKinds = map[string]bool{
	"except_clause":       true,
	"except_group_clause": true,
	"else_clause":         true,
	"finally_clause":      true,
	"case_clause":         true,
	"function_definition": true,
	"class_definition":    true,
}

// Parse parses Python source into a File.
func Parse(ctx context.Context, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &SyntaxError{Pos: firstError(root)}
	}

	c := &converter{src: src}
	file := &File{
		Module: &Module{Body: c.statements(root)},
		Tokens: collectTokens(root, src),
		Source: src,
		Lines:  splitLines(src),
	}
	return file, nil
}

// ParseString is a convenience for tests and small snippets.
func ParseString(src string) (*File, error) {
	return Parse(context.Background(), []byte(src))
}

func firstError(n *sitter.Node) Pos {
	if n.Type() == "ERROR" || n.IsMissing() {
		return startPos(n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && (child.HasError() || child.IsMissing()) {
			return firstError(child)
		}
	}
	return startPos(n)
}

func startPos(n *sitter.Node) Pos {
	p := n.StartPoint()
	return Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func endPos(n *sitter.Node) Pos {
	p := n.EndPoint()
	return Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// statements converts the named statement children of a module or block.
func (c *converter) statements(n *sitter.Node) []Stmt {
	var out []Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, c.statement(child))
	}
	return out
}

func (c *converter) statement(n *sitter.Node) Stmt {
	switch n.Type() {
	case "if_statement":
		return c.ifStatement(n)
	case "function_definition", "class_definition", "decorated_definition",
		"for_statement", "while_statement", "with_statement",
		"try_statement", "match_statement":
		return &CompoundStmt{
			Position: startPos(n),
			End:      endPos(n),
			Kind:     n.Type(),
			Blocks:   c.blocks(n),
		}
	default:
		return &SimpleStmt{Position: startPos(n), End: endPos(n), Kind: n.Type()}
	}
}

func (c *converter) blocks(n *sitter.Node) [][]Stmt {
	var out [][]Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch {
		case child.Type() == "block" && n.Type() == "match_statement":
			// match bodies hold case clauses rather than statements
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if cc := child.NamedChild(j); cc != nil && cc.Type() == "case_clause" {
					out = append(out, c.blocks(cc)...)
				}
			}
		case child.Type() == "block":
			out = append(out, c.statements(child))
		case clauseKinds[child.Type()]:
			out = append(out, c.blocks(child)...)
		}
	}
	return out
}

func (c *converter) ifStatement(n *sitter.Node) *IfStmt {
	var alternatives []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		if t := child.Type(); t == "elif_clause" || t == "else_clause" {
			alternatives = append(alternatives, child)
		}
	}
	return c.conditional(n, n, alternatives)
}

// conditional builds an IfStmt from a node carrying condition and
// consequence fields. The trailing clauses become the nested Orelse.
func (c *converter) conditional(head, outer *sitter.Node, alternatives []*sitter.Node) *IfStmt {
	cond := head.ChildByFieldName("condition")
	stmt := &IfStmt{
		Position:       startPos(head),
		End:            endPos(outer),
		Test:           c.expr(cond),
		TestSpan:       Span{Start: int(cond.StartByte()), End: int(cond.EndByte())},
		HasAlternative: len(alternatives) > 0,
	}
	if body := head.ChildByFieldName("consequence"); body != nil {
		stmt.Body = c.statements(body)
	}
	if len(alternatives) == 0 {
		return stmt
	}

	last := alternatives[len(alternatives)-1]
	next := alternatives[0]
	switch next.Type() {
	case "elif_clause":
		stmt.Orelse = []Stmt{c.conditional(next, last, alternatives[1:])}
	case "else_clause":
		if body := next.ChildByFieldName("body"); body != nil {
			stmt.Orelse = c.statements(body)
		}
	default:
		panic(fmt.Sprintf("pyast: unexpected alternative %q", next.Type()))
	}
	return stmt
}

func (c *converter) expr(n *sitter.Node) Expr {
	if n == nil {
		return &Other{Kind: "missing"}
	}
	switch n.Type() {
	case "parenthesized_expression":
		if inner := firstNamed(n); inner != nil {
			return c.expr(inner)
		}
	case "comparison_operator":
		return c.comparison(n)
	case "binary_operator":
		op, ok := ParseArithOp(c.text(n.ChildByFieldName("operator")))
		if !ok {
			break
		}
		return &BinOp{
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    op,
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "identifier":
		return &Name{ID: c.text(n)}
	case "integer", "float":
		return &Literal{Kind: NumberLit, Value: c.text(n)}
	case "string", "concatenated_string":
		return &Literal{Kind: StringLit, Value: c.text(n)}
	case "true", "false":
		return &Literal{Kind: BoolLit, Value: c.text(n)}
	case "none":
		return &Literal{Kind: NoneLit, Value: c.text(n)}
	case "unary_operator":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		if arg != nil && op != nil && c.text(op) == "-" {
			if t := arg.Type(); t == "integer" || t == "float" {
				return &Literal{Kind: NumberLit, Value: "-" + c.text(arg)}
			}
		}
	}
	return &Other{Kind: n.Type(), Text: c.text(n)}
}

// comparison reads operands from named children and operators from the
// anonymous tokens between them. Two-word operators may arrive as a
// single aliased token or as two tokens.
func (c *converter) comparison(n *sitter.Node) Expr {
	var (
		operands []Expr
		ops      []CmpOp
		pending  []string
	)
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if child.IsNamed() {
			if len(pending) > 0 {
				op, ok := ParseCmpOp(strings.Join(pending, " "))
				if !ok {
					return &Other{Kind: n.Type(), Text: c.text(n)}
				}
				ops = append(ops, op)
				pending = pending[:0]
			}
			operands = append(operands, c.expr(child))
			continue
		}
		pending = append(pending, child.Type())
	}
	if len(operands) < 2 || len(ops) != len(operands)-1 {
		return &Other{Kind: n.Type(), Text: c.text(n)}
	}
	return &Compare{Left: operands[0], Ops: ops, Comparators: operands[1:]}
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// collectTokens returns every leaf in source order. Strings are kept
// whole so keywords inside literals never show up as tokens.
func collectTokens(root *sitter.Node, src []byte) []Token {
	var tokens []Token
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.ChildCount() == 0 || n.Type() == "string" {
			if n.EndByte() > n.StartByte() {
				tokens = append(tokens, Token{
					Kind: n.Type(),
					Text: n.Content(src),
					Pos:  startPos(n),
				})
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if child := n.Child(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)
	return tokens
}

func splitLines(src []byte) []string {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
