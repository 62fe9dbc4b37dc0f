package pyast

import "fmt"

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range in the source.
type Span struct {
	Start int
	End   int
}

// Stmt is a statement node. The set of implementations is closed:
// *IfStmt, *CompoundStmt and *SimpleStmt.
type Stmt interface {
	Pos() Pos
	EndPos() Pos
	stmtNode()
}

// IfStmt is a conditional statement. An elif clause is represented
// as an *IfStmt inside Orelse, the same way Python's own ast does.
type IfStmt struct {
	Position Pos
	End      Pos
	Test     Expr
	TestSpan Span
	Body     []Stmt
	Orelse   []Stmt

	// HasAlternative is true when an elif or else branch exists.
	HasAlternative bool
}

// CompoundStmt is any statement owning nested blocks that is not a
// conditional: def, class, for, while, with, try, match.
type CompoundStmt struct {
	Position Pos
	End      Pos
	Kind     string
	Blocks   [][]Stmt
}

// SimpleStmt is a statement without nested blocks.
type SimpleStmt struct {
	Position Pos
	End      Pos
	Kind     string
}

func (s *IfStmt) Pos() Pos       { return s.Position }
func (s *CompoundStmt) Pos() Pos { return s.Position }
func (s *SimpleStmt) Pos() Pos   { return s.Position }

func (s *IfStmt) EndPos() Pos       { return s.End }
func (s *CompoundStmt) EndPos() Pos { return s.End }
func (s *SimpleStmt) EndPos() Pos   { return s.End }

func (*IfStmt) stmtNode()       {}
func (*CompoundStmt) stmtNode() {}
func (*SimpleStmt) stmtNode()   {}

// SoleIf returns the body's only statement when it is a conditional.
func (s *IfStmt) SoleIf() (*IfStmt, bool) {
	if len(s.Body) != 1 {
		return nil, false
	}
	inner, ok := s.Body[0].(*IfStmt)
	return inner, ok
}

// Expr is an expression node. The set of implementations is closed:
// *Compare, *BinOp, *Name, *Literal and *Other.
type Expr interface {
	exprNode()
}

// Compare mirrors Python's chained comparison: Left Ops[0] Comparators[0] Ops[1] ...
type Compare struct {
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

// BinOp is a binary arithmetic operation.
type BinOp struct {
	Left  Expr
	Op    ArithOp
	Right Expr
}

// Name is an identifier.
type Name struct {
	ID string
}

// LiteralKind classifies literals.
type LiteralKind int

const (
	NumberLit LiteralKind = iota
	StringLit
	BoolLit
	NoneLit
)

// Literal is a constant. Value holds the source text.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// Other is any expression the analysis passes through untouched.
type Other struct {
	Kind string
	Text string
}

func (*Compare) exprNode() {}
func (*BinOp) exprNode()   {}
func (*Name) exprNode()    {}
func (*Literal) exprNode() {}
func (*Other) exprNode()   {}

// Module is the root of a parsed file.
type Module struct {
	Body []Stmt
}

// File bundles everything derived from one parse of one source file.
type File struct {
	Module *Module
	Tokens []Token
	Source []byte
	Lines  []string
}

// Token is a lexical leaf of the parse tree.
type Token struct {
	Kind string
	Text string
	Pos  Pos
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == kw && t.Text == kw
}

// Walk calls fn for every statement in depth-first source order.
// Returning false from fn skips the statement's children.
func Walk(stmts []Stmt, fn func(Stmt) bool) {
	for _, stmt := range stmts {
		if !fn(stmt) {
			continue
		}
		switch s := stmt.(type) {
		case *IfStmt:
			Walk(s.Body, fn)
			Walk(s.Orelse, fn)
		case *CompoundStmt:
			for _, block := range s.Blocks {
				Walk(block, fn)
			}
		case *SimpleStmt:
		default:
			panic(fmt.Sprintf("pyast: unhandled statement %T", stmt))
		}
	}
}
