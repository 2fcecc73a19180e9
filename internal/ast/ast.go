package ast

import "github.com/comfy-lang/comfy/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node. A nil Expr stands for an absent value,
// such as a let without an initializer or an argument without a default.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is a parsed compilation unit: an ordered list of top-level statements.
type Program struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the span covering the entire program.
func (p *Program) Span() lexer.Span { return p.span }

// NewProgram constructs a program node with the provided span.
func NewProgram(span lexer.Span) *Program {
	return &Program{span: span}
}

// SetSpan updates the program span.
func (p *Program) SetSpan(span lexer.Span) {
	p.span = span
}

// Block is a brace-delimited statement list.
type Block struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the block span.
func (b *Block) Span() lexer.Span { return b.span }

// NewBlock constructs a block node.
func NewBlock(stmts []Stmt, span lexer.Span) *Block {
	return &Block{Stmts: stmts, span: span}
}

// SetSpan updates the block span.
func (b *Block) SetSpan(span lexer.Span) {
	b.span = span
}

// AccessKind is the visibility named by an access modifier.
type AccessKind int

const (
	Private AccessKind = iota
	Public
	Protected
)

func (k AccessKind) String() string {
	switch k {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// AccessModifier is the optional pub/priv/prot prefix of a function.
// An omitted modifier is Private with a zero-width span at the fn keyword.
type AccessModifier struct {
	Kind AccessKind
	span lexer.Span
}

// Span returns the modifier span.
func (m *AccessModifier) Span() lexer.Span { return m.span }

// NewAccessModifier constructs an access modifier node.
func NewAccessModifier(kind AccessKind, span lexer.Span) *AccessModifier {
	return &AccessModifier{Kind: kind, span: span}
}

// Argument is one entry of a function's argument list.
type Argument struct {
	Name    *Ident
	Type    *Type // nil when not annotated
	Default Expr  // nil when absent
	span    lexer.Span
}

// Span returns the argument span.
func (a *Argument) Span() lexer.Span { return a.span }

// NewArgument constructs an argument node.
func NewArgument(name *Ident, typ *Type, def Expr, span lexer.Span) *Argument {
	return &Argument{Name: name, Type: typ, Default: def, span: span}
}

// FnDecl represents a function declaration.
type FnDecl struct {
	Access     *AccessModifier
	Name       *Ident
	Args       []*Argument
	ReturnType *Type // nil when inferred from the body
	Body       *Block
	span       lexer.Span
}

// Span returns the declaration span.
func (d *FnDecl) Span() lexer.Span { return d.span }

// NewFnDecl constructs a function declaration node.
func NewFnDecl(access *AccessModifier, name *Ident, args []*Argument, returnType *Type, body *Block, span lexer.Span) *FnDecl {
	return &FnDecl{
		Access:     access,
		Name:       name,
		Args:       args,
		ReturnType: returnType,
		Body:       body,
		span:       span,
	}
}

// SetSpan updates the function declaration span.
func (d *FnDecl) SetSpan(span lexer.Span) {
	d.span = span
}

// stmtNode marks FnDecl as a statement.
func (*FnDecl) stmtNode() {}

// LetStmt represents a let binding statement.
type LetStmt struct {
	Name  *Ident
	Type  *Type // nil when inferred
	Value Expr  // nil when there is no initializer
	span  lexer.Span
}

// Span returns the statement span.
func (s *LetStmt) Span() lexer.Span { return s.span }

// NewLetStmt constructs a let statement node.
func NewLetStmt(name *Ident, typ *Type, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{
		Name:  name,
		Type:  typ,
		Value: value,
		span:  span,
	}
}

// stmtNode marks LetStmt as a statement.
func (*LetStmt) stmtNode() {}

// IfStmt represents an if statement. Else is a *Block, an *IfStmt for an
// else-if chain, or nil.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else Stmt
	span lexer.Span
}

// Span returns the statement span.
func (s *IfStmt) Span() lexer.Span { return s.span }

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, then *Block, els Stmt, span lexer.Span) *IfStmt {
	return &IfStmt{Cond: cond, Then: then, Else: els, span: span}
}

// stmtNode marks IfStmt as a statement.
func (*IfStmt) stmtNode() {}

// stmtNode lets a Block stand as the else branch of an IfStmt.
func (*Block) stmtNode() {}

// ReturnStmt represents an explicit `return expr;` or, when Implicit is set,
// a bare trailing expression at the end of a block.
type ReturnStmt struct {
	Value    Expr // nil for a bare `return;`
	Implicit bool
	span     lexer.Span
}

// Span returns the statement span.
func (s *ReturnStmt) Span() lexer.Span { return s.span }

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(value Expr, implicit bool, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, Implicit: implicit, span: span}
}

// stmtNode marks ReturnStmt as a statement.
func (*ReturnStmt) stmtNode() {}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, span: span}
}

// stmtNode marks ExprStmt as a statement.
func (*ExprStmt) stmtNode() {}
