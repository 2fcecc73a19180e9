package ast

import "github.com/comfy-lang/comfy/internal/lexer"

// LiteralKind distinguishes the literal forms.
type LiteralKind int

const (
	BoolLit LiteralKind = iota
	DecimalLit
	HexLit
	OctalLit
	BinaryLit
	CharLit
	StrLit
)

func (k LiteralKind) String() string {
	switch k {
	case BoolLit:
		return "bool"
	case DecimalLit:
		return "decimal"
	case HexLit:
		return "hex"
	case OctalLit:
		return "octal"
	case BinaryLit:
		return "binary"
	case CharLit:
		return "char"
	default:
		return "str"
	}
}

// Literal is a constant written in the source. Value holds "true"/"false",
// the digit text (without base prefix), or the escaped character/string content.
type Literal struct {
	Kind  LiteralKind
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (l *Literal) Span() lexer.Span { return l.span }

// NewLiteral constructs a literal node.
func NewLiteral(kind LiteralKind, value string, span lexer.Span) *Literal {
	return &Literal{Kind: kind, Value: value, span: span}
}

func (*Literal) exprNode() {}

// TypeValue is a type used in value position, as in sizeof(i32).
type TypeValue struct {
	Type *Type
}

// Span returns the span of the wrapped type.
func (v *TypeValue) Span() lexer.Span { return v.Type.Span() }

// NewTypeValue wraps typ as an expression.
func NewTypeValue(typ *Type) *TypeValue {
	return &TypeValue{Type: typ}
}

func (*TypeValue) exprNode() {}

// Ident represents an identifier.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// exprNode marks Ident as an expression.
func (*Ident) exprNode() {}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{
		Name: name,
		span: span,
	}
}

// BinaryExpr represents an infix operator application.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op BinaryOp, left, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix or postfix operator application.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	span    lexer.Span
}

// Span returns the expression span.
func (e *UnaryExpr) Span() lexer.Span { return e.span }

// NewUnaryExpr constructs a unary expression node.
func NewUnaryExpr(op UnaryOp, operand Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

func (*UnaryExpr) exprNode() {}

// MemberExpr represents `target.member`.
type MemberExpr struct {
	Target Expr
	Member Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *MemberExpr) Span() lexer.Span { return e.span }

// NewMemberExpr constructs a member access node.
func NewMemberExpr(target, member Expr, span lexer.Span) *MemberExpr {
	return &MemberExpr{Target: target, Member: member, span: span}
}

func (*MemberExpr) exprNode() {}

// CastExpr represents `value as Type`.
type CastExpr struct {
	Value Expr
	Type  *Type
	span  lexer.Span
}

// Span returns the expression span.
func (e *CastExpr) Span() lexer.Span { return e.span }

// NewCastExpr constructs a cast node.
func NewCastExpr(value Expr, typ *Type, span lexer.Span) *CastExpr {
	return &CastExpr{Value: value, Type: typ, span: span}
}

func (*CastExpr) exprNode() {}

// AssignExpr represents plain or compound assignment.
type AssignExpr struct {
	Op     AssignOp
	Target Expr
	Value  Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *AssignExpr) Span() lexer.Span { return e.span }

// NewAssignExpr constructs an assignment node.
func NewAssignExpr(op AssignOp, target, value Expr, span lexer.Span) *AssignExpr {
	return &AssignExpr{Op: op, Target: target, Value: value, span: span}
}

func (*AssignExpr) exprNode() {}

// CallExpr represents `callee(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// NewCallExpr constructs a call node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

func (*CallExpr) exprNode() {}

// IndexExpr represents `target[index]`.
type IndexExpr struct {
	Target Expr
	Index  Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *IndexExpr) Span() lexer.Span { return e.span }

// NewIndexExpr constructs an index node.
func NewIndexExpr(target, index Expr, span lexer.Span) *IndexExpr {
	return &IndexExpr{Target: target, Index: index, span: span}
}

func (*IndexExpr) exprNode() {}

// TupleExpr represents `(a, b, ...)`.
type TupleExpr struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *TupleExpr) Span() lexer.Span { return e.span }

// NewTupleExpr constructs a tuple literal node.
func NewTupleExpr(elems []Expr, span lexer.Span) *TupleExpr {
	return &TupleExpr{Elems: elems, span: span}
}

func (*TupleExpr) exprNode() {}

// ArrayExpr represents `[a, b, ...]`.
type ArrayExpr struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *ArrayExpr) Span() lexer.Span { return e.span }

// NewArrayExpr constructs an array literal node.
func NewArrayExpr(elems []Expr, span lexer.Span) *ArrayExpr {
	return &ArrayExpr{Elems: elems, span: span}
}

func (*ArrayExpr) exprNode() {}
