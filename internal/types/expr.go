package types

import (
	"fmt"
	"strconv"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
)

// TypeOf returns the type of expr. Results are memoized per node, so
// diagnostics for a node are reported only the first time it is resolved.
func (c *Checker) TypeOf(expr ast.Expr) *ast.Type {
	if expr == nil {
		return nil
	}
	if t, ok := c.typeInfo[expr]; ok {
		return t
	}
	t := c.resolveExpr(expr)
	if t == nil {
		t = ast.NewType(ast.TypeUnknown, expr.Span())
	}
	c.typeInfo[expr] = t
	return t
}

func (c *Checker) resolveExpr(expr ast.Expr) *ast.Type {
	switch e := expr.(type) {
	case *ast.Literal:
		return c.literalType(e, e.Value)
	case *ast.TypeValue:
		if e.Type.IsArrayLike() {
			c.reportError(diag.CodeTypeArrayCast, e.Span(), "cannot cast to array-like type")
		}
		return e.Type
	case *ast.Ident:
		sym := c.scope.Lookup(e.Name)
		if sym == nil {
			c.reportError(diag.CodeTypeUndefinedIdentifier, e.Span(), "unknown identifier `%s`", e.Name)
			return nil
		}
		return sym.Type
	case *ast.BinaryExpr:
		return c.checkOperands(e.Left, e.Right, e)
	case *ast.AssignExpr:
		return c.checkOperands(e.Target, e.Value, e)
	case *ast.UnaryExpr:
		return c.unaryType(e)
	case *ast.MemberExpr:
		// There are no aggregate types yet, so a member has no known type.
		c.TypeOf(e.Target)
		return nil
	case *ast.CastExpr:
		c.TypeOf(e.Value)
		if e.Type.IsArrayLike() {
			c.reportError(diag.CodeTypeArrayCast, e.Span(), "cannot cast to array-like type")
		}
		return e.Type
	case *ast.CallExpr:
		return c.callType(e)
	case *ast.IndexExpr:
		return c.indexType(e)
	case *ast.TupleExpr:
		elems := make([]*ast.Type, len(e.Elems))
		for i, elem := range e.Elems {
			elems[i] = c.TypeOf(elem)
		}
		return ast.NewTupleType(elems, e.Span())
	case *ast.ArrayExpr:
		return c.arrayType(e)
	}
	panic(fmt.Sprintf("types: unexpected expression %T", expr))
}

var integerWidths = []struct {
	kind     ast.TypeKind
	bits     int
	unsigned bool
}{
	{ast.TypeU8, 8, true},
	{ast.TypeU16, 16, true},
	{ast.TypeU32, 32, true},
	{ast.TypeU64, 64, true},
	{ast.TypeI8, 8, false},
	{ast.TypeI16, 16, false},
	{ast.TypeI32, 32, false},
	{ast.TypeI64, 64, false},
}

var literalBases = map[ast.LiteralKind]int{
	ast.DecimalLit: 10,
	ast.HexLit:     16,
	ast.OctalLit:   8,
	ast.BinaryLit:  2,
}

// literalType resolves a literal. Numeric literals take the first integer
// type their text fits, unsigned widths first; decimals that fit no integer
// type fall back to f32 then f64.
func (c *Checker) literalType(lit *ast.Literal, text string) *ast.Type {
	span := lit.Span()
	switch lit.Kind {
	case ast.BoolLit:
		return ast.NewType(ast.TypeBool, span)
	case ast.CharLit:
		return ast.NewType(ast.TypeChar, span)
	case ast.StrLit:
		return ast.NewType(ast.TypeStr, span)
	}

	if kind, ok := integerKind(text, literalBases[lit.Kind]); ok {
		return ast.NewType(kind, span)
	}
	if lit.Kind == ast.DecimalLit {
		if _, err := strconv.ParseFloat(text, 32); err == nil {
			return ast.NewType(ast.TypeF32, span)
		}
		if _, err := strconv.ParseFloat(text, 64); err == nil {
			return ast.NewType(ast.TypeF64, span)
		}
	}

	c.reportError(diag.CodeTypeCannotInfer, span, "cannot infer type of literal `%s`", text)
	return nil
}

func integerKind(text string, base int) (ast.TypeKind, bool) {
	for _, w := range integerWidths {
		var err error
		if w.unsigned {
			_, err = strconv.ParseUint(text, base, w.bits)
		} else {
			_, err = strconv.ParseInt(text, base, w.bits)
		}
		if err == nil {
			return w.kind, true
		}
	}
	return ast.TypeUnknown, false
}

// checkOperands resolves both sides of a binary or assignment expression.
// The result has the left type; a different right type is an error unless
// either side already failed to resolve.
func (c *Checker) checkOperands(left, right ast.Expr, whole ast.Expr) *ast.Type {
	lt := c.TypeOf(left)
	rt := c.TypeOf(right)

	if !lt.IsUnknown() && !rt.IsUnknown() && !ast.SameType(lt, rt) {
		c.AddError(diag.Errorf(diag.StageTypeCheck, diag.CodeTypeMismatch, whole.Span().ToDiag(), "cannot cast, do it manually").
			WithNote(fmt.Sprintf("left side is `%s`, right side is `%s`", lt, rt)))
	}
	return lt
}
