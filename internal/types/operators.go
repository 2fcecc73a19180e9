package types

import (
	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
)

func (c *Checker) unaryType(e *ast.UnaryExpr) *ast.Type {
	// -5 is typed as a whole so that it picks a signed width.
	if lit, ok := e.Operand.(*ast.Literal); ok && e.Op == ast.OpNeg && lit.Kind == ast.DecimalLit {
		t := c.literalType(lit, "-"+lit.Value)
		if t != nil {
			t.SetSpan(e.Span())
		}
		return t
	}

	operand := c.TypeOf(e.Operand)

	switch e.Op {
	case ast.OpNot:
		return ast.NewType(ast.TypeBool, e.Span())
	case ast.OpSizeOf, ast.OpAlignOf:
		return ast.NewType(ast.TypeU64, e.Span())
	case ast.OpAddressOf:
		return ast.NewElemType(ast.TypePointer, operand, e.Span())
	case ast.OpDeref:
		switch operand.Kind {
		case ast.TypePointer, ast.TypeReference, ast.TypeMutableRef:
			return operand.Elem
		case ast.TypeUnknown:
			return nil
		}
		c.reportError(diag.CodeTypeInvalidOperation, e.Span(), "cannot dereference non-pointer type `%s`", operand)
		return nil
	}
	return operand
}

func (c *Checker) callType(e *ast.CallExpr) *ast.Type {
	for _, arg := range e.Args {
		c.TypeOf(arg)
	}

	ident, ok := e.Callee.(*ast.Ident)
	if !ok {
		if c.TypeOf(e.Callee).IsUnknown() {
			return nil
		}
		c.reportError(diag.CodeTypeNotCallable, e.Callee.Span(), "expression is not a function")
		return nil
	}

	sym := c.scope.Lookup(ident.Name)
	if sym == nil {
		c.reportError(diag.CodeTypeUndefinedIdentifier, ident.Span(), "unknown identifier `%s`", ident.Name)
		return nil
	}
	if sym.Kind != SymbolFunction {
		c.reportError(diag.CodeTypeNotCallable, ident.Span(), "`%s` is not a function", ident.Name)
		return nil
	}

	required, total := sym.Arity()
	got := len(e.Args)
	switch {
	case total < 0 && got < required:
		c.reportError(diag.CodeTypeArgumentCount, e.Span(), "expected at least %d arguments, found %d", required, got)
	case total >= 0 && (got < required || got > total):
		if required == total {
			c.reportError(diag.CodeTypeArgumentCount, e.Span(), "expected %d arguments, found %d", total, got)
		} else {
			c.reportError(diag.CodeTypeArgumentCount, e.Span(), "expected %d to %d arguments, found %d", required, total, got)
		}
	}

	return sym.Type
}

func (c *Checker) indexType(e *ast.IndexExpr) *ast.Type {
	target := c.TypeOf(e.Target)
	c.TypeOf(e.Index)

	switch target.Kind {
	case ast.TypeArray, ast.TypeSlice:
		return target.Elem
	case ast.TypeStr:
		return ast.NewType(ast.TypeChar, e.Span())
	case ast.TypeUnknown:
		return nil
	}
	c.reportError(diag.CodeTypeNotIndexable, e.Span(), "cannot get member of non-array type `%s`", target)
	return nil
}

// arrayType types an array literal from its first element. Every element of
// a different type is reported, followed by one error for the literal.
func (c *Checker) arrayType(e *ast.ArrayExpr) *ast.Type {
	if len(e.Elems) == 0 {
		c.reportError(diag.CodeTypeCannotInfer, e.Span(), "cannot infer element type of empty array")
		return ast.NewArrayType(ast.NewType(ast.TypeUnknown, e.Span()), 0, e.Span())
	}

	first := c.TypeOf(e.Elems[0])
	mismatch := false
	for _, elem := range e.Elems[1:] {
		t := c.TypeOf(elem)
		if first.IsUnknown() || t.IsUnknown() || ast.SameType(first, t) {
			continue
		}
		c.reportError(diag.CodeTypeMismatch, elem.Span(), "expected `%s`, found `%s`", first, t)
		mismatch = true
	}
	if mismatch {
		c.reportError(diag.CodeTypeNotHomogeneous, e.Span(), "array is not homogeneous")
	}

	return ast.NewArrayType(first, len(e.Elems), e.Span())
}
