package ast_test

import (
	"testing"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/lexer"
)

func span(start, end int) lexer.Span {
	return lexer.Span{Line: 1, Column: start + 1, Start: start, End: end}
}

func TestSameTypeIgnoresSpans(t *testing.T) {
	a := ast.NewArrayType(ast.NewType(ast.TypeU8, span(1, 3)), 2, span(0, 7))
	b := ast.NewArrayType(ast.NewType(ast.TypeU8, span(11, 13)), 2, span(10, 17))

	if !ast.SameType(a, b) {
		t.Fatalf("expected %s and %s to be the same type", a, b)
	}
}

func TestSameTypeDistinguishesShape(t *testing.T) {
	u8 := ast.NewType(ast.TypeU8, span(0, 2))
	i8 := ast.NewType(ast.TypeI8, span(0, 2))

	cases := []struct {
		name string
		a, b *ast.Type
	}{
		{"kind", u8, i8},
		{"array length", ast.NewArrayType(u8, 2, span(0, 1)), ast.NewArrayType(u8, 3, span(0, 1))},
		{"array vs slice", ast.NewArrayType(u8, 2, span(0, 1)), ast.NewElemType(ast.TypeSlice, u8, span(0, 1))},
		{"pointer elem", ast.NewElemType(ast.TypePointer, u8, span(0, 1)), ast.NewElemType(ast.TypePointer, i8, span(0, 1))},
		{"custom name", ast.NewCustomType("Foo", span(0, 1)), ast.NewCustomType("Bar", span(0, 1))},
		{"tuple arity", ast.NewTupleType([]*ast.Type{u8}, span(0, 1)), ast.NewTupleType([]*ast.Type{u8, u8}, span(0, 1))},
		{"generic args", ast.NewGenericType("Vec", []*ast.Type{u8}, span(0, 1)), ast.NewGenericType("Vec", []*ast.Type{i8}, span(0, 1))},
	}

	for _, tc := range cases {
		if ast.SameType(tc.a, tc.b) {
			t.Errorf("%s: expected %s and %s to differ", tc.name, tc.a, tc.b)
		}
	}
}

func TestTypeString(t *testing.T) {
	u8 := ast.NewType(ast.TypeU8, span(0, 1))
	cases := []struct {
		typ  *ast.Type
		want string
	}{
		{u8, "u8"},
		{ast.NewArrayType(u8, 4, span(0, 1)), "[u8; 4]"},
		{ast.NewElemType(ast.TypeSlice, u8, span(0, 1)), "[u8]"},
		{ast.NewElemType(ast.TypeMutableRef, u8, span(0, 1)), "&mut u8"},
		{ast.NewElemType(ast.TypePointer, ast.NewType(ast.TypeChar, span(0, 1)), span(0, 1)), "*char"},
		{ast.NewTupleType([]*ast.Type{u8, ast.NewType(ast.TypeBool, span(0, 1))}, span(0, 1)), "(u8, bool)"},
		{ast.NewGenericType("Vec", []*ast.Type{u8}, span(0, 1)), "Vec<u8>"},
		{ast.NewType(ast.TypeUnknown, span(0, 1)), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestArrayLikeTypes(t *testing.T) {
	u8 := ast.NewType(ast.TypeU8, span(0, 1))
	if !ast.NewType(ast.TypeStr, span(0, 1)).IsArrayLike() {
		t.Fatalf("expected str to be array-like")
	}
	if !ast.NewElemType(ast.TypeSlice, u8, span(0, 1)).IsArrayLike() {
		t.Fatalf("expected slice to be array-like")
	}
	if ast.NewElemType(ast.TypePointer, u8, span(0, 1)).IsArrayLike() {
		t.Fatalf("expected pointer not to be array-like")
	}
}

func TestOperatorTable(t *testing.T) {
	if ast.OpMul.Precedence() <= ast.OpAdd.Precedence() {
		t.Fatalf("expected * to bind tighter than +")
	}
	if ast.OpAnd.Precedence() <= ast.OpOr.Precedence() {
		t.Fatalf("expected && to bind tighter than ||")
	}
	if ast.OpShl.String() != "<<" || ast.OpShrAssign.String() != ">>=" {
		t.Fatalf("unexpected operator spelling")
	}
	if !ast.OpFactorial.Postfix() || ast.OpNot.Postfix() {
		t.Fatalf("factorial is postfix, logical not is prefix")
	}
}

func TestWalkVisitsNestedExpressions(t *testing.T) {
	one := ast.NewLiteral(ast.DecimalLit, "1", span(8, 9))
	x := ast.NewIdent("x", span(12, 13))
	sum := ast.NewBinaryExpr(ast.OpAdd, one, x, span(8, 13))
	let := ast.NewLetStmt(ast.NewIdent("a", span(4, 5)), nil, sum, span(0, 14))
	prog := ast.NewProgram(span(0, 14))
	prog.Stmts = append(prog.Stmts, let)

	var idents []string
	count := 0
	ast.Walk(prog, func(n ast.Node) bool {
		count++
		if id, ok := n.(*ast.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})

	if count != 6 {
		t.Fatalf("expected 6 nodes, got %d", count)
	}
	if len(idents) != 2 || idents[0] != "a" || idents[1] != "x" {
		t.Fatalf("unexpected identifiers %v", idents)
	}
}
