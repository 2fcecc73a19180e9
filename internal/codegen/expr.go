package codegen

import (
	"fmt"
	"strings"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
)

var literalPrefixes = map[ast.LiteralKind]string{
	ast.HexLit:    "0x",
	ast.OctalLit:  "0",
	ast.BinaryLit: "0b",
}

// genRootExpr emits an expression that is a whole statement or condition.
// Only there is an assignment left unparenthesised.
func (g *Generator) genRootExpr(expr ast.Expr) string {
	if assign, ok := expr.(*ast.AssignExpr); ok {
		return g.genExpr(assign.Target) + " " + assign.Op.String() + " " + g.genExpr(assign.Value)
	}
	return g.genExpr(expr)
}

// genExpr emits expr with every compound subexpression parenthesised, so
// C++ precedence never has to agree with ours.
func (g *Generator) genExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.CharLit:
			return "'" + e.Value + "'"
		case ast.StrLit:
			return `"` + e.Value + `"`
		}
		return literalPrefixes[e.Kind] + e.Value

	case *ast.TypeValue:
		base, suffix := g.spell(e.Type)
		return base + suffix

	case *ast.Ident:
		return e.Name

	case *ast.BinaryExpr:
		return "(" + g.genExpr(e.Left) + " " + e.Op.String() + " " + g.genExpr(e.Right) + ")"

	case *ast.UnaryExpr:
		return g.genUnary(e)

	case *ast.MemberExpr:
		return g.genExpr(e.Target) + "." + g.genExpr(e.Member)

	case *ast.CastExpr:
		base, suffix := g.spell(e.Type)
		return "((" + base + suffix + ") " + g.genExpr(e.Value) + ")"

	case *ast.AssignExpr:
		return "(" + g.genRootExpr(e) + ")"

	case *ast.CallExpr:
		return g.genExpr(e.Callee) + "(" + g.genList(e.Args) + ")"

	case *ast.IndexExpr:
		return g.genExpr(e.Target) + "[" + g.genExpr(e.Index) + "]"

	case *ast.ArrayExpr:
		return "{" + g.genList(e.Elems) + "}"

	case *ast.TupleExpr:
		g.reportUnsupported(diag.CodeGenUnsupportedExpr, e.Span(), "tuple literals are not supported yet", "declare one variable per element")
		return unknownSpelling
	}

	panic(fmt.Sprintf("codegen: unexpected expression %T", expr))
}

func (g *Generator) genUnary(e *ast.UnaryExpr) string {
	switch e.Op {
	case ast.OpFactorial:
		g.reportUnsupported(diag.CodeGenUnsupportedExpr, e.Span(), "the factorial operator is not supported yet", "compute the factorial with a recursive function")
		return unknownSpelling
	case ast.OpSizeOf, ast.OpAlignOf:
		return e.Op.String() + "(" + g.genExpr(e.Operand) + ")"
	}

	operand := g.genExpr(e.Operand)
	if e.Op.Postfix() {
		return "(" + operand + e.Op.String() + ")"
	}
	return "(" + e.Op.String() + operand + ")"
}

func (g *Generator) genList(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		parts[i] = g.genExpr(expr)
	}
	return strings.Join(parts, ", ")
}
