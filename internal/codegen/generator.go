// Package codegen emits C++ source from a parsed comfy program.
package codegen

import (
	"fmt"
	"strings"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/lexer"
	"github.com/comfy-lang/comfy/internal/types"
)

// Header is the fixed prelude of every generated translation unit.
const Header = "#include <iostream>\n#include <stdint.h>\n\n"

// unknownSpelling stands in for anything that cannot be emitted.
const unknownSpelling = "{unknown}"

// Generator converts a program to C++ in a single pass, resolving each
// statement with its checker right before emitting it.
type Generator struct {
	checker *types.Checker
}

// NewGenerator creates a generator. A nil checker gets a fresh one.
func NewGenerator(checker *types.Checker) *Generator {
	if checker == nil {
		checker = types.NewChecker()
	}
	return &Generator{checker: checker}
}

// Checker returns the checker the generator resolves with.
func (g *Generator) Checker() *types.Checker {
	return g.checker
}

// Generate emits the whole translation unit. Generation always completes;
// the returned diagnostics decide whether the text is usable.
func (g *Generator) Generate(prog *ast.Program) (string, diag.List) {
	parts := make([]string, 0, len(prog.Stmts))
	for _, stmt := range prog.Stmts {
		parts = append(parts, g.genStmt(stmt))
	}
	return Header + strings.Join(parts, "\n"), g.checker.Diagnostics()
}

// reportUnsupported records a construct that parses and type checks but has
// no C++ rendering yet.
func (g *Generator) reportUnsupported(code diag.Code, span lexer.Span, message, help string) {
	g.checker.AddError(diag.Errorf(diag.StageCodegen, code, span.ToDiag(), "%s", message).WithHelp(help))
}

func (g *Generator) genStmt(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		g.checker.TypeOf(s.Expr)
		return g.genRootExpr(s.Expr) + ";"

	case *ast.LetStmt:
		typ := g.checker.DeclareLet(s)
		init := ""
		if s.Value != nil {
			init = g.genExpr(s.Value)
		}
		return g.typedName(s.Name.Name, typ, init) + ";"

	case *ast.FnDecl:
		return g.genFunction(s)

	case *ast.IfStmt:
		return g.genIf(s)

	case *ast.ReturnStmt:
		if s.Value == nil {
			return "return;"
		}
		g.checker.TypeOf(s.Value)
		return "return " + g.genExpr(s.Value) + ";"

	case *ast.Block:
		var body string
		g.checker.WithScope(func() { body = g.genBlock(s) })
		return "{\n" + indent(body) + "\n}"
	}

	panic(fmt.Sprintf("codegen: unexpected statement %T", stmt))
}

func (g *Generator) genBlock(block *ast.Block) string {
	if block == nil {
		return ""
	}
	lines := make([]string, 0, len(block.Stmts))
	for _, stmt := range block.Stmts {
		lines = append(lines, g.genStmt(stmt))
	}
	return strings.Join(lines, "\n")
}

// genFunction emits `ret name(args) {\n<body>\n}\n`. The body is generated
// first because an omitted return type is inferred from it.
func (g *Generator) genFunction(fn *ast.FnDecl) string {
	var body string
	ret := g.checker.CheckFunction(fn, func() {
		body = g.genBlock(fn.Body)
	})
	if ret == nil {
		return ""
	}

	args := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		init := ""
		if arg.Default != nil {
			init = g.genExpr(arg.Default)
		}
		args[i] = g.typedName(arg.Name.Name, g.checker.ArgType(arg), init)
	}

	retType, _ := g.spell(ret)
	return fmt.Sprintf("%s %s(%s) {\n%s\n}\n", retType, fn.Name.Name, strings.Join(args, ", "), indent(body))
}

func (g *Generator) genIf(s *ast.IfStmt) string {
	g.checker.TypeOf(s.Cond)
	cond := g.genRootExpr(s.Cond)

	var then string
	g.checker.WithScope(func() { then = g.genBlock(s.Then) })

	var sb strings.Builder
	sb.WriteString("if (" + cond + ") {\n" + indent(then) + "\n}")

	switch els := s.Else.(type) {
	case *ast.Block:
		var body string
		g.checker.WithScope(func() { body = g.genBlock(els) })
		sb.WriteString(" else {\n" + indent(body) + "\n}")
	case *ast.IfStmt:
		sb.WriteString(" else " + g.genIf(els))
	}
	return sb.String()
}

// indent prefixes every non-empty line with four spaces.
func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}
