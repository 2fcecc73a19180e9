package types

import (
	"fmt"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/lexer"
)

// Checker resolves identifiers and computes expression types.
//
// It is driven one statement at a time, either by Check or by a code
// generator that interleaves resolution with emission. Scopes are pushed for
// function bodies and if/else blocks and popped on every exit path.
type Checker struct {
	GlobalScope *Scope
	Errors      []diag.Diagnostic

	scope    *Scope
	typeInfo map[ast.Expr]*ast.Type
	argTypes map[*ast.Argument]*ast.Type
	fnDepth  int
}

// NewChecker creates a checker whose global scope holds the C library
// functions programs may call without declaring them.
func NewChecker() *Checker {
	global := NewScope(nil)
	c := &Checker{
		GlobalScope: global,
		scope:       global,
		typeInfo:    make(map[ast.Expr]*ast.Type),
		argTypes:    make(map[*ast.Argument]*ast.Type),
	}
	c.declareBuiltins()
	return c
}

func (c *Checker) declareBuiltins() {
	arg := func(name string, kind ast.TypeKind) *ast.Argument {
		return ast.NewArgument(ast.NewIdent(name, lexer.Span{}), ast.NewType(kind, lexer.Span{}), nil, lexer.Span{})
	}
	intType := ast.NewType(ast.TypeInt, lexer.Span{})

	c.GlobalScope.Insert("printf", &Symbol{
		Name:     "printf",
		Kind:     SymbolFunction,
		Type:     intType,
		Args:     []*ast.Argument{arg("format", ast.TypeStr)},
		Variadic: true,
	})
	c.GlobalScope.Insert("puts", &Symbol{
		Name: "puts",
		Kind: SymbolFunction,
		Type: intType,
		Args: []*ast.Argument{arg("s", ast.TypeStr)},
	})
	c.GlobalScope.Insert("putchar", &Symbol{
		Name: "putchar",
		Kind: SymbolFunction,
		Type: intType,
		Args: []*ast.Argument{arg("c", ast.TypeChar)},
	})
}

// Check resolves a whole program without generating code.
func (c *Checker) Check(prog *ast.Program) diag.List {
	for _, stmt := range prog.Stmts {
		c.checkStmt(stmt)
	}
	return c.Diagnostics()
}

// Diagnostics returns everything reported so far.
func (c *Checker) Diagnostics() diag.List {
	return diag.List(c.Errors)
}

// Lookup resolves name in the current scope chain.
func (c *Checker) Lookup(name string) *Symbol {
	return c.scope.Lookup(name)
}

// AddError records a diagnostic produced outside the checker, such as a
// code generation failure, so that one list holds the whole batch.
func (c *Checker) AddError(d diag.Diagnostic) {
	c.Errors = append(c.Errors, d)
}

func (c *Checker) reportError(code diag.Code, span lexer.Span, format string, args ...any) {
	c.Errors = append(c.Errors, diag.Errorf(diag.StageTypeCheck, code, span.ToDiag(), format, args...))
}

func (c *Checker) pushScope() {
	c.scope = NewScope(c.scope)
}

func (c *Checker) popScope() {
	c.scope = c.scope.Parent
}

// WithScope runs fn inside a fresh child scope.
func (c *Checker) WithScope(fn func()) {
	c.pushScope()
	defer c.popScope()
	fn()
}

// DeclareLet computes the type of a let binding and registers it in the
// current scope. The annotation wins over the initializer's type.
func (c *Checker) DeclareLet(let *ast.LetStmt) *ast.Type {
	var valueType *ast.Type
	if let.Value != nil {
		valueType = c.TypeOf(let.Value)
	}

	typ := let.Type
	if typ == nil {
		typ = valueType
	}
	if typ.IsUnknown() {
		c.reportError(diag.CodeTypeCannotInfer, let.Span(), "cannot infer type of expression")
		typ = ast.NewType(ast.TypeUnknown, let.Name.Span())
	}

	c.scope.Insert(let.Name.Name, &Symbol{
		Name: let.Name.Name,
		Kind: SymbolVariable,
		Type: typ,
	})
	return typ
}

// ArgType returns the type resolved for a function argument by
// CheckFunction.
func (c *Checker) ArgType(arg *ast.Argument) *ast.Type {
	if t, ok := c.argTypes[arg]; ok {
		return t
	}
	return ast.NewType(ast.TypeUnknown, arg.Span())
}

// CheckFunction registers fn in the current scope, then runs body inside a
// new scope holding the arguments. It returns the function's return type:
// the declared one, or the type of the body's final return value, or void.
// Nested declarations are reported and yield nil.
func (c *Checker) CheckFunction(fn *ast.FnDecl, body func()) *ast.Type {
	if c.fnDepth > 0 {
		c.reportError(diag.CodeTypeNestedFunction, fn.Name.Span(), "nested function declarations are not supported")
		return nil
	}

	for _, arg := range fn.Args {
		c.argTypes[arg] = c.resolveArgType(arg)
	}

	sym := &Symbol{
		Name: fn.Name.Name,
		Kind: SymbolFunction,
		Type: fn.ReturnType,
		Args: fn.Args,
	}
	if sym.Type == nil {
		sym.Type = ast.NewType(ast.TypeUnknown, fn.Name.Span())
	}
	// Registered before the body so the function can call itself.
	c.scope.Insert(fn.Name.Name, sym)

	c.fnDepth++
	defer func() { c.fnDepth-- }()
	c.pushScope()
	defer c.popScope()

	for _, arg := range fn.Args {
		c.scope.Insert(arg.Name.Name, &Symbol{
			Name: arg.Name.Name,
			Kind: SymbolVariable,
			Type: c.argTypes[arg],
		})
	}

	if body != nil {
		body()
	}

	ret := fn.ReturnType
	if ret == nil {
		ret = c.inferReturnType(fn)
	}
	sym.Type = ret

	if ret.IsArrayLike() {
		span := fn.Name.Span()
		if fn.ReturnType != nil {
			span = fn.ReturnType.Span()
		}
		c.reportError(diag.CodeTypeArrayReturn, span, "cannot return array-like types")
	}

	return ret
}

func (c *Checker) resolveArgType(arg *ast.Argument) *ast.Type {
	var defType *ast.Type
	if arg.Default != nil {
		defType = c.TypeOf(arg.Default)
	}
	if arg.Type != nil {
		return arg.Type
	}
	if !defType.IsUnknown() {
		return defType
	}
	c.reportError(diag.CodeTypeCannotInfer, arg.Span(), "cannot infer type of argument `%s`", arg.Name.Name)
	return ast.NewType(ast.TypeUnknown, arg.Span())
}

// inferReturnType types a function without a declared return type from the
// value its body ends with. A body that returns values some other way is
// reported; one that returns nothing is void.
func (c *Checker) inferReturnType(fn *ast.FnDecl) *ast.Type {
	if t := c.finalReturnType(fn.Body); t != nil {
		return t
	}

	var span lexer.Span
	if fn.Body != nil {
		span = fn.Body.Span()
	}
	if returnsValue(fn.Body) {
		c.reportError(diag.CodeTypeCannotInfer, fn.Name.Span(), "cannot infer return type of `%s`", fn.Name.Name)
		return ast.NewType(ast.TypeUnknown, span)
	}
	return ast.NewType(ast.TypeVoid, span)
}

// finalReturnType returns the type of the value block ends with, looking
// through a trailing if statement. It is nil when there is no such value.
func (c *Checker) finalReturnType(block *ast.Block) *ast.Type {
	if block == nil || len(block.Stmts) == 0 {
		return nil
	}
	switch last := block.Stmts[len(block.Stmts)-1].(type) {
	case *ast.ReturnStmt:
		if last.Value != nil {
			return c.TypeOf(last.Value)
		}
	case *ast.IfStmt:
		return c.branchReturnType(last)
	}
	return nil
}

func (c *Checker) branchReturnType(s *ast.IfStmt) *ast.Type {
	if t := c.finalReturnType(s.Then); t != nil {
		return t
	}
	switch els := s.Else.(type) {
	case *ast.Block:
		return c.finalReturnType(els)
	case *ast.IfStmt:
		return c.branchReturnType(els)
	}
	return nil
}

// returnsValue reports whether body returns a value anywhere outside nested
// function declarations.
func returnsValue(body *ast.Block) bool {
	if body == nil {
		return false
	}
	found := false
	ast.Walk(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FnDecl:
			return false
		case *ast.ReturnStmt:
			if n.Value != nil {
				found = true
			}
		}
		return !found
	})
	return found
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FnDecl:
		c.CheckFunction(s, func() {
			c.checkBlock(s.Body)
		})
	case *ast.LetStmt:
		c.DeclareLet(s)
	case *ast.IfStmt:
		c.TypeOf(s.Cond)
		c.WithScope(func() { c.checkBlock(s.Then) })
		switch els := s.Else.(type) {
		case *ast.Block:
			c.WithScope(func() { c.checkBlock(els) })
		case *ast.IfStmt:
			c.checkStmt(els)
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.TypeOf(s.Value)
		}
	case *ast.ExprStmt:
		c.TypeOf(s.Expr)
	case *ast.Block:
		c.WithScope(func() { c.checkBlock(s) })
	default:
		panic(fmt.Sprintf("types: unexpected statement %T", stmt))
	}
}

func (c *Checker) checkBlock(block *ast.Block) {
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt)
	}
}
