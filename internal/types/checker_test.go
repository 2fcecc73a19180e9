package types_test

import (
	"strings"
	"testing"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/parser"
	"github.com/comfy-lang/comfy/internal/types"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()

	p := parser.New(src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse error: %s", errs[0].Message)
	}
	return prog
}

func checkSource(t *testing.T, src string) (*types.Checker, diag.List) {
	t.Helper()

	c := types.NewChecker()
	return c, c.Check(parseSource(t, src))
}

func assertNoDiagnostics(t *testing.T, diags diag.List) {
	t.Helper()

	if len(diags) == 0 {
		return
	}
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s", d.Message)
	}
	t.Fatalf("checker reported %d diagnostic(s)", len(diags))
}

func assertDiagnostic(t *testing.T, diags diag.List, code diag.Code, message string) {
	t.Helper()

	for _, d := range diags {
		if d.Code == code && strings.Contains(d.Message, message) {
			return
		}
	}
	for _, d := range diags {
		t.Logf("got %s: %s", d.Code, d.Message)
	}
	t.Fatalf("expected %s diagnostic containing %q", code, message)
}

func symbolType(t *testing.T, c *types.Checker, name string) *ast.Type {
	t.Helper()

	sym := c.Lookup(name)
	if sym == nil {
		t.Fatalf("expected symbol %q to be declared", name)
	}
	return sym.Type
}

func TestLiteralWidths(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"200", "u8"},
		{"255", "u8"},
		{"300", "u16"},
		{"70000", "u32"},
		{"5000000000", "u64"},
		{"-5", "i8"},
		{"-129", "i16"},
		{"-40000", "i32"},
		{"0xff", "u8"},
		{"0x1ff", "u16"},
		{"0o777", "u16"},
		{"0b101", "u8"},
		{"1.5", "f32"},
		{"true", "bool"},
		{"'c'", "char"},
		{`"hi"`, "str"},
	}

	for _, tc := range cases {
		c, diags := checkSource(t, "let v = "+tc.src+";")
		assertNoDiagnostics(t, diags)

		if got := symbolType(t, c, "v").String(); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.src, tc.want, got)
		}
	}
}

func TestArgumentsAreScopedToTheirFunction(t *testing.T) {
	_, diags := checkSource(t, "fn f(a: u8) { a; }\na;")

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeUndefinedIdentifier, "unknown identifier `a`")
	if diags[0].Span.Line != 2 {
		t.Fatalf("expected the error on line 2, got %d", diags[0].Span.Line)
	}
}

func TestIfBlocksHaveTheirOwnScope(t *testing.T) {
	_, diags := checkSource(t, "fn f() { if true { let x = 1; } else { x; } x; }")

	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeUndefinedIdentifier, "unknown identifier `x`")
}

func TestArrayHomogeneity(t *testing.T) {
	c, diags := checkSource(t, "let xs = [1, 300];")

	if len(diags) < 2 {
		t.Fatalf("expected at least 2 diagnostics, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeMismatch, "expected `u8`, found `u16`")
	assertDiagnostic(t, diags, diag.CodeTypeNotHomogeneous, "array is not homogeneous")

	typ := symbolType(t, c, "xs")
	want := ast.NewArrayType(ast.NewType(ast.TypeU8, typ.Span()), 2, typ.Span())
	if !ast.SameType(typ, want) {
		t.Fatalf("expected %s, got %s", want, typ)
	}
}

func TestEmptyArray(t *testing.T) {
	c, diags := checkSource(t, "let xs = [];")

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeCannotInfer, "cannot infer element type of empty array")
	if got := symbolType(t, c, "xs").String(); got != "[unknown; 0]" {
		t.Fatalf("expected [unknown; 0], got %s", got)
	}
}

func TestTypeOfIsIdempotent(t *testing.T) {
	prog := parseSource(t, "missing + 1;")
	expr := prog.Stmts[0].(*ast.ExprStmt).Expr

	c := types.NewChecker()
	first := c.TypeOf(expr)
	errs := len(c.Errors)
	second := c.TypeOf(expr)

	if first != second {
		t.Fatalf("expected memoized type, got %p and %p", first, second)
	}
	if errs != 1 || len(c.Errors) != 1 {
		t.Fatalf("expected exactly 1 diagnostic after two resolutions, got %d then %d", errs, len(c.Errors))
	}
}

func TestBinaryOperandsMustMatch(t *testing.T) {
	_, diags := checkSource(t, `
let a: u8 = 1;
let b: i32 = 2;
let ok = a + 1;
a + b;
`)

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeMismatch, "cannot cast, do it manually")
	if len(diags[0].Notes) == 0 || !strings.Contains(diags[0].Notes[0], "`u8`") {
		t.Fatalf("expected a note naming both types, got %v", diags[0].Notes)
	}
}

func TestUnknownOperandSuppressesMismatch(t *testing.T) {
	_, diags := checkSource(t, "let a: u8 = 1;\na + nope;")

	if len(diags) != 1 {
		t.Fatalf("expected only the unknown identifier, got %d diagnostics", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeUndefinedIdentifier, "`nope`")
}

func TestInferredReturnType(t *testing.T) {
	c, diags := checkSource(t, `
fn two() { let x = 1; x + 1 }
fn nothing() { two(); }
let y = two();
`)
	assertNoDiagnostics(t, diags)

	if got := symbolType(t, c, "two").Kind; got != ast.TypeU8 {
		t.Fatalf("expected two to return u8, got %s", symbolType(t, c, "two"))
	}
	if got := symbolType(t, c, "nothing").Kind; got != ast.TypeVoid {
		t.Fatalf("expected nothing to return void, got %s", symbolType(t, c, "nothing"))
	}
	if got := symbolType(t, c, "y").Kind; got != ast.TypeU8 {
		t.Fatalf("expected y to be u8, got %s", symbolType(t, c, "y"))
	}
}

func TestReturnTypeFromTrailingIf(t *testing.T) {
	c, diags := checkSource(t, `
fn pick(x: i8) { if x == x { 1 } else if x != x { 2 } else { 3 } }
fn early(x: i8) { if x == x { return 1; } x; }
`)

	if len(diags) != 1 {
		for _, d := range diags {
			t.Logf("got: %s", d.Message)
		}
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeCannotInfer, "cannot infer return type of `early`")

	if got := symbolType(t, c, "pick").Kind; got != ast.TypeU8 {
		t.Fatalf("expected pick to return u8, got %s", symbolType(t, c, "pick"))
	}
}

func TestArgumentTypeFromDefault(t *testing.T) {
	prog := parseSource(t, "fn f(a = 300) { a }")
	fn := prog.Stmts[0].(*ast.FnDecl)

	c := types.NewChecker()
	assertNoDiagnostics(t, c.Check(prog))

	if got := c.ArgType(fn.Args[0]).Kind; got != ast.TypeU16 {
		t.Fatalf("expected u16 argument, got %s", c.ArgType(fn.Args[0]))
	}
}

func TestRecursiveCall(t *testing.T) {
	_, diags := checkSource(t, "fn fact(n: u64) -> u64 { fact(n) }")
	assertNoDiagnostics(t, diags)
}

func TestCallArity(t *testing.T) {
	_, diags := checkSource(t, `
fn g(a: u8, b: u8 = 1) -> u8 { a }
fn h(a: u8) -> u8 { a }
g();
g(1);
g(1, 2);
g(1, 2, 3);
h(1, 2);
printf();
printf("%d %d", 1, 2);
`)

	if len(diags) != 4 {
		for _, d := range diags {
			t.Logf("got: %s", d.Message)
		}
		t.Fatalf("expected 4 diagnostics, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeArgumentCount, "expected 1 to 2 arguments, found 0")
	assertDiagnostic(t, diags, diag.CodeTypeArgumentCount, "expected 1 to 2 arguments, found 3")
	assertDiagnostic(t, diags, diag.CodeTypeArgumentCount, "expected 1 arguments, found 2")
	assertDiagnostic(t, diags, diag.CodeTypeArgumentCount, "expected at least 1 arguments, found 0")
}

func TestCallNonFunction(t *testing.T) {
	_, diags := checkSource(t, "let v = 1;\nv();")
	assertDiagnostic(t, diags, diag.CodeTypeNotCallable, "`v` is not a function")
}

func TestCallOnUnknownCalleeIsReportedOnce(t *testing.T) {
	_, diags := checkSource(t, "nope(1)(2);")

	if len(diags) != 1 {
		t.Fatalf("expected only the unknown identifier, got %d diagnostics", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeUndefinedIdentifier, "`nope`")
}

func TestCallOnNonIdentifier(t *testing.T) {
	_, diags := checkSource(t, "let xs = [1, 2];\nxs[0](1);")
	assertDiagnostic(t, diags, diag.CodeTypeNotCallable, "expression is not a function")
}

func TestPointerOperators(t *testing.T) {
	c, diags := checkSource(t, `
let v = 1;
let p = &v;
let w = *p;
*v;
`)

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeInvalidOperation, "cannot dereference non-pointer type")
	if got := symbolType(t, c, "p").String(); got != "*u8" {
		t.Fatalf("expected *u8, got %s", got)
	}
	if got := symbolType(t, c, "w").Kind; got != ast.TypeU8 {
		t.Fatalf("expected u8, got %s", symbolType(t, c, "w"))
	}
}

func TestIndexing(t *testing.T) {
	c, diags := checkSource(t, `
let s = "hi";
let ch = s[0];
let xs: [i32; 3] = [1, 2, 3];
let x = xs[1];
let n = 1;
n[0];
`)

	assertDiagnostic(t, diags, diag.CodeTypeNotIndexable, "cannot get member of non-array type")
	if got := symbolType(t, c, "ch").Kind; got != ast.TypeChar {
		t.Fatalf("expected char, got %s", symbolType(t, c, "ch"))
	}
	if got := symbolType(t, c, "x").Kind; got != ast.TypeI32 {
		t.Fatalf("expected i32, got %s", symbolType(t, c, "x"))
	}
}

func TestOperatorResultTypes(t *testing.T) {
	c, diags := checkSource(t, `
let n: i64 = 1;
let size = sizeof(n);
let not = !n;
let cast = n as u8;
`)
	assertNoDiagnostics(t, diags)

	cases := map[string]ast.TypeKind{
		"size": ast.TypeU64,
		"not":  ast.TypeBool,
		"cast": ast.TypeU8,
	}
	for name, want := range cases {
		if got := symbolType(t, c, name).Kind; got != want {
			t.Errorf("%s: expected %s, got %s", name, ast.NewType(want, symbolType(t, c, name).Span()), symbolType(t, c, name))
		}
	}
}

func TestArrayLikeRestrictions(t *testing.T) {
	_, diags := checkSource(t, `
fn arr() -> [u8; 2] { [1, 2] }
fn text() { "hi" }
let x = 1 as [u8; 2];
`)

	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeArrayReturn, "cannot return array-like types")
	assertDiagnostic(t, diags, diag.CodeTypeArrayCast, "cannot cast to array-like type")
}

func TestArrayLikeTypeAsValue(t *testing.T) {
	_, diags := checkSource(t, "let n = sizeof str;\nlet m = sizeof i32;")

	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	assertDiagnostic(t, diags, diag.CodeTypeArrayCast, "cannot cast to array-like type")
}

func TestNestedFunctionsAreRejected(t *testing.T) {
	_, diags := checkSource(t, "fn outer() { fn inner() {} }")
	assertDiagnostic(t, diags, diag.CodeTypeNestedFunction, "nested function declarations are not supported")
}

func TestLetWithoutTypeOrValue(t *testing.T) {
	_, diags := checkSource(t, "let q;")
	assertDiagnostic(t, diags, diag.CodeTypeCannotInfer, "cannot infer type of expression")
}

func TestDiagnosticsCarryStage(t *testing.T) {
	_, diags := checkSource(t, "nope;")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Stage != diag.StageTypeCheck || diags[0].Kind != diag.KindCompile {
		t.Fatalf("unexpected stage/kind %s/%s", diags[0].Stage, diags[0].Kind)
	}
	if diags[0].Span.Start != 0 || diags[0].Span.End != 4 {
		t.Fatalf("expected span [0, 4), got [%d, %d)", diags[0].Span.Start, diags[0].Span.End)
	}
}
