package codegen

import (
	"strconv"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
)

var primitiveSpellings = map[ast.TypeKind]string{
	ast.TypeBool:    "bool",
	ast.TypeI8:      "int8_t",
	ast.TypeI16:     "int16_t",
	ast.TypeI32:     "int32_t",
	ast.TypeI64:     "int64_t",
	ast.TypeU8:      "uint8_t",
	ast.TypeU16:     "uint16_t",
	ast.TypeU32:     "uint32_t",
	ast.TypeU64:     "uint64_t",
	ast.TypeInt:     "int",
	ast.TypeUint:    "unsigned int",
	ast.TypeF32:     "float",
	ast.TypeF64:     "double",
	ast.TypeF128:    "long double",
	ast.TypeChar:    "char",
	ast.TypeVoid:    "void",
	ast.TypeNever:   "void",
	ast.TypeUnknown: "void",
}

// spell returns the C++ spelling of t split around the declared name:
// `uint8_t xs[4]` is ("uint8_t", "[4]"). A non-empty suffix marks an
// array-like type.
func (g *Generator) spell(t *ast.Type) (base, suffix string) {
	if t == nil {
		return "void", ""
	}
	if s, ok := primitiveSpellings[t.Kind]; ok {
		return s, ""
	}

	switch t.Kind {
	case ast.TypeStr:
		return "char", "[]"
	case ast.TypeArray:
		base, suffix = g.spell(t.Elem)
		return base, "[" + strconv.Itoa(t.Len) + "]" + suffix
	case ast.TypeSlice:
		base, suffix = g.spell(t.Elem)
		return base, "[]" + suffix
	case ast.TypePointer:
		base, _ = g.spell(t.Elem)
		return base + "*", ""
	case ast.TypeMutableRef, ast.TypeReference:
		base, _ = g.spell(t.Elem)
		return base + "&", ""
	case ast.TypeCustom:
		return t.Name, ""
	case ast.TypeTuple:
		g.reportUnsupported(diag.CodeGenUnsupportedType, t.Span(), "tuple types are not supported yet", "declare one variable per element")
	case ast.TypeGeneric:
		g.reportUnsupported(diag.CodeGenUnsupportedType, t.Span(), "generic types are not supported yet", "use a concrete type")
	}
	return unknownSpelling, ""
}

// typedName declares name with type t, as in `uint8_t xs[2] = {1, 2}`.
// The initializer is omitted when init is empty.
func (g *Generator) typedName(name string, t *ast.Type, init string) string {
	base, suffix := g.spell(t)
	out := base + " " + name + suffix
	if init != "" {
		out += " = " + init
	}
	return out
}
