package ast

import (
	"strconv"
	"strings"

	"github.com/comfy-lang/comfy/internal/lexer"
)

// TypeKind enumerates the type variants of the language.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeBool
	TypeI8
	TypeI16
	TypeI32
	TypeI64
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeInt
	TypeUint
	TypeF32
	TypeF64
	TypeF128
	TypeChar
	TypeStr
	TypeVoid
	TypeNever
	TypeTuple      // Args
	TypeArray      // Elem, Len
	TypeSlice      // Elem
	TypeCustom     // Name
	TypePointer    // Elem
	TypeMutableRef // Elem
	TypeReference  // Elem
	TypeGeneric    // Name, Args
)

var simpleTypeNames = map[string]TypeKind{
	"bool":  TypeBool,
	"i8":    TypeI8,
	"i16":   TypeI16,
	"i32":   TypeI32,
	"i64":   TypeI64,
	"u8":    TypeU8,
	"u16":   TypeU16,
	"u32":   TypeU32,
	"u64":   TypeU64,
	"int":   TypeInt,
	"uint":  TypeUint,
	"f32":   TypeF32,
	"f64":   TypeF64,
	"f128":  TypeF128,
	"char":  TypeChar,
	"str":   TypeStr,
	"void":  TypeVoid,
	"never": TypeNever,
}

// LookupSimpleType maps a primitive type name such as "i8" to its kind.
func LookupSimpleType(name string) (TypeKind, bool) {
	kind, ok := simpleTypeNames[name]
	return kind, ok
}

// Type is a type annotation or a resolved type. Which fields are meaningful
// depends on Kind (see the TypeKind constants).
type Type struct {
	Kind TypeKind
	Elem *Type
	Args []*Type
	Len  int
	Name string
	span lexer.Span
}

// Span returns the type span.
func (t *Type) Span() lexer.Span { return t.span }

// SetSpan updates the type span.
func (t *Type) SetSpan(span lexer.Span) {
	t.span = span
}

// NewType constructs a type without components.
func NewType(kind TypeKind, span lexer.Span) *Type {
	return &Type{Kind: kind, span: span}
}

// NewElemType constructs an array, slice, pointer or reference type.
func NewElemType(kind TypeKind, elem *Type, span lexer.Span) *Type {
	return &Type{Kind: kind, Elem: elem, span: span}
}

// NewArrayType constructs a fixed-size array type.
func NewArrayType(elem *Type, n int, span lexer.Span) *Type {
	return &Type{Kind: TypeArray, Elem: elem, Len: n, span: span}
}

// NewTupleType constructs a tuple type.
func NewTupleType(elems []*Type, span lexer.Span) *Type {
	return &Type{Kind: TypeTuple, Args: elems, span: span}
}

// NewCustomType constructs a named user type.
func NewCustomType(name string, span lexer.Span) *Type {
	return &Type{Kind: TypeCustom, Name: name, span: span}
}

// NewGenericType constructs an instantiated generic type.
func NewGenericType(name string, args []*Type, span lexer.Span) *Type {
	return &Type{Kind: TypeGeneric, Name: name, Args: args, span: span}
}

// IsUnknown reports whether t is absent or the Unknown type.
func (t *Type) IsUnknown() bool {
	return t == nil || t.Kind == TypeUnknown
}

// IsArrayLike reports whether values of t are laid out as C arrays.
func (t *Type) IsArrayLike() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeArray, TypeSlice, TypeStr:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is one of the fixed or platform integer types.
func (t *Type) IsInteger() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeI8, TypeI16, TypeI32, TypeI64, TypeU8, TypeU16, TypeU32, TypeU64, TypeInt, TypeUint:
		return true
	default:
		return false
	}
}

// SameType reports structural equality, ignoring spans.
func SameType(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Len != b.Len || a.Name != b.Name || len(a.Args) != len(b.Args) {
		return false
	}
	if (a.Elem == nil) != (b.Elem == nil) {
		return false
	}
	if a.Elem != nil && !SameType(a.Elem, b.Elem) {
		return false
	}
	for i := range a.Args {
		if !SameType(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// String spells the type in source syntax.
func (t *Type) String() string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case TypeUnknown:
		return "unknown"
	case TypeTuple:
		return "(" + joinTypes(t.Args) + ")"
	case TypeArray:
		return "[" + t.Elem.String() + "; " + strconv.Itoa(t.Len) + "]"
	case TypeSlice:
		return "[" + t.Elem.String() + "]"
	case TypeCustom:
		return t.Name
	case TypePointer:
		return "*" + t.Elem.String()
	case TypeMutableRef:
		return "&mut " + t.Elem.String()
	case TypeReference:
		return "&" + t.Elem.String()
	case TypeGeneric:
		return t.Name + "<" + joinTypes(t.Args) + ">"
	}
	for name, kind := range simpleTypeNames {
		if kind == t.Kind {
			return name
		}
	}
	return "unknown"
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
