package types

import "github.com/comfy-lang/comfy/internal/ast"

// SymbolKind distinguishes variables from functions.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
)

// Symbol represents a named entity in the source code.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the variable's type, or the function's return type.
	Type *ast.Type
	// Args is the function's argument list. Arguments with a Default may be
	// omitted at call sites.
	Args []*ast.Argument
	// Variadic functions accept any number of arguments past Args.
	Variadic bool
}

// Arity returns the minimum and maximum number of call arguments. The
// maximum is -1 for variadic functions.
func (s *Symbol) Arity() (required, total int) {
	for _, arg := range s.Args {
		if arg.Default == nil {
			required++
		}
	}
	if s.Variadic {
		return required, -1
	}
	return required, len(s.Args)
}

// Scope represents a lexical scope containing symbols.
type Scope struct {
	Parent  *Scope
	Symbols map[string]*Symbol
}

// NewScope creates a new scope with an optional parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:  parent,
		Symbols: make(map[string]*Symbol),
	}
}

// Insert adds a symbol to the current scope, shadowing any outer symbol
// with the same name.
func (s *Scope) Insert(name string, sym *Symbol) {
	s.Symbols[name] = sym
}

// Lookup finds a symbol in the current scope or any parent scope.
func (s *Scope) Lookup(name string) *Symbol {
	if sym, ok := s.Symbols[name]; ok {
		return sym
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil
}
