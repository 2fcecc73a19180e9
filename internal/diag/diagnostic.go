package diag

import (
	"fmt"
	"strings"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageTypeCheck Stage = "typecheck"
	StageCodegen   Stage = "codegen"
	StageToolchain Stage = "toolchain"
)

// Severity captures how impactful the diagnostic is.
type Severity string

// Every diagnostic comfy reports is an error.
const SeverityError Severity = "error"

// Kind separates diagnostics tied to a source location from failures of the
// external native compiler, which only carry a message.
type Kind int

const (
	KindCompile Kind = iota
	KindExternalTool
)

func (k Kind) String() string {
	switch k {
	case KindCompile:
		return "compile"
	case KindExternalTool:
		return "external-tool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerIllegalCharacter    Code = "LEXER_ILLEGAL_CHARACTER"
	CodeLexerUnterminatedLiteral Code = "LEXER_UNTERMINATED_LITERAL"
	CodeLexerInvalidEscape       Code = "LEXER_INVALID_ESCAPE"
	CodeLexerMalformedNumber     Code = "LEXER_MALFORMED_NUMBER"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseUnsupported     Code = "PARSE_UNSUPPORTED"

	// Type checker errors
	CodeTypeUndefinedIdentifier Code = "TYPE_UNDEFINED_IDENTIFIER"
	CodeTypeCannotInfer         Code = "TYPE_CANNOT_INFER"
	CodeTypeMismatch            Code = "TYPE_MISMATCH"
	CodeTypeNotHomogeneous      Code = "TYPE_NOT_HOMOGENEOUS"
	CodeTypeNotIndexable        Code = "TYPE_NOT_INDEXABLE"
	CodeTypeArrayCast           Code = "TYPE_ARRAY_CAST"
	CodeTypeArrayReturn         Code = "TYPE_ARRAY_RETURN"
	CodeTypeNotCallable         Code = "TYPE_NOT_CALLABLE"
	CodeTypeArgumentCount       Code = "TYPE_ARGUMENT_COUNT"
	CodeTypeInvalidOperation    Code = "TYPE_INVALID_OPERATION"
	CodeTypeNestedFunction      Code = "TYPE_NESTED_FUNCTION"

	// Codegen errors
	CodeGenUnsupportedExpr Code = "CODEGEN_UNSUPPORTED_EXPR"
	CodeGenUnsupportedType Code = "CODEGEN_UNSUPPORTED_TYPE"

	// Toolchain errors
	CodeToolchainFailed Code = "TOOLCHAIN_FAILED"
)

// Span represents a location in source code. Start and End are byte offsets
// forming the half-open range [Start, End); Line and Column describe Start.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Kind     Kind
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // zero for KindExternalTool
	Notes    []string
	Help     string
}

// Error implements the error interface so a single diagnostic can travel as one.
func (d Diagnostic) Error() string {
	if d.Kind == KindExternalTool || !d.Span.IsValid() {
		return d.Message
	}
	return d.Span.String() + ": " + d.Message
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// Errorf builds a compile-kind error diagnostic.
func Errorf(stage Stage, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     KindCompile,
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// ExternalTool builds a diagnostic for a failed native compiler invocation.
func ExternalTool(message string) Diagnostic {
	return Diagnostic{
		Kind:     KindExternalTool,
		Stage:    StageToolchain,
		Severity: SeverityError,
		Code:     CodeToolchainFailed,
		Message:  message,
	}
}

// List is an ordered batch of diagnostics from one compilation attempt.
type List []Diagnostic

// Error joins every message, one per line.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d diagnostics:", len(l))
	for _, d := range l {
		b.WriteString("\n\t")
		b.WriteString(d.Error())
	}
	return b.String()
}

// HasErrors reports whether any entry has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError || d.Severity == "" {
			return true
		}
	}
	return false
}

// Err returns l as an error, or nil when l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
