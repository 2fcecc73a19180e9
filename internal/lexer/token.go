package lexer

import "github.com/comfy-lang/comfy/internal/diag"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number, counted in runes
	Start    int    // byte offset into the source
	End      int    // exclusive end byte offset
}

// ToDiag converts the span into the shared diagnostic representation.
func (s Span) ToDiag() diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Raw   string // exact text from source
	Value string // literal payload: digits without base prefix, or string/char content with canonical escapes
	Span  Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT   TokenType = "IDENT"   // add, foobar, x, y, ...
	DECIMAL TokenType = "DECIMAL" // 1343456, 3.14, 1e9
	HEX     TokenType = "HEX"     // 0xff
	OCTAL   TokenType = "OCTAL"   // 0o17
	BINARY  TokenType = "BINARY"  // 0b101
	CHAR    TokenType = "CHAR"    // 'a'
	STRING  TokenType = "STRING"  // "hello"

	// Operators
	ASSIGN    TokenType = "="
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	CARET     TokenType = "^"
	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	TILDE     TokenType = "~"
	BANG      TokenType = "!"
	QUESTION  TokenType = "?"
	AND       TokenType = "&&"
	OR        TokenType = "||"
	INC       TokenType = "++"
	DEC       TokenType = "--"
	SHL       TokenType = "<<"
	SHR       TokenType = ">>"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	PLUS_ASSIGN      TokenType = "+="
	MINUS_ASSIGN     TokenType = "-="
	ASTERISK_ASSIGN  TokenType = "*="
	SLASH_ASSIGN     TokenType = "/="
	PERCENT_ASSIGN   TokenType = "%="
	CARET_ASSIGN     TokenType = "^="
	AMPERSAND_ASSIGN TokenType = "&="
	PIPE_ASSIGN      TokenType = "|="
	SHL_ASSIGN       TokenType = "<<="
	SHR_ASSIGN       TokenType = ">>="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	ARROW     TokenType = "->"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	FN       TokenType = "FN"
	LET      TokenType = "LET"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	RETURN   TokenType = "RETURN"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	IN       TokenType = "IN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	AS       TokenType = "AS"
	PUB      TokenType = "PUB"
	PRIV     TokenType = "PRIV"
	PROT     TokenType = "PROT"
	SIZEOF   TokenType = "SIZEOF"
	ALIGNOF  TokenType = "ALIGNOF"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"

	// Trivia tokens (comments, whitespace, newlines)
	LINE_COMMENT TokenType = "LINE_COMMENT" // //
	WHITESPACE   TokenType = "WHITESPACE"   // spaces, tabs
	NEWLINE      TokenType = "NEWLINE"      // \n, \r\n
)

var keywords = map[string]TokenType{
	"fn":       FN,
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"return":   RETURN,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"as":       AS,
	"pub":      PUB,
	"priv":     PRIV,
	"prot":     PROT,
	"sizeof":   SIZEOF,
	"alignof":  ALIGNOF,
	"true":     TRUE,
	"false":    FALSE,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// punctuation is ordered so that every operator precedes its own prefixes;
// the lexer takes the first entry that matches.
var punctuation = []TokenType{
	SHL_ASSIGN, SHR_ASSIGN,

	ARROW, SHL, SHR, INC, DEC,
	PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN, PERCENT_ASSIGN,
	CARET_ASSIGN, AMPERSAND_ASSIGN, PIPE_ASSIGN,
	AND, OR, EQ, NOT_EQ, LE, GE,

	SEMICOLON, COMMA, COLON, DOT,
	PLUS, MINUS, ASTERISK, SLASH, CARET, PERCENT, AMPERSAND, PIPE, TILDE,
	QUESTION, BANG, ASSIGN, LT, GT,
	LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
}

// IsTrivia reports whether tokens of this type are only produced in trivia mode.
func (t TokenType) IsTrivia() bool {
	return t == WHITESPACE || t == NEWLINE || t == LINE_COMMENT
}
