package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/lexer"
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// precedenceLowest admits every operator, assignment included.
const precedenceLowest = 0

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message string
	Span    lexer.Span
	Code    diag.Code
}

// ToDiagnostic converts a parse error into a shared diagnostic structure.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	code := e.Code
	if code == "" {
		code = diag.CodeParseUnexpectedToken
	}
	return diag.Diagnostic{
		Kind:     diag.KindCompile,
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  e.Message,
		Span:     e.Span.ToDiag(),
	}
}

// Parser is a precedence-climbing recursive descent parser.
//   - Lookahead: curTok is the token under examination and peekTok the one
//     after it; both only change through nextToken.
//   - Expression parsers start on the first token of the expression and stop
//     on its last token. Statement parsers stop on the token after the
//     statement, so a block loop can continue directly.
//   - errors is append-only; after a failed statement the caller resynchronises
//     with recoverStatement and keeps going.
type Parser struct {
	toks    []lexer.Token
	next    int // index of the token that becomes peekTok on the next hop
	curTok  lexer.Token
	peekTok lexer.Token

	errors    []ParseError
	lexErrors diag.List

	filename string
}

// New lexes input and returns a parser over its tokens. Lexical errors are
// kept aside and available through LexErrors.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	lx := lexer.New(input)
	if cfg.filename != "" {
		lx.SetFilename(cfg.filename)
	}
	toks, lexErrs := lx.All()

	p := newParser(toks, cfg)
	p.lexErrors = lexErrs
	return p
}

// NewFromTokens returns a parser over an already lexed token stream.
// Trivia and ILLEGAL tokens are dropped; the lexer has reported the latter.
func NewFromTokens(toks []lexer.Token, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newParser(toks, cfg)
}

func newParser(toks []lexer.Token, cfg options) *Parser {
	kept := make([]lexer.Token, 0, len(toks)+1)
	for _, tok := range toks {
		if tok.Type.IsTrivia() || tok.Type == lexer.ILLEGAL {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 || kept[len(kept)-1].Type != lexer.EOF {
		end := 0
		if len(kept) > 0 {
			end = kept[len(kept)-1].Span.End
		}
		kept = append(kept, lexer.Token{Type: lexer.EOF, Span: lexer.Span{Filename: cfg.filename, Start: end, End: end}})
	}

	p := &Parser{
		toks:     kept,
		filename: cfg.filename,
	}

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Diagnostics returns the parse errors as shared diagnostics.
func (p *Parser) Diagnostics() diag.List {
	var list diag.List
	for _, err := range p.errors {
		list = append(list, err.ToDiagnostic())
	}
	return list
}

// LexErrors returns the diagnostics the lexer produced for the input given to New.
func (p *Parser) LexErrors() diag.List {
	return p.lexErrors
}

// ParseProgram parses statements until end of input. It never returns nil.
func (p *Parser) ParseProgram() *ast.Program {
	prog := ast.NewProgram(p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		prevTok := p.curTok
		stmt, ok := p.parseStatement(false)
		if ok {
			if stmt != nil {
				prog.Stmts = append(prog.Stmts, stmt)
				prog.SetSpan(mergeSpan(prog.Span(), stmt.Span()))
			}
			continue
		}

		p.recoverStatement(prevTok)
	}

	prog.SetSpan(mergeSpan(prog.Span(), p.curTok.Span))

	return prog
}

// nextToken advances the parser's token window.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.next < len(p.toks) {
		p.peekTok = p.toks[p.next]
		p.next++
		return
	}
	// Past the end the window keeps returning the trailing EOF.
	p.peekTok = p.toks[len(p.toks)-1]
}

// expect asserts that the peek token matches the provided type.
// On success it promotes peekTok into curTok; on failure nothing moves.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportError(fmt.Sprintf("expected %s, found %s", describeType(tt), describe(p.peekTok)), p.peekTok.Span)
	return false
}

// splitShift turns a peeked '>>' into two '>' tokens, for closing nested
// generic argument lists.
func (p *Parser) splitShift() {
	if p.peekTok.Type != lexer.SHR {
		return
	}
	first, second := p.peekTok, p.peekTok
	first.Type, first.Raw, first.Value = lexer.GT, ">", ">"
	first.Span.End = first.Span.Start + 1
	second.Type, second.Raw, second.Value = lexer.GT, ">", ">"
	second.Span.Start++
	second.Span.Column++

	p.peekTok = first
	p.toks = slices.Insert(p.toks, p.next, second)
}

func (p *Parser) reportError(msg string, span lexer.Span) {
	p.reportErrorCode(msg, diag.CodeParseUnexpectedToken, span)
}

func (p *Parser) reportErrorCode(msg string, code diag.Code, span lexer.Span) {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Span:    span,
		Code:    code,
	})
}

func sameTokenPosition(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}

func isStatementStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.FN, lexer.PUB, lexer.PRIV, lexer.PROT, lexer.LET, lexer.IF, lexer.RETURN,
		lexer.WHILE, lexer.FOR, lexer.BREAK, lexer.CONTINUE:
		return true
	default:
		return false
	}
}

// recoverStatement skips ahead to a plausible statement boundary: past the
// next ';', or onto a '}' or statement keyword. It always makes progress.
func (p *Parser) recoverStatement(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			return
		default:
			if isStatementStart(p.curTok.Type) {
				return
			}
		}

		p.nextToken()
	}
}

// mergeSpan assumes start.End <= end.End and returns a span covering both.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if span.Line == 0 && end.Line != 0 {
		span.Line = end.Line
		span.Column = end.Column
		span.Start = end.Start
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

// describe names a token for error messages.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENT:
		return "identifier '" + tok.Raw + "'"
	case lexer.DECIMAL, lexer.HEX, lexer.OCTAL, lexer.BINARY:
		return "number '" + tok.Raw + "'"
	case lexer.STRING:
		return "string literal"
	case lexer.CHAR:
		return "character literal"
	default:
		return "'" + tok.Raw + "'"
	}
}

// describeType names a token type for "expected ..." messages.
func describeType(tt lexer.TokenType) string {
	switch tt {
	case lexer.IDENT:
		return "identifier"
	case lexer.DECIMAL:
		return "number"
	case lexer.EOF:
		return "end of input"
	}
	if _, isKeyword := keywordTypes[tt]; isKeyword {
		return "'" + strings.ToLower(string(tt)) + "'"
	}
	return "'" + string(tt) + "'"
}

var keywordTypes = map[lexer.TokenType]struct{}{
	lexer.FN: {}, lexer.LET: {}, lexer.IF: {}, lexer.ELSE: {}, lexer.RETURN: {},
	lexer.WHILE: {}, lexer.FOR: {}, lexer.IN: {}, lexer.BREAK: {}, lexer.CONTINUE: {},
	lexer.AS: {}, lexer.PUB: {}, lexer.PRIV: {}, lexer.PROT: {},
	lexer.SIZEOF: {}, lexer.ALIGNOF: {}, lexer.TRUE: {}, lexer.FALSE: {},
}
