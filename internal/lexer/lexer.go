package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/comfy-lang/comfy/internal/diag"
)

type LexerErrorKind int

const (
	ErrIllegalCharacter LexerErrorKind = iota
	ErrUnterminatedLiteral
	ErrInvalidEscape
	ErrMalformedNumber
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrIllegalCharacter:
		return diag.CodeLexerIllegalCharacter
	case ErrUnterminatedLiteral:
		return diag.CodeLexerUnterminatedLiteral
	case ErrInvalidEscape:
		return diag.CodeLexerInvalidEscape
	case ErrMalformedNumber:
		return diag.CodeLexerMalformedNumber
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Kind:     diag.KindCompile,
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     e.Span.ToDiag(),
	}
}

// Lexer represents the lexer state. Positions are byte offsets into input.
type Lexer struct {
	input      string
	pos        int  // byte offset of the current rune
	width      int  // byte width of the current rune (0 at EOF)
	ch         rune // current rune (0 = EOF)
	line       int  // current line number (1-based)
	column     int  // current column number (1-based)
	filename   string
	emitTrivia bool // whether to emit trivia tokens (comments, whitespace)

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// newLexer is the single internal constructor that sets up all lexer state
func newLexer(input string, emitTrivia bool) *Lexer {
	l := &Lexer{
		input:      input,
		line:       1,
		column:     1,
		emitTrivia: emitTrivia,
	}
	l.decode()
	return l
}

// New creates a new lexer for the given input (trivia mode disabled)
func New(input string) *Lexer {
	return newLexer(input, false)
}

// NewWithTrivia creates a new lexer that emits trivia tokens
func NewWithTrivia(input string) *Lexer {
	return newLexer(input, true)
}

// SetFilename attributes every span produced from now on to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize lexes the whole input, skipping whitespace and comments. The
// returned slice always ends with an EOF token.
func Tokenize(input string) ([]Token, diag.List) {
	return New(input).All()
}

// TokenizeWithTrivia is Tokenize with whitespace, newline and comment tokens
// kept, so that the token spans tile the input without gaps.
func TokenizeWithTrivia(input string) ([]Token, diag.List) {
	return NewWithTrivia(input).All()
}

// All drains the lexer up to and including EOF.
func (l *Lexer) All() ([]Token, diag.List) {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}

	var errs diag.List
	for _, e := range l.Errors {
		errs = append(errs, e.ToDiagnostic())
	}
	return toks, errs
}

func (l *Lexer) decode() {
	if l.pos >= len(l.input) {
		l.ch, l.width = 0, 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// read advances the lexer to the next rune, keeping line/column in step.
func (l *Lexer) read() {
	if l.atEOF() {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += l.width
	l.decode()
}

// readN advances over n bytes of ASCII text.
func (l *Lexer) readN(n int) {
	for i := 0; i < n; i++ {
		l.read()
	}
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	next := l.pos + l.width
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

// currentSpanStart returns the position of the rune about to be tokenized
func (l *Lexer) currentSpanStart() (line, column, pos int) {
	return l.line, l.column, l.pos
}

// makeToken creates a token ending at the current position
func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos int, value string) Token {
	return Token{
		Type:  tokType,
		Raw:   l.input[startPos:l.pos],
		Value: value,
		Span:  l.spanFrom(startLine, startColumn, startPos),
	}
}

func (l *Lexer) spanFrom(startLine, startColumn, startPos int) Span {
	return Span{
		Filename: l.filename,
		Line:     startLine,
		Column:   startColumn,
		Start:    startPos,
		End:      l.pos,
	}
}

// skipWhitespace skips whitespace characters, optionally returning a trivia token
func (l *Lexer) skipWhitespace() *Token {
	if !l.emitTrivia {
		for isSpace(l.ch) {
			l.read()
		}
		return nil
	}

	startLine, startColumn, startPos := l.currentSpanStart()

	if l.ch == '\n' || l.ch == '\r' {
		cr := l.ch == '\r'
		l.read()
		if cr && l.ch == '\n' {
			l.read()
		}
		tok := l.makeToken(NEWLINE, startLine, startColumn, startPos, "")
		return &tok
	}

	if l.ch == ' ' || l.ch == '\t' {
		for l.ch == ' ' || l.ch == '\t' {
			l.read()
		}
		tok := l.makeToken(WHITESPACE, startLine, startColumn, startPos, "")
		return &tok
	}

	return nil
}

// skipLineComment consumes a // comment up to, not including, the line break
func (l *Lexer) skipLineComment(startLine, startColumn, startPos int) *Token {
	for !l.atEOF() && l.ch != '\n' && l.ch != '\r' {
		l.read()
	}
	if l.emitTrivia {
		tok := l.makeToken(LINE_COMMENT, startLine, startColumn, startPos, "")
		return &tok
	}
	return nil
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		if triviaTok := l.skipWhitespace(); triviaTok != nil {
			return *triviaTok
		}

		startLine, startColumn, startPos := l.currentSpanStart()

		if l.atEOF() {
			return l.makeToken(EOF, startLine, startColumn, startPos, "")
		}

		if l.ch == '/' && l.peek() == '/' {
			if tok := l.skipLineComment(startLine, startColumn, startPos); tok != nil {
				return *tok
			}
			continue
		}

		if tt, ok := l.matchPunctuation(); ok {
			l.readN(len(tt))
			return l.makeToken(tt, startLine, startColumn, startPos, string(tt))
		}

		switch {
		case l.ch == '"':
			return l.readString(startLine, startColumn, startPos)
		case l.ch == '\'':
			return l.readChar(startLine, startColumn, startPos)
		case isDigit(l.ch):
			return l.readNumber(startLine, startColumn, startPos)
		case isLetter(l.ch):
			literal := l.readIdentifier()
			return l.makeToken(LookupIdent(literal), startLine, startColumn, startPos, literal)
		default:
			return l.readIllegal(startLine, startColumn, startPos)
		}
	}
}

func (l *Lexer) matchPunctuation() (TokenType, bool) {
	rest := l.input[l.pos:]
	for _, tt := range punctuation {
		if strings.HasPrefix(rest, string(tt)) {
			return tt, true
		}
	}
	return "", false
}

// startsToken reports whether some rule can begin at the current rune.
func (l *Lexer) startsToken() bool {
	if l.atEOF() || isSpace(l.ch) || isLetter(l.ch) || isDigit(l.ch) || l.ch == '"' || l.ch == '\'' {
		return true
	}
	_, ok := l.matchPunctuation()
	return ok
}

// readIllegal consumes a run of characters that start no token and reports
// the whole run once.
func (l *Lexer) readIllegal(startLine, startColumn, startPos int) Token {
	l.read()
	for !l.startsToken() {
		l.read()
	}
	tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, "")

	msg := "illegal character " + strconv.Quote(tok.Raw)
	if utf8.RuneCountInString(tok.Raw) > 1 {
		msg = "illegal characters " + strconv.Quote(tok.Raw)
	}
	l.addError(ErrIllegalCharacter, msg, tok.Span)
	return tok
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber(startLine, startColumn, startPos int) Token {
	tt, value, n, ok := scanNumber(l.input[l.pos:], false)
	l.readN(n)
	if !ok {
		tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, "")
		l.addError(ErrMalformedNumber, "malformed number literal "+strconv.Quote(tok.Raw), tok.Span)
		return tok
	}
	return l.makeToken(tt, startLine, startColumn, startPos, value)
}

// ScanNumber scans the numeric literal at the start of s. An optional sign is
// accepted and kept in the value. Decimal literals keep their exact text and
// may not start with a redundant zero;
// hexadecimal, octal and binary literals keep only the digits after the
// 0x, 0o or 0b prefix. n is the number of bytes consumed.
func ScanNumber(s string) (tt TokenType, value string, n int, ok bool) {
	return scanNumber(s, true)
}

func scanNumber(s string, allowSign bool) (TokenType, string, int, bool) {
	i := 0
	if allowSign && i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i >= len(s) || !isDigitByte(s[i]) {
		return ILLEGAL, "", 0, false
	}

	if s[i] == '0' && i+1 < len(s) {
		var tt TokenType
		var digit func(byte) bool
		switch s[i+1] {
		case 'x', 'X':
			tt, digit = HEX, isHexByte
		case 'o', 'O':
			tt, digit = OCTAL, isOctalByte
		case 'b', 'B':
			tt, digit = BINARY, isBinaryByte
		}
		if digit != nil {
			j := i + 2
			for j < len(s) && digit(s[j]) {
				j++
			}
			if j == i+2 {
				return tt, "", j, false
			}
			return tt, s[:i] + s[i+2:j], j, true
		}
	}

	j := i
	for j < len(s) && isDigitByte(s[j]) {
		j++
	}
	if j+1 < len(s) && s[j] == '.' && isDigitByte(s[j+1]) {
		j++
		for j < len(s) && isDigitByte(s[j]) {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigitByte(s[k]) {
			for k < len(s) && isDigitByte(s[k]) {
				k++
			}
			j = k
		}
	}
	// The integer part is base 10, so 010 would read as octal in C++.
	if s[i] == '0' && i+1 < len(s) && isDigitByte(s[i+1]) {
		return DECIMAL, "", j, false
	}
	return DECIMAL, s[:j], j, true
}

// readString reads a string literal. The token value is the content with
// every escape rewritten to its canonical form.
func (l *Lexer) readString(startLine, startColumn, startPos int) Token {
	var value strings.Builder
	l.read() // skip opening quote

	for {
		if l.atEOF() || l.ch == '\n' || l.ch == '\r' {
			tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, value.String())
			l.addError(ErrUnterminatedLiteral, "unterminated string literal", tok.Span)
			return tok
		}
		if l.ch == '"' {
			l.read()
			return l.makeToken(STRING, startLine, startColumn, startPos, value.String())
		}
		if l.ch == '\\' {
			value.WriteString(l.readEscape())
			continue
		}
		value.WriteString(l.input[l.pos : l.pos+l.width])
		l.read()
	}
}

// readChar reads a character literal: a single rune or escape between quotes.
func (l *Lexer) readChar(startLine, startColumn, startPos int) Token {
	l.read() // skip opening quote

	var value string
	switch {
	case l.atEOF() || l.ch == '\n' || l.ch == '\r':
		tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, "")
		l.addError(ErrUnterminatedLiteral, "unterminated character literal", tok.Span)
		return tok
	case l.ch == '\'':
		l.read()
		tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, "")
		l.addError(ErrUnterminatedLiteral, "empty character literal", tok.Span)
		return tok
	case l.ch == '\\':
		value = l.readEscape()
	default:
		value = l.input[l.pos : l.pos+l.width]
		l.read()
	}

	if l.ch != '\'' {
		tok := l.makeToken(ILLEGAL, startLine, startColumn, startPos, value)
		l.addError(ErrUnterminatedLiteral, "unterminated character literal", tok.Span)
		return tok
	}
	l.read()
	return l.makeToken(CHAR, startLine, startColumn, startPos, value)
}

// simpleEscapes maps the character after '\' to its canonical spelling.
var simpleEscapes = map[rune]string{
	'\\': `\\`,
	'/':  `/`,
	'"':  `\"`,
	'\'': `\'`,
	'b':  `\x08`,
	'f':  `\x0C`,
	'n':  `\n`,
	'r':  `\r`,
	't':  `\t`,
}

// hexEscapes gives the digit count of each fixed-width hexadecimal escape.
var hexEscapes = map[rune]int{'u': 4, 'U': 8, 'x': 2}

// readEscape consumes an escape sequence starting at '\' and returns its
// canonical spelling. Unknown escapes are reported and dropped.
func (l *Lexer) readEscape() string {
	startLine, startColumn, startPos := l.currentSpanStart()
	l.read() // skip '\'

	if out, ok := simpleEscapes[l.ch]; ok {
		l.read()
		return out
	}

	if count, ok := hexEscapes[l.ch]; ok {
		prefix := `\` + string(l.ch)
		l.read()
		hexStart := l.pos
		for i := 0; i < count; i++ {
			if !isHexDigit(l.ch) {
				l.addError(ErrInvalidEscape,
					"escape "+prefix+" expects "+strconv.Itoa(count)+" hexadecimal digits",
					l.spanFrom(startLine, startColumn, startPos))
				return ""
			}
			l.read()
		}
		return prefix + l.input[hexStart:l.pos]
	}

	if l.atEOF() || l.ch == '\n' || l.ch == '\r' {
		l.addError(ErrInvalidEscape, "incomplete escape sequence", l.spanFrom(startLine, startColumn, startPos))
		return ""
	}
	l.read()
	l.addError(ErrInvalidEscape,
		"unknown escape sequence "+strconv.Quote(l.input[startPos:l.pos]),
		l.spanFrom(startLine, startColumn, startPos))
	return ""
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

// isHexDigit checks if a rune is a hexadecimal digit
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

func isDigitByte(b byte) bool  { return b >= '0' && b <= '9' }
func isHexByte(b byte) bool    { return isHexDigit(rune(b)) }
func isOctalByte(b byte) bool  { return b >= '0' && b <= '7' }
func isBinaryByte(b byte) bool { return b == '0' || b == '1' }
