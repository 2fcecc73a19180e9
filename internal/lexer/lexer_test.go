package lexer

import (
	"testing"

	"github.com/comfy-lang/comfy/internal/diag"
)

func TestNextToken_Basic(t *testing.T) {
	input := `let x = 10;`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{DECIMAL, "10"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Value != tt.expectedValue {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Value)
		}
	}
}

func TestNextToken_LongestOperatorWins(t *testing.T) {
	input := `<<= << <= < >>= >> >= > ++ += + -- -= -> - && &= & || |= | == = != ! ^= ^ %= % *= * /= / ~ ?`

	expected := []TokenType{
		SHL_ASSIGN, SHL, LE, LT,
		SHR_ASSIGN, SHR, GE, GT,
		INC, PLUS_ASSIGN, PLUS,
		DEC, MINUS_ASSIGN, ARROW, MINUS,
		AND, AMPERSAND_ASSIGN, AMPERSAND,
		OR, PIPE_ASSIGN, PIPE,
		EQ, ASSIGN, NOT_EQ, BANG,
		CARET_ASSIGN, CARET, PERCENT_ASSIGN, PERCENT,
		ASTERISK_ASSIGN, ASTERISK, SLASH_ASSIGN, SLASH,
		TILDE, QUESTION,
		EOF,
	}

	toks, errs := Tokenize(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Fatalf("step %d - expected token %q, got %q (%q)", i, want, toks[i].Type, toks[i].Raw)
		}
	}
}

func TestNextToken_AdjacentOperators(t *testing.T) {
	toks, _ := Tokenize(`a<<=b>>c`)
	want := []TokenType{IDENT, SHL_ASSIGN, IDENT, SHR, IDENT, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("step %d - expected %q, got %q", i, tt, toks[i].Type)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `fn let if else return while for in break continue as pub priv prot sizeof alignof true false i8 mut str _tmp1`

	expected := []TokenType{
		FN, LET, IF, ELSE, RETURN, WHILE, FOR, IN, BREAK, CONTINUE,
		AS, PUB, PRIV, PROT, SIZEOF, ALIGNOF, TRUE, FALSE,
		IDENT, IDENT, IDENT, IDENT, EOF,
	}

	toks, errs := Tokenize(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Fatalf("step %d - expected token %q, got %q", i, want, toks[i].Type)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input     string
		wantType  TokenType
		wantValue string
	}{
		{"0", DECIMAL, "0"},
		{"200", DECIMAL, "200"},
		{"3.14", DECIMAL, "3.14"},
		{"1e9", DECIMAL, "1e9"},
		{"2.5E-3", DECIMAL, "2.5E-3"},
		{"0xff", HEX, "ff"},
		{"0XAb", HEX, "Ab"},
		{"0o17", OCTAL, "17"},
		{"0b101", BINARY, "101"},
	}

	for _, tt := range tests {
		toks, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected lexer errors: %v", tt.input, errs)
		}
		if toks[0].Type != tt.wantType {
			t.Fatalf("%q: expected type %q, got %q", tt.input, tt.wantType, toks[0].Type)
		}
		if toks[0].Value != tt.wantValue {
			t.Fatalf("%q: expected value %q, got %q", tt.input, tt.wantValue, toks[0].Value)
		}
		if toks[0].Raw != tt.input {
			t.Fatalf("%q: expected raw to be the whole input, got %q", tt.input, toks[0].Raw)
		}
	}
}

func TestLeadingMinusIsAnOperator(t *testing.T) {
	toks, _ := Tokenize(`-5`)
	if toks[0].Type != MINUS || toks[1].Type != DECIMAL || toks[1].Value != "5" {
		t.Fatalf("expected MINUS DECIMAL(5), got %q %q(%q)", toks[0].Type, toks[1].Type, toks[1].Value)
	}
}

func TestScanNumberAcceptsSign(t *testing.T) {
	tests := []struct {
		input string
		tt    TokenType
		value string
		n     int
	}{
		{"-5;", DECIMAL, "-5", 2},
		{"+1.5e3)", DECIMAL, "+1.5e3", 6},
		{"-0x1f", HEX, "-1f", 5},
		{"12.x", DECIMAL, "12", 2},
	}
	for _, tc := range tests {
		tt, value, n, ok := ScanNumber(tc.input)
		if !ok {
			t.Fatalf("%q: expected ok", tc.input)
		}
		if tt != tc.tt || value != tc.value || n != tc.n {
			t.Fatalf("%q: expected (%q, %q, %d), got (%q, %q, %d)", tc.input, tc.tt, tc.value, tc.n, tt, value, n)
		}
	}

	if _, _, _, ok := ScanNumber("-"); ok {
		t.Fatalf("expected a lone sign to be rejected")
	}
}

func TestMalformedNumberPrefix(t *testing.T) {
	toks, _ := Tokenize(`0x;`)
	l := New(`0x;`)
	l.All()
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrMalformedNumber {
		t.Fatalf("expected one malformed number error, got %+v", l.Errors)
	}
	if toks[0].Type != ILLEGAL || toks[1].Type != SEMICOLON {
		t.Fatalf("expected ILLEGAL then ';', got %q %q", toks[0].Type, toks[1].Type)
	}
}

func TestLeadingZeroDecimalIsMalformed(t *testing.T) {
	for _, src := range []string{"010;", "09;", "00.5;"} {
		toks, errs := Tokenize(src)
		if len(errs) != 1 || errs[0].Code != diag.CodeLexerMalformedNumber {
			t.Fatalf("%q: expected one malformed number error, got %v", src, errs)
		}
		if toks[0].Type != ILLEGAL || toks[1].Type != SEMICOLON {
			t.Fatalf("%q: expected ILLEGAL then ';', got %q %q", src, toks[0].Type, toks[1].Type)
		}
	}

	for _, src := range []string{"0", "0.5", "0e3", "0x0", "100"} {
		toks, errs := Tokenize(src)
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected lexer errors: %v", src, errs)
		}
		if toks[0].Raw != src {
			t.Fatalf("%q: expected a single literal token, got %q", src, toks[0].Raw)
		}
	}
}

func TestStringEscapesAreCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, `hello`},
		{`"a\nb"`, `a\nb`},
		{`"\t\r\\\""`, `\t\r\\\"`},
		{`"a\/b"`, `a/b`},
		{`"\b\f"`, `\x08\x0C`},
		{`"\x41é\U0001F600"`, `\x41é\U0001F600`},
		{`"it's"`, `it's`},
		{`"héllo"`, `héllo`},
	}

	for _, tt := range tests {
		toks, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Fatalf("%s: unexpected lexer errors: %v", tt.input, errs)
		}
		if toks[0].Type != STRING {
			t.Fatalf("%s: expected STRING, got %q", tt.input, toks[0].Type)
		}
		if toks[0].Value != tt.want {
			t.Fatalf("%s: expected value %q, got %q", tt.input, tt.want, toks[0].Value)
		}
	}
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`'a'`, `a`},
		{`'\n'`, `\n`},
		{`'\''`, `\'`},
		{`'"'`, `"`},
		{`'\x7f'`, `\x7f`},
	}

	for _, tt := range tests {
		toks, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Fatalf("%s: unexpected lexer errors: %v", tt.input, errs)
		}
		if toks[0].Type != CHAR || toks[0].Value != tt.want {
			t.Fatalf("%s: expected CHAR %q, got %q %q", tt.input, tt.want, toks[0].Type, toks[0].Value)
		}
	}
}

func TestUnknownEscapeIsAnError(t *testing.T) {
	l := New(`"a\qb"`)
	toks, errs := l.All()

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if l.Errors[0].Kind != ErrInvalidEscape {
		t.Fatalf("expected ErrInvalidEscape, got %v", l.Errors[0].Kind)
	}
	if got := l.Errors[0].Span; got.Start != 2 || got.End != 4 {
		t.Fatalf("expected escape span [2,4), got [%d,%d)", got.Start, got.End)
	}
	// Lexing continues past the bad escape and still closes the string.
	if toks[0].Type != STRING || toks[1].Type != EOF {
		t.Fatalf("expected STRING EOF, got %q %q", toks[0].Type, toks[1].Type)
	}
}

func TestShortHexEscapeIsAnError(t *testing.T) {
	l := New(`"\u12"`)
	l.All()
	if len(l.Errors) == 0 || l.Errors[0].Kind != ErrInvalidEscape {
		t.Fatalf("expected ErrInvalidEscape, got %+v", l.Errors)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New("\"abc\nlet")
	toks, _ := l.All()

	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrUnterminatedLiteral {
		t.Fatalf("expected one unterminated literal error, got %+v", l.Errors)
	}
	if toks[0].Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", toks[0].Type)
	}
	if toks[1].Type != LET {
		t.Fatalf("expected lexing to resume on the next line, got %q", toks[1].Type)
	}
}

func TestIllegalRunIsReportedOnce(t *testing.T) {
	l := New(`let @#$ x`)
	toks, errs := l.All()

	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error for the run, got %d: %v", len(errs), errs)
	}
	span := l.Errors[0].Span
	if span.Start != 4 || span.End != 7 {
		t.Fatalf("expected span [4,7), got [%d,%d)", span.Start, span.End)
	}

	want := []TokenType{LET, ILLEGAL, IDENT, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("step %d - expected %q, got %q", i, tt, toks[i].Type)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks, errs := Tokenize("let a = 1; // trailing\n// full line\nlet b = a / 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	want := []TokenType{
		LET, IDENT, ASSIGN, DECIMAL, SEMICOLON,
		LET, IDENT, ASSIGN, IDENT, SLASH, DECIMAL, SEMICOLON, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("step %d - expected %q, got %q", i, tt, toks[i].Type)
		}
	}
}

func TestSpansTrackLinesAndColumns(t *testing.T) {
	toks, _ := Tokenize("fn f() {\n  é + x\n}")

	// "é" is two bytes but one column.
	var plus, x Token
	for _, tok := range toks {
		switch tok.Type {
		case PLUS:
			plus = tok
		case IDENT:
			if tok.Raw == "x" {
				x = tok
			}
		}
	}
	if plus.Span.Line != 2 || plus.Span.Column != 5 {
		t.Fatalf("expected '+' at 2:5, got %d:%d", plus.Span.Line, plus.Span.Column)
	}
	if x.Span.Start != 16 || x.Span.End != 17 {
		t.Fatalf("expected x at bytes [16,17), got [%d,%d)", x.Span.Start, x.Span.End)
	}
}

func TestTriviaTokensTileTheInput(t *testing.T) {
	inputs := []string{
		"",
		"let x = 10;",
		"fn sum(a: i8, b: i8) -> i8 {\r\n    a + b // add\r\n}\n",
		"let s = \"a\\n\\u00e9\";\n\tlet c = '\\'';",
		"let @@ = 1; \"unterminated\nx <<= 0b1",
	}

	for _, input := range inputs {
		toks, _ := TokenizeWithTrivia(input)

		pos := 0
		for i, tok := range toks {
			if tok.Span.Start != pos {
				t.Fatalf("%q: token %d (%q) starts at %d, expected %d", input, i, tok.Type, tok.Span.Start, pos)
			}
			if tok.Raw != input[tok.Span.Start:tok.Span.End] {
				t.Fatalf("%q: token %d raw %q does not match its span", input, i, tok.Raw)
			}
			pos = tok.Span.End
		}
		if pos != len(input) {
			t.Fatalf("%q: tokens cover [0,%d), expected [0,%d)", input, pos, len(input))
		}
		if last := toks[len(toks)-1]; last.Type != EOF || last.Span.Start != len(input) || last.Span.End != len(input) {
			t.Fatalf("%q: expected zero-width EOF at the end, got %q [%d,%d)", input, last.Type, last.Span.Start, last.Span.End)
		}
	}
}

func TestTriviaEmitsWhitespaceAndComments(t *testing.T) {
	input := "a // c\r\nb"

	expected := []TokenType{IDENT, WHITESPACE, LINE_COMMENT, NEWLINE, IDENT, EOF}

	l := NewWithTrivia(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q", i, typ, tok.Type)
		}
		if typ == NEWLINE && tok.Raw != "\r\n" {
			t.Fatalf("expected CRLF to be one newline token, got %q", tok.Raw)
		}
	}
}

func TestFilenameIsAttachedToSpans(t *testing.T) {
	l := New("x")
	l.SetFilename("main.cf")
	toks, _ := l.All()
	if toks[0].Span.Filename != "main.cf" {
		t.Fatalf("expected filename on span, got %q", toks[0].Span.Filename)
	}
	if d := toks[0].Span.ToDiag(); d.Filename != "main.cf" || d.Start != 0 || d.End != 1 {
		t.Fatalf("unexpected converted span %+v", d)
	}
}
