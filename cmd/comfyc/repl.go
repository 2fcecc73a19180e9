package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/comfy-lang/comfy/internal/codegen"
	"github.com/comfy-lang/comfy/internal/compiler"
	"github.com/comfy-lang/comfy/internal/lexer"
)

const (
	replFilename = "<repl>"
	historyFile  = ".comfy_history"
	promptMain   = "comfy> "
	promptCont   = "...... "
)

// session accumulates the statements accepted so far, so later input can
// use earlier declarations.
type session struct {
	source string // accepted source
	output string // its translation
}

// extend returns the session source followed by input.
func (s *session) extend(input string) string {
	if s.source == "" {
		return input
	}
	return s.source + "\n" + input
}

// eval translates the session extended by input. On success the input is
// kept and only the C++ it added is returned.
func (s *session) eval(input string) (string, compiler.Result, error) {
	src := s.extend(input)

	res, err := compiler.Translate(src, compiler.WithFilename(replFilename))
	if err != nil {
		return "", res, err
	}

	added := strings.TrimPrefix(res.Output, s.output)
	if s.output == "" {
		added = strings.TrimPrefix(res.Output, codegen.Header)
	}
	s.source, s.output = src, res.Output
	return strings.TrimPrefix(added, "\n"), res, nil
}

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	dumpAST := fs.Bool("dump-ast", false, "print the parsed program after each input")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Println("comfy repl. Enter statements; :reset clears the session, :quit exits.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	var s session
	for {
		input, ok := readBalanced(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case ":quit":
			return 0
		case ":reset":
			s = session{}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		added, res, err := s.eval(input)
		if *dumpAST {
			dumpProgram(res.Program)
		}
		if err != nil {
			report(replFilename, s.extend(input), res.Diagnostics, err)
			continue
		}
		fmt.Println(added)
	}
}

// readBalanced reads lines until every opened brace, bracket and
// parenthesis is closed.
func readBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if openDelimiters(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// openDelimiters counts unclosed delimiters in src.
func openDelimiters(src string) int {
	toks, _ := lexer.Tokenize(src)
	depth := 0
	for _, tok := range toks {
		switch tok.Type {
		case lexer.LBRACE, lexer.LBRACKET, lexer.LPAREN:
			depth++
		case lexer.RBRACE, lexer.RBRACKET, lexer.RPAREN:
			depth--
		}
	}
	return depth
}
