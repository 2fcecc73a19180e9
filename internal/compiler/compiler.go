// Package compiler drives a comfy source file through lexing, parsing,
// checking and C++ generation, and optionally through the native compiler.
package compiler

import (
	"errors"
	"io"
	"log"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/codegen"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/lexer"
	"github.com/comfy-lang/comfy/internal/parser"
	"github.com/comfy-lang/comfy/internal/toolchain"
	"github.com/comfy-lang/comfy/internal/types"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	filename string
	logger   *log.Logger
	compiler string
	keepTemp bool
}

// WithFilename attributes every diagnostic span to name.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLogger reports pipeline progress to logger. Nothing is logged by default.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNativeCompiler selects the C++ compiler Build runs.
func WithNativeCompiler(path string) Option {
	return func(o *options) {
		o.compiler = path
	}
}

// WithKeepTemp keeps the generated translation unit after Build.
func WithKeepTemp(keep bool) Option {
	return func(o *options) {
		o.keepTemp = keep
	}
}

func newOptions(opts []Option) options {
	cfg := options{
		logger:   log.New(io.Discard, "", 0),
		compiler: toolchain.DefaultCompiler,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Result is everything one translation produced. Output is empty when
// lexing or parsing failed; otherwise it holds the generated C++ even if
// checking reported diagnostics.
type Result struct {
	Output      string
	Program     *ast.Program
	Diagnostics diag.List
}

// Translate compiles src to C++ without running the native compiler. The
// returned error is the Result's diagnostics as a diag.List, or nil.
//
// Lexical errors stop before parsing and parse errors stop before checking.
// Checking and generation always run to completion.
func Translate(src string, opts ...Option) (Result, error) {
	cfg := newOptions(opts)
	return translate(src, cfg)
}

func translate(src string, cfg options) (Result, error) {
	lx := lexer.New(src)
	if cfg.filename != "" {
		lx.SetFilename(cfg.filename)
	}
	toks, lexErrs := lx.All()
	cfg.logger.Printf("lexed %d tokens", len(toks))
	if len(lexErrs) > 0 {
		cfg.logger.Printf("lexing failed with %d diagnostic(s)", len(lexErrs))
		return Result{Diagnostics: lexErrs}, lexErrs
	}

	p := parser.NewFromTokens(toks, parser.WithFilename(cfg.filename))
	prog := p.ParseProgram()
	cfg.logger.Printf("parsed %d top-level statement(s)", len(prog.Stmts))
	if parseErrs := p.Diagnostics(); len(parseErrs) > 0 {
		cfg.logger.Printf("parsing failed with %d diagnostic(s)", len(parseErrs))
		return Result{Program: prog, Diagnostics: parseErrs}, parseErrs
	}

	gen := codegen.NewGenerator(types.NewChecker())
	out, diags := gen.Generate(prog)
	cfg.logger.Printf("generated %d bytes of C++ with %d diagnostic(s)", len(out), len(diags))

	return Result{Output: out, Program: prog, Diagnostics: diags}, diags.Err()
}

// Build translates src and, when translation reports nothing, compiles the
// result into the executable output. A native compiler failure is returned
// as a single external-tool diagnostic.
func Build(src, output string, opts ...Option) (Result, error) {
	cfg := newOptions(opts)

	res, err := translate(src, cfg)
	if err != nil {
		return res, err
	}

	err = toolchain.Run(res.Output, toolchain.Invocation{
		Compiler: cfg.compiler,
		Output:   output,
		KeepTemp: cfg.keepTemp,
		Logger:   cfg.logger,
	})
	if err != nil {
		var tcErr *toolchain.Error
		if !errors.As(err, &tcErr) {
			tcErr = &toolchain.Error{Message: err.Error(), Err: err}
		}
		res.Diagnostics = append(res.Diagnostics, tcErr.ToDiagnostic())
		return res, res.Diagnostics
	}

	cfg.logger.Printf("wrote %s", output)
	return res, nil
}
