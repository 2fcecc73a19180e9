package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sanity-io/litter"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/compiler"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/toolchain"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: comfyc <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  build <file>        Compile a comfy source file to an executable\n")
		fmt.Fprintf(os.Stderr, "  translate <file>    Print the generated C++ without compiling it\n")
		fmt.Fprintf(os.Stderr, "  repl                Translate statements interactively\n")
		fmt.Fprintf(os.Stderr, "\nRun 'comfyc <command> -h' for command options.\n")
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var code int
	switch command {
	case "build":
		code = runBuild(args)
	case "translate":
		code = runTranslate(args)
	case "repl":
		code = runRepl(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		code = 2
	}
	os.Exit(code)
}

// commonFlags are shared by build and translate.
type commonFlags struct {
	verbose bool
	dumpAST bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "log compiler stages to stderr")
	fs.BoolVar(&c.dumpAST, "dump-ast", false, "print the parsed program to stderr")
}

func (c *commonFlags) logger() *log.Logger {
	if !c.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "comfyc: ", 0)
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	output := fs.String("o", "", "output executable (default: the input name without its extension)")
	cxx := fs.String("cxx", defaultCompiler(), "native C++ compiler (env COMFY_CXX)")
	keepTemp := fs.Bool("keep-temp", false, "keep the generated "+toolchain.TempSuffix+" file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: comfyc build [options] <file>\n")
		return 2
	}

	filename := fs.Arg(0)
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	out := *output
	if out == "" {
		out = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	logger := common.logger()
	start := time.Now()
	res, err := compiler.Build(string(src), out,
		compiler.WithFilename(filename),
		compiler.WithLogger(logger),
		compiler.WithNativeCompiler(*cxx),
		compiler.WithKeepTemp(*keepTemp),
	)
	if common.dumpAST {
		dumpProgram(res.Program)
	}
	if err != nil {
		report(filename, string(src), res.Diagnostics, err)
		return 1
	}

	logger.Printf("built %s in %s", out, time.Since(start).Round(time.Millisecond))
	return 0
}

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	output := fs.String("o", "", "write the C++ to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: comfyc translate [options] <file>\n")
		return 2
	}

	filename := fs.Arg(0)
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	res, err := compiler.Translate(string(src),
		compiler.WithFilename(filename),
		compiler.WithLogger(common.logger()),
	)
	if common.dumpAST {
		dumpProgram(res.Program)
	}
	if err != nil {
		report(filename, string(src), res.Diagnostics, err)
		return 1
	}

	if *output == "" {
		fmt.Println(res.Output)
		return 0
	}
	if err := os.WriteFile(*output, []byte(res.Output+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func defaultCompiler() string {
	if cxx := os.Getenv("COMFY_CXX"); cxx != "" {
		return cxx
	}
	return toolchain.DefaultCompiler
}

func dumpProgram(prog *ast.Program) {
	if prog == nil {
		return
	}
	fmt.Fprintln(os.Stderr, litter.Sdump(prog))
}

// report renders diagnostics with source snippets. err is printed as is
// when it carried no diagnostics.
func report(filename, src string, diags diag.List, err error) {
	if len(diags) == 0 {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	f := diag.NewFormatter(os.Stderr)
	f.AddSource(filename, src)
	f.FormatAll(diags)
}
