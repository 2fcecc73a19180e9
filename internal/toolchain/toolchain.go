// Package toolchain hands generated C++ to the native compiler.
package toolchain

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/comfy-lang/comfy/internal/diag"
)

// DefaultCompiler is used when an Invocation names no compiler.
const DefaultCompiler = "clang++"

// TempSuffix is appended to the output path to name the translation unit
// handed to the compiler.
const TempSuffix = ".temp.cc"

// Invocation describes one native compile.
type Invocation struct {
	Compiler string // defaults to DefaultCompiler
	Output   string // executable path; the source goes to Output+TempSuffix
	KeepTemp bool
	Logger   *log.Logger
}

// Error is a failed native compile. It carries only a message; the
// compiler's own diagnostics are in it verbatim.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// ToDiagnostic converts the failure into an external-tool diagnostic.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.ExternalTool(e.Message)
}

// TempPath returns the path of the translation unit written for output.
func TempPath(output string) string {
	return output + TempSuffix
}

// Run writes source next to inv.Output, runs `<compiler> <temp> -o <output>`
// and removes the temporary file. It blocks until the compiler exits. Any
// failure is returned as an *Error.
func Run(source string, inv Invocation) error {
	if inv.Output == "" {
		return &Error{Message: "Compilation failed: no output path"}
	}
	compiler := inv.Compiler
	if compiler == "" {
		compiler = DefaultCompiler
	}
	logger := inv.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	temp := TempPath(inv.Output)
	if err := os.WriteFile(temp, []byte(source), 0o644); err != nil {
		return &Error{Message: fmt.Sprintf("Failed to write %s: %v", temp, err), Err: err}
	}
	if !inv.KeepTemp {
		defer func() {
			if err := os.Remove(temp); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Printf("could not remove %s: %v", temp, err)
			}
		}()
	}

	logger.Printf("running %s %s -o %s", compiler, temp, inv.Output)

	cmd := exec.Command(compiler, temp, "-o", inv.Output)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Error{Message: "Compilation failed: " + stderr.String(), Err: err}
		}
		return &Error{Message: fmt.Sprintf("Failed to execute %s: %v", compiler, err), Err: err}
	}

	return nil
}
