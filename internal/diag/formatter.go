package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter renders diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	out         io.Writer
	sourceCache map[string]string // Cache of source files by filename
}

// NewFormatter creates a formatter writing to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:         out,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers in-memory source text for filename, so snippets can be
// shown for input that never touched the disk (the REPL, tests).
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return "", os.ErrNotExist
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// FormatAll renders every diagnostic in order, separated by blank lines.
func (f *Formatter) FormatAll(list List) {
	for i, d := range list {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.Format(d)
	}
}

// Format renders one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	if d.Kind == KindExternalTool || !d.Span.IsValid() {
		f.printHelp(d)
		return
	}

	src, err := f.LoadSource(d.Span.Filename)
	if err != nil {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
		f.printHelp(d)
		return
	}

	f.printSnippet(src, d.Span)
	f.printHelp(d)
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

// printSnippet prints the source lines touched by span with a caret underline
// on the first one, plus one line of context on either side.
func (f *Formatter) printSnippet(src string, span Span) {
	lines := strings.Split(src, "\n")
	if span.Line > len(lines) {
		fmt.Fprintf(f.out, "  --> %s\n", span.String())
		return
	}

	contextStart := max(1, span.Line-1)
	contextEnd := min(len(lines), span.Line+1)
	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	gutter := strings.Repeat(" ", lineNumWidth)

	fmt.Fprintf(f.out, "  --> %s\n", span.String())
	fmt.Fprintf(f.out, " %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		content := strings.TrimRight(lines[lineNum-1], "\r")
		fmt.Fprintf(f.out, " %*d | %s\n", lineNumWidth, lineNum, content)
		if lineNum == span.Line {
			fmt.Fprintf(f.out, " %s | %s\n", gutter, underline(content, span))
		}
	}

	fmt.Fprintf(f.out, " %s |\n", gutter)
}

func underline(content string, span Span) string {
	col := max(0, span.Column-1)
	width := max(1, span.End-span.Start)
	// A span that continues on later lines is cut at the end of this one.
	if rest := len([]rune(content)) - col; width > rest {
		width = max(1, rest)
	}
	return strings.Repeat(" ", col) + strings.Repeat("^", width)
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}
