// Package diag implements the error-kind catalog and rendering of spec §7:
// line/column-prefixed human messages, with the offending source span
// underlined the way original_source/src/parser.py's p_error does with its
// bcolors ANSI escapes — rendered here through github.com/fatih/color and
// gated on terminal support with github.com/mattn/go-isatty, instead of
// hand-rolled escape sequences.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ShouldColor reports whether f looks like a color-capable terminal,
// matching the CLI's default (color on for a TTY, off when piped) unless
// overridden by --no-color.
func ShouldColor(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Kind classifies a diagnostic per §7's taxonomy. The kind is informational
// only (messages are not dispatched on it downstream) — it exists so
// callers and tests can assert "this failed for a lexical reason" without
// string-matching the message.
type Kind int

const (
	KindLexical Kind = iota
	KindSyntactic
	KindDeclaration
	KindExpression
	KindStatement
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntax"
	case KindDeclaration:
		return "declaration"
	case KindExpression:
		return "expression"
	case KindStatement:
		return "statement"
	case KindInternal:
		return "internal"
	default:
		return "error"
	}
}

// Diagnostic is one reported error (§7): a kind, a human message, the
// source position, and — for syntactic errors — the offending line and the
// column span to underline.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	Column  int

	// SourceLine and SpanLen are optional: when SourceLine is non-empty the
	// renderer prints it with the [Column, Column+SpanLen) span underlined,
	// mirroring parser.py's excerpt-plus-underline.
	SourceLine string
	SpanLen    int
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s error: %s", d.Line, d.Column, d.Kind, d.Message)
}

// New builds a plain Diagnostic with no source excerpt (declaration/
// expression/statement errors, which §7 does not ask to be underlined).
func New(kind Kind, line, col int, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}

// NewWithSpan builds a Diagnostic carrying a source excerpt and underline
// span, used for syntactic errors (§7: "unexpected token with source-line
// excerpt and underlined span").
func NewWithSpan(kind Kind, line, col int, sourceLine string, spanLen int, format string, args ...any) *Diagnostic {
	d := New(kind, line, col, format, args...)
	d.SourceLine = sourceLine
	d.SpanLen = spanLen
	return d
}

// Bag accumulates diagnostics across a translation run (§4.3's "error
// flag"/"accumulate errors" propagation policy) instead of stopping at the
// first one.
type Bag struct {
	diags []*Diagnostic
}

// Add records a diagnostic and trips the error flag.
func (b *Bag) Add(d *Diagnostic) { b.diags = append(b.diags, d) }

// HasErrors reports whether any diagnostic has been recorded — the §4.3/§7
// "error flag" that suppresses code generation when set.
func (b *Bag) HasErrors() bool { return len(b.diags) > 0 }

// All returns the accumulated diagnostics in report order.
func (b *Bag) All() []*Diagnostic { return b.diags }

// Renderer writes diagnostics to an io.Writer with ANSI coloring gated by
// NoColor — red for the error prefix, yellow-underlined for the offending
// span (§6: "red for errors, yellow underline for offending span").
type Renderer struct {
	w         io.Writer
	NoColor   bool
	errColor  *color.Color
	spanColor *color.Color
	boldColor *color.Color
}

// NewRenderer builds a Renderer writing to w. noColor forces plain text
// (wired to the CLI's --no-color flag and to a non-TTY stderr detected via
// go-isatty at the call site).
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	return &Renderer{
		w:         w,
		NoColor:   noColor,
		errColor:  color.New(color.FgRed, color.Bold),
		spanColor: color.New(color.FgYellow, color.Underline),
		boldColor: color.New(color.Bold),
	}
}

// Render writes one diagnostic in the §7 line/col-prefixed form, with an
// underlined source excerpt when the diagnostic carries one.
func (r *Renderer) Render(d *Diagnostic) {
	if r.NoColor {
		fmt.Fprintf(r.w, "%d:%d: %s error: %s\n", d.Line, d.Column, d.Kind, d.Message)
	} else {
		r.boldColor.Fprintf(r.w, "%d:%d: ", d.Line, d.Column)
		r.errColor.Fprintf(r.w, "%s error: ", d.Kind)
		fmt.Fprintln(r.w, d.Message)
	}
	if d.SourceLine == "" {
		return
	}
	fmt.Fprintf(r.w, "    %d | %s\n", d.Line, d.SourceLine)
	pad := fmt.Sprintf("    %s | %s", spaces(len(fmt.Sprintf("%d", d.Line))), spaces(d.Column-1))
	underline := repeatStr('^', max(d.SpanLen, 1))
	if r.NoColor {
		fmt.Fprintf(r.w, "%s%s\n", pad, underline)
	} else {
		fmt.Fprint(r.w, pad)
		r.spanColor.Fprintln(r.w, underline)
	}
}

// RenderAll renders every diagnostic in the bag, in order.
func (r *Renderer) RenderAll(b *Bag) {
	for _, d := range b.diags {
		r.Render(d)
	}
}

func spaces(n int) string { return repeatStr(' ', n) }

func repeatStr(c byte, n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = c
	}
	return string(buf)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
