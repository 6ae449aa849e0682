package asm

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a Program as 32-bit x86 AT&T-syntax text (§6: "Assembly
// output"), matching GNU as conventions.
type Printer struct {
	w io.Writer
}

// NewPrinter creates an assembly printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram outputs the full program: `.data` (globals + literal
// pools), then `.text` with each function.
func (p *Printer) PrintProgram(prog *Program) {
	if len(prog.Data) > 0 {
		fmt.Fprintln(p.w, "\t.data")
		for _, d := range prog.Data {
			p.printData(d)
		}
		fmt.Fprintln(p.w)
	}

	fmt.Fprintln(p.w, "\t.text")
	for _, f := range prog.Functions {
		p.printFunction(f)
	}
}

func (p *Printer) printData(d DataItem) {
	switch {
	case d.Comm:
		align := d.Align
		if align == 0 {
			align = 4
		}
		fmt.Fprintf(p.w, "\t.comm\t%s,%d,%d\n", d.Label, d.Size, align)
	case d.IsString:
		fmt.Fprintf(p.w, "%s:\n\t.string\t%q\n", d.Label, d.StringVal)
	case d.IsFloat:
		fmt.Fprintf(p.w, "%s:\n\t.long\t%d\n", d.Label, d.FloatBits)
	}
}

func (p *Printer) printFunction(f Function) {
	if f.Global {
		fmt.Fprintf(p.w, "\t.globl\t%s\n", f.Name)
		fmt.Fprintf(p.w, "\t.type\t%s, @function\n", f.Name)
	}
	fmt.Fprintf(p.w, "%s:\n", f.Name)
	for _, in := range f.Body {
		p.printInsn(in)
	}
}

func (p *Printer) printInsn(in Insn) {
	if in.Mnemonic == "" {
		fmt.Fprintf(p.w, "%s:\n", in.Label)
		return
	}
	line := "\t" + in.Mnemonic
	if len(in.Operands) > 0 {
		line += "\t" + strings.Join(in.Operands, ", ")
	}
	if in.Comment != "" {
		line += "\t# " + in.Comment
	}
	fmt.Fprintln(p.w, line)
}
