package asm

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintProgramEmitsGlobalAndType(t *testing.T) {
	prog := &Program{
		Functions: []Function{
			{Name: "main", Global: true, Body: []Insn{
				Op("pushl", "%ebp"),
				Op("movl", "%esp", "%ebp"),
				Op("movl", "$0", "%eax"),
				Op("movl", "%ebp", "%esp"),
				Op("popl", "%ebp"),
				Op("ret"),
			}},
		},
	}
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)
	out := buf.String()
	for _, want := range []string{".globl\tmain", ".type\tmain, @function", "main:", "ret"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintDataCommAndLiteralPools(t *testing.T) {
	prog := &Program{
		Data: []DataItem{
			{Label: "g", Comm: true, Size: 4, Align: 4},
			{Label: ".LC0", IsString: true, StringVal: "hi"},
			{Label: ".LF0", IsFloat: true, FloatBits: 0x3f800000},
		},
	}
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(prog)
	out := buf.String()
	for _, want := range []string{".comm\tg,4,4", ".LC0:", ".string\t\"hi\"", ".LF0:", ".long\t1065353216"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintInsnWithComment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printInsn(Insn{Mnemonic: "addl", Operands: []string{"%ebx", "%eax"}, Comment: "a+b"})
	if !strings.Contains(buf.String(), "# a+b") {
		t.Fatalf("expected comment in output, got %q", buf.String())
	}
}
