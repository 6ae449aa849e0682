// Package asm represents 32-bit x86 AT&T-syntax assembly (§4.5/§6):
// the instruction AST the code generator builds, kept as its own package
// the way the teacher keeps assembly representation (pkg/asm) separate
// from the lowering transform that produces it, even though that lowering
// now targets x86 rather than ARM64.
package asm

// Reg is one of the fixed register-file registers (§4.5.1).
type Reg string

const (
	EAX Reg = "%eax"
	EBX Reg = "%ebx"
	ECX Reg = "%ecx"
	EDX Reg = "%edx"
	ESI Reg = "%esi"
	EDI Reg = "%edi"
	EBP Reg = "%ebp"
	ESP Reg = "%esp"
)

// Low8 returns the 8-bit low-half name of a register that has one (§4.5.1:
// "8-bit byte destinations require the low-half of eax/ebx/ecx/edx").
func (r Reg) Low8() (string, bool) {
	switch r {
	case EAX:
		return "%al", true
	case EBX:
		return "%bl", true
	case ECX:
		return "%cl", true
	case EDX:
		return "%dl", true
	}
	return "", false
}

// Insn is one assembly line: a mnemonic plus its AT&T-ordered operand
// list (source(s) first, destination last), or a bare label/directive.
type Insn struct {
	Label    string // if non-empty and Mnemonic == "", this is a label-only line
	Mnemonic string
	Operands []string
	Comment  string
}

// Lbl returns a no-op label-only instruction.
func Lbl(name string) Insn { return Insn{Label: name} }

// Op builds a plain instruction.
func Op(mnemonic string, operands ...string) Insn {
	return Insn{Mnemonic: mnemonic, Operands: operands}
}

// Function is one emitted function: its label, prologue-adjusted body,
// and whether it is the program entry point (§4.5.3).
type Function struct {
	Name   string
	Global bool
	Body   []Insn
}

// DataItem is one `.data`/`.rodata`/`.bss` entry: a global variable via
// `.comm`, or a literal pool slot via `.LC<n>:`/`.LF<n>:` (§6).
type DataItem struct {
	Label string
	// Comm marks a `.comm name, size, align` uninitialized global.
	Comm  bool
	Size  int
	Align int
	// StringVal/FloatBits: exactly one set, for literal pool entries.
	IsString  bool
	StringVal string
	IsFloat   bool
	FloatBits uint32
}

// Program is the whole translation unit's assembly output (§6): globals
// plus literal pools in `.data`, functions in `.text`.
type Program struct {
	Data      []DataItem
	Functions []Function
}
