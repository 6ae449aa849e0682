package codegen

import (
	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
)

// floatLoad pushes raw's single-precision value onto the x87 stack. Float
// values only ever live in memory between instructions (literal pool
// entries or a temp's stack slot), never in a general register, so this
// never needs the indirection machinery resolveAddress provides for
// pointers — a float operand is always already a flat memory operand.
func (g *Generator) floatLoad(raw string) []asm.Insn {
	mem, prep := g.resolveValue(raw)
	return append(prep, asm.Op("flds", mem))
}

func (g *Generator) floatStore(dst string) []asm.Insn {
	mem, prep := g.resolveAddress(dst)
	return append(prep, asm.Op("fstps", mem))
}

// floatBinOp implements `dst = a <op> b` via the x87 stack (§4.5.2):
// load a, apply b from memory, pop the result to dst.
func (g *Generator) floatBinOp(mnemonic, a, b, dst string) []asm.Insn {
	var out []asm.Insn
	out = append(out, g.floatLoad(a)...)
	bMem, bPrep := g.resolveValue(b)
	out = append(out, bPrep...)
	out = append(out, asm.Op(mnemonic, bMem))
	out = append(out, g.floatStore(dst)...)
	return out
}

// floatCompare implements a float comparison via fucomip + set<cc>,
// leaving a 0/1 int result in dst (§4.5.2): loads b then a so st(0)=a,
// st(1)=b, matching the "left cmp right" sense fucomip needs for CF/ZF to
// read like an unsigned integer compare of (a,b).
func (g *Generator) floatCompare(setcc string, a, b, dst string) []asm.Insn {
	var out []asm.Insn
	out = append(out, g.floatLoad(b)...)
	out = append(out, g.floatLoad(a)...)
	out = append(out, asm.Op("fucomip", "%st(1)", "%st(0)"))
	out = append(out, asm.Op("fstp", "%st(0)"))
	reg, _ := g.regs.requestAny()
	low, ok := reg.Low8()
	if !ok {
		reg, low, _ = g.regs.requestLow8()
	}
	out = append(out, asm.Op(setcc, low))
	out = append(out, asm.Op("movzbl", low, string(reg)))
	mem, prep := g.resolveAddress(dst)
	out = append(out, prep...)
	out = append(out, asm.Op("movl", string(reg), mem))
	return out
}

func floatSetccFor(mnemonic string) string {
	switch mnemonic {
	case "==":
		return "sete"
	case "!=":
		return "setne"
	case "<":
		return "setb"
	case "<=":
		return "setbe"
	case ">":
		return "seta"
	case ">=":
		return "setae"
	}
	return "sete"
}

// floatUnaryNegate implements `dst = -a` for a float operand.
func (g *Generator) floatUnaryNegate(a, dst string) []asm.Insn {
	var out []asm.Insn
	out = append(out, g.floatLoad(a)...)
	out = append(out, asm.Op("fchs"))
	out = append(out, g.floatStore(dst)...)
	return out
}

// floatToInt / intToFloat implement the x87 conversion sequences a `cast`
// instruction needs when either side is floating point (§4.5.2). Rounding
// uses the FPU's default round-to-nearest mode rather than C's
// truncate-toward-zero; the FPU control word is never changed.
func (g *Generator) floatToInt(src, dst string) []asm.Insn {
	var out []asm.Insn
	out = append(out, g.floatLoad(src)...)
	mem, prep := g.resolveAddress(dst)
	out = append(out, prep...)
	out = append(out, asm.Op("fistpl", mem))
	return out
}

func (g *Generator) intToFloat(src, dst string) []asm.Insn {
	var out []asm.Insn
	mem, prep := g.resolveValue(src)
	out = append(out, prep...)
	out = append(out, asm.Op("fildl", mem))
	out = append(out, g.floatStore(dst)...)
	return out
}
