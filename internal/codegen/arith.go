package codegen

import (
	"strings"

	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
)

// opAndSuffix splits a TAC opcode like "+_int" or "UNARY-_float" into its
// mnemonic and type-suffix halves.
func opAndSuffix(op string) (mnemonic, suffix string) {
	idx := strings.LastIndex(op, "_")
	if idx < 0 {
		return op, ""
	}
	return op[:idx], op[idx+1:]
}

// genBinary implements the arithmetic/bitwise/shift family of §4.5.2:
// `+ - * / % & | ^ << >> <pointer +/->`, each carrying its result type as
// a suffix on the opcode.
func (g *Generator) genBinary(op string, in tac.Instr) {
	mnemonic, suffix := opAndSuffix(op)
	if suffix == "float" {
		g.emit(g.floatBinOp(floatMnemonicFor(mnemonic), in.Src1, in.Src2, in.Dst)...)
		return
	}

	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)

	switch mnemonic {
	case "+":
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("addl", rhs, string(reg)))
	case "-":
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("subl", rhs, string(reg)))
	case "*":
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("imull", rhs, string(reg)))
	case "/", "%":
		g.genDivMod(mnemonic, reg, in.Src2, in.Dst)
		return
	case "&":
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("andl", rhs, string(reg)))
	case "|":
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("orl", rhs, string(reg)))
	case "^":
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("xorl", rhs, string(reg)))
	case "<<", ">>":
		g.genShift(mnemonic, reg, in.Src2, suffix)
	default:
		rhs, rprep := g.resolveValue(in.Src2)
		g.emit(rprep...)
		g.emit(asm.Op("addl", rhs, string(reg)))
	}

	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(reg), mem))
}

// genDivMod implements integer `/` and `%` via idivl, which fixes its
// operands to edx:eax/eax (§4.5.2): the dividend must already be in eax,
// edx is sign-extended from it, and the quotient/remainder land in
// eax/edx respectively regardless of which free registers were holding
// the operands a moment ago.
func (g *Generator) genDivMod(mnemonic string, numerator asm.Reg, divisorRaw, dst string) {
	if numerator != asm.EAX {
		// Only the numerator is occupied this early in the instruction
		// (§4.5.1's per-instruction reset), so eax is always still free
		// here — request it outright rather than handle a swap that can't
		// occur under that invariant.
		g.regs.requestSpecific(asm.EAX)
		g.emit(asm.Op("movl", string(numerator), string(asm.EAX)))
	}
	g.regs.requestSpecific(asm.EDX)
	divisorMem, prep := g.resolveValue(divisorRaw)
	// idivl cannot take an immediate operand; stage it through a scratch
	// register when the divisor is a literal.
	if isImmediate(divisorRaw) {
		scratch, ok := g.regs.requestAny()
		if !ok {
			scratch = asm.ECX
		}
		g.emit(prep...)
		g.emit(asm.Op("movl", divisorMem, string(scratch)))
		divisorMem = string(scratch)
	} else {
		g.emit(prep...)
	}
	g.emit(asm.Op("cltd"))
	g.emit(asm.Op("idivl", divisorMem))
	result := asm.EAX
	if mnemonic == "%" {
		result = asm.EDX
	}
	mem, mprep := g.resolveAddress(dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(result), mem))
}

// genShift implements `<<`/`>>`, which fix their count operand to %cl
// (§4.5.2).
func (g *Generator) genShift(mnemonic string, value asm.Reg, countRaw, suffix string) {
	mnemonic2 := "sall"
	if mnemonic == ">>" {
		mnemonic2 = "sarl"
	}
	if isImmediate(countRaw) {
		g.emit(asm.Op(mnemonic2, countRaw, string(value)))
		return
	}
	// Same reasoning as genDivMod: value is the only register occupied so
	// far, so ecx is free unless value itself is ecx.
	if value != asm.ECX {
		g.regs.requestSpecific(asm.ECX)
	}
	countMem, prep := g.resolveValue(countRaw)
	g.emit(prep...)
	g.emit(asm.Op("movl", countMem, string(asm.ECX)))
	g.emit(asm.Op(mnemonic2, "%cl", string(value)))
}

func floatMnemonicFor(mnemonic string) string {
	switch mnemonic {
	case "+":
		return "fadds"
	case "-":
		return "fsubs"
	case "*":
		return "fmuls"
	case "/":
		return "fdivs"
	}
	return "fadds"
}

// genUnary implements §4.3.1's `UNARY+/-/~/!` family.
func (g *Generator) genUnary(op string, in tac.Instr) {
	mnemonic, suffix := opAndSuffix(strings.TrimPrefix(op, "UNARY"))
	if suffix == "float" {
		if mnemonic == "-" {
			g.emit(g.floatUnaryNegate(in.Src1, in.Dst)...)
			return
		}
		// unary + on a float is a no-op copy.
		g.emit(g.floatLoad(in.Src1)...)
		g.emit(g.floatStore(in.Dst)...)
		return
	}

	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)
	switch mnemonic {
	case "-":
		g.emit(asm.Op("negl", string(reg)))
	case "~":
		g.emit(asm.Op("notl", string(reg)))
	case "!":
		g.emit(asm.Op("cmpl", "$0", string(reg)))
		low, lowOk := reg.Low8()
		dstReg := reg
		if !lowOk {
			dstReg, low, _ = g.regs.requestLow8()
		}
		g.emit(asm.Op("sete", low))
		g.emit(asm.Op("movzbl", low, string(dstReg)))
		reg = dstReg
	}
	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(reg), mem))
}

// genComparison implements §4.3.1 "Comparison": dst gets a 0/1 int result.
func (g *Generator) genComparison(op string, in tac.Instr) {
	mnemonic, suffix := opAndSuffix(op)
	if suffix == "float" {
		g.emit(g.floatCompare(floatSetccFor(mnemonic), in.Src1, in.Src2, in.Dst)...)
		return
	}
	if suffix == "char" {
		g.genComparisonByte(mnemonic, in)
		return
	}

	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)
	rhs, rprep := g.resolveValue(in.Src2)
	g.emit(rprep...)
	g.emit(asm.Op("cmpl", rhs, string(reg)))

	low, lowOk := reg.Low8()
	dstReg := reg
	if !lowOk {
		dstReg, low, _ = g.regs.requestLow8()
	}
	g.emit(asm.Op(intSetccFor(mnemonic), low))
	g.emit(asm.Op("movzbl", low, string(dstReg)))

	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(dstReg), mem))
}

// genComparisonByte implements the `char`-suffixed comparison (§4.3.1's
// boundary behavior #3, spec.md:207): char-to-char comparisons use 8-bit
// `cmpb` directly rather than widening to `cmpl`, mirroring genAssignByte's
// movzbl-through-the-low-byte pattern.
func (g *Generator) genComparisonByte(mnemonic string, in tac.Instr) {
	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)
	rhs, rprep := g.resolveValue(in.Src2)
	g.emit(rprep...)

	low, lowOk := reg.Low8()
	dstReg := reg
	if !lowOk {
		dstReg, low, _ = g.regs.requestLow8()
		g.emit(asm.Op("movl", string(reg), string(dstReg)))
	}
	g.emit(asm.Op("cmpb", rhs, low))
	g.emit(asm.Op(intSetccFor(mnemonic), low))
	g.emit(asm.Op("movzbl", low, string(dstReg)))

	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(dstReg), mem))
}

func intSetccFor(mnemonic string) string {
	switch mnemonic {
	case "==":
		return "sete"
	case "!=":
		return "setne"
	case "<":
		return "setl"
	case "<=":
		return "setle"
	case ">":
		return "setg"
	case ">=":
		return "setge"
	}
	return "sete"
}
