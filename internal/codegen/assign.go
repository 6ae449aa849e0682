package codegen

import (
	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
)

// low16For returns the 16-bit name of one of the six general registers
// (every one of them has a 16-bit half, unlike the 8-bit low-byte
// registers Reg.Low8 restricts to eax/ebx/ecx/edx).
func low16For(r asm.Reg) string {
	switch r {
	case asm.EAX:
		return "%ax"
	case asm.EBX:
		return "%bx"
	case asm.ECX:
		return "%cx"
	case asm.EDX:
		return "%dx"
	case asm.ESI:
		return "%si"
	case asm.EDI:
		return "%di"
	}
	return "%ax"
}

// genAssignWord implements a plain `=_int`/`=_ptr`/`=_short`-shaped scalar
// assignment: load the source value, store it into dst's slot untouched.
func (g *Generator) genAssignWord(in tac.Instr) {
	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)
	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(reg), mem))
}

// genAssignByte implements `=_char` (bool assignments are emitted as
// `=_int` and go through genAssignWord): the value is zero-extended
// through a register before the store, so a char-typed slot's full 4
// reserved bytes (§4.4's slot-rounding) always hold a clean value rather
// than 3 stale upper bytes — needed so a later raw 4-byte read of the same
// slot (a cast, a promoted printf argument) sees a correct value.
func (g *Generator) genAssignByte(in tac.Instr) {
	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)
	low, ok := reg.Low8()
	dstReg := reg
	if !ok {
		dstReg, low, _ = g.regs.requestLow8()
		g.emit(asm.Op("movl", string(reg), string(dstReg)))
	}
	g.emit(asm.Op("movzbl", low, string(dstReg)))
	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(dstReg), mem))
}

// genAddrOf implements `UNARY&`: in.Src1 is always an operand denoting
// storage directly (resolveAddress never needs a register for it unless
// it's itself a pointer dereference), so this computes that address with
// `leal` rather than loading a value.
func (g *Generator) genAddrOf(in tac.Instr) {
	mem, prep := g.resolveAddress(in.Src1)
	g.emit(prep...)
	reg, ok := g.regs.requestAny()
	if !ok {
		reg = asm.EAX
	}
	g.emit(asm.Op("leal", mem, string(reg)))
	dst, dprep := g.resolveAddress(in.Dst)
	g.emit(dprep...)
	g.emit(asm.Op("movl", string(reg), dst))
}

// genStructCopy implements the scalar leaf of a struct copy (§4.3.1's
// emitStructCopy expansion): in.Src2 carries the field's byte width so a
// narrow field doesn't corrupt an adjacent one.
func (g *Generator) genStructCopy(in tac.Instr) {
	size := 4
	switch in.Src2 {
	case "1":
		size = 1
	case "2":
		size = 2
	}
	mem, prep := g.resolveValue(in.Src1)
	g.emit(prep...)
	reg, _ := g.regs.requestAny()
	g.emit(asm.Op("movl", mem, string(reg)))

	dst, dprep := g.resolveAddress(in.Dst)
	g.emit(dprep...)
	switch size {
	case 1:
		low, ok := reg.Low8()
		dstReg := reg
		if !ok {
			dstReg, low, _ = g.regs.requestLow8()
			g.emit(asm.Op("movl", string(reg), string(dstReg)))
		}
		g.emit(asm.Op("movb", low, dst))
	case 2:
		g.emit(asm.Op("movw", low16For(reg), dst))
	default:
		g.emit(asm.Op("movl", string(reg), dst))
	}
}
