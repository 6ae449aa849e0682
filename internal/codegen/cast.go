package codegen

import (
	"strings"

	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
)

// genCast implements §4.3.1's implicit/explicit conversions: Src2 carries
// "target<-source" type suffixes (e.g. "float<-int"), and either side
// going through float routes the conversion through the x87 stack
// (§4.5.2); a pure-integer cast is a plain 4-byte movl load and movl
// store, with no sign or zero extension and no truncation to the target
// width (a bool target is the one exception: it is normalised to 0/1).
func (g *Generator) genCast(in tac.Instr) {
	parts := strings.SplitN(in.Src2, "<-", 2)
	if len(parts) != 2 {
		return
	}
	target, source := parts[0], parts[1]

	if target == "float" && source != "float" {
		g.emit(g.intToFloat(in.Src1, in.Dst)...)
		return
	}
	if target != "float" && source == "float" {
		g.emit(g.floatToInt(in.Src1, in.Dst)...)
		return
	}
	if target == "float" && source == "float" {
		g.emit(g.floatLoad(in.Src1)...)
		g.emit(g.floatStore(in.Dst)...)
		return
	}

	// integer-family-to-integer-family: every operand lives in its own
	// 4-byte-rounded slot (§4.4), so the value is copied as a whole word;
	// a char or short target keeps whatever upper bits the source word
	// had. Only a bool target is rewritten, to 0/1 via setne.
	reg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)
	if target == "bool" {
		g.emit(asm.Op("cmpl", "$0", string(reg)))
		low, lowOk := reg.Low8()
		dstReg := reg
		if !lowOk {
			dstReg, low, _ = g.regs.requestLow8()
		}
		g.emit(asm.Op("setne", low))
		g.emit(asm.Op("movzbl", low, string(dstReg)))
		reg = dstReg
	}
	mem, mprep := g.resolveAddress(in.Dst)
	g.emit(mprep...)
	g.emit(asm.Op("movl", string(reg), mem))
}
