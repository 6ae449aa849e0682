package codegen

import (
	"fmt"

	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
	"github.com/namangup/Group-10-CS335-Project/pkg/symtab"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
)

// genPush implements the argument-push pseudo-ops of §4.3.1/§4.5.2:
// plain `param`, and the builtin-specific `printf_push_*`/
// `math_func_push_*`/`pow_func_push_*` variants, each contributing to the
// in-flight call's cleanup byte count (tracked in g.pushBytes).
func (g *Generator) genPush(in tac.Instr) {
	switch in.Op {
	case "printf_push_float":
		g.pushFloatAsDouble(in.Dst)
	case "printf_push_char":
		g.pushPromotedByte(in.Dst)
	default: // param, math_func_push_*, pow_func_push_*
		g.pushWord(in.Dst)
	}
}

// pushWord pushes a plain 4-byte value, loading through a register first
// when the operand needs indirection (§4.5.1).
func (g *Generator) pushWord(raw string) {
	if isImmediate(raw) {
		g.emit(asm.Op("pushl", raw))
		g.pushBytes += 4
		return
	}
	mem, prep := g.resolveValue(raw)
	g.emit(prep...)
	g.emit(asm.Op("pushl", mem))
	g.pushBytes += 4
}

// pushFloatAsDouble implements the variadic promotion `printf`/`scanf`
// require for `%f`: a float argument is widened to double on the stack
// (§4.3.1's printf_push_float), even though this compiler otherwise keeps
// every float value single-precision in memory.
func (g *Generator) pushFloatAsDouble(raw string) {
	g.emit(g.floatLoad(raw)...)
	g.emit(asm.Op("subl", "$8", "%esp"))
	g.emit(asm.Op("fstpl", "(%esp)"))
	g.pushBytes += 8
}

// pushPromotedByte implements the variadic promotion of a char argument
// to int (§4.3.1's printf_push_char): zero-extend through a register
// rather than trusting the upper bytes of the value's 4-byte slot, since
// a byte-sized value is only ever guaranteed correct in its low 8 bits.
func (g *Generator) pushPromotedByte(raw string) {
	reg, prep := g.loadIntValue(raw)
	g.emit(prep...)
	low, ok := reg.Low8()
	dstReg := reg
	if !ok {
		dstReg, low, _ = g.regs.requestLow8()
		g.emit(asm.Op("movl", string(reg), string(dstReg)))
	}
	g.emit(asm.Op("movzbl", low, string(dstReg)))
	g.emit(asm.Op("pushl", string(dstReg)))
	g.pushBytes += 4
}

// genCall implements §4.3.1 "Function call": emit the call, then clean up
// the arguments the caller pushed (cdecl, §4.5.3), and route a scalar
// result into the temp's slot (int results arrive in %eax; float results
// arrive on the x87 stack and are stored down immediately since this
// generator never keeps a value live in the FPU across instructions).
func (g *Generator) genCall(in tac.Instr) {
	g.emit(asm.Op("call", in.Src1))
	if g.pushBytes > 0 {
		g.emit(asm.Op("addl", fmtDollar(g.pushBytes), "%esp"))
		g.pushBytes = 0
	}
	if in.Dst == "" {
		return
	}
	if e, ok := g.sym.Lookup(in.Src1); ok && e.Kind == symtab.KindFunction && e.ReturnType.IsFloat() {
		g.emit(g.floatStore(in.Dst)...)
		return
	}
	mem, prep := g.resolveAddress(in.Dst)
	g.emit(prep...)
	g.emit(asm.Op("movl", "%eax", mem))
}

func fmtDollar(n int) string {
	return "$" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// genReturn implements a scalar `retq`: the value is moved into %eax, or
// loaded onto the x87 stack for a float-returning function, immediately
// before the epilogue (§4.5.3's "a function's return sequence is its
// value move followed immediately by its fixed epilogue").
func (g *Generator) genReturn(in tac.Instr) {
	if g.retType.IsFloat() {
		g.emit(g.floatLoad(in.Dst)...)
	} else {
		reg, prep := g.loadIntValue(in.Dst)
		g.emit(prep...)
		if reg != asm.EAX {
			g.emit(asm.Op("movl", string(reg), "%eax"))
		}
	}
	g.emit(g.epilogue()...)
}

// genReturnStruct implements §4.3.2's struct return: the callee copies
// its local struct value field-by-field into storage pointed to by the
// hidden pointer parameter at in.Src1 (always "8(%ebp)" — the translator
// always opens a struct-returning function's parameter scope at +12,
// reserving +8 for this pointer, §4.4), then leaves that same pointer in
// %eax per the cdecl struct-return ABI before the epilogue.
func (g *Generator) genReturnStruct(in tac.Instr) {
	destReg, prep := g.loadIntValue(in.Src1)
	g.emit(prep...)

	if def, ok := g.sym.LookupStruct(g.retType.StructName); ok {
		g.copyStructFields(in.Dst, destReg, def, 0)
	}

	if destReg != asm.EAX {
		g.emit(asm.Op("movl", string(destReg), "%eax"))
	}
	g.emit(g.epilogue()...)
}

// copyStructFields walks def's fields, copying each scalar field from the
// source storage (denoted flat, base+extraOffset) into destBase+field
// offset, recursing into nested struct fields (mirrors
// internal/translate's emitStructCopy, replayed here since a struct
// return never goes through the scalar =_struct opcode).
func (g *Generator) copyStructFields(srcBase string, destBase asm.Reg, def *symtab.StructDef, extraOffset int) {
	for _, f := range def.Fields.Ordered() {
		srcOperand := fmt.Sprintf("%s+%d", srcBase, f.Offset+extraOffset)
		if f.Type.IsStruct() {
			if nested, ok := g.sym.LookupStruct(f.Type.StructName); ok {
				g.copyStructFields(srcBase, destBase, nested, f.Offset+extraOffset)
			}
			continue
		}
		size := ctype.Size(f.Type, g.sym.StructSizer())
		g.copyScalar(srcOperand, destBase, f.Offset+extraOffset, size)
	}
}

// copyScalar moves a size-byte value from srcOperand into destBase+offset.
func (g *Generator) copyScalar(srcOperand string, destBase asm.Reg, offset, size int) {
	mem, prep := g.resolveValue(srcOperand)
	g.emit(prep...)
	reg, _ := g.regs.requestAny()
	g.emit(asm.Op("movl", mem, string(reg)))
	dst := fmt.Sprintf("%d(%s)", offset, destBase)
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
