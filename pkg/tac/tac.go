// Package tac implements the three-address code intermediate
// representation of spec §3/§8: an append-only instruction buffer with
// stable indices, backpatch lists for deferred jump targets, temp/label
// generators, and literal pools for strings and floats.
package tac

import (
	"fmt"
	"math"
)

// Op is a TAC opcode mnemonic. Arithmetic/comparison/cast opcodes carry
// their operand type in the mnemonic itself (§4.5.2), e.g. "+_int",
// "<=_float"; control-flow and declaration opcodes are fixed strings.
type Op string

const (
	OpAssign      Op = "=" // suffixed with _<type> at emit time
	OpIfNZGoto    Op = "ifnz_goto"
	OpGoto        Op = "goto"
	OpLoadFloat   Op = "load_float"
	OpCast        Op = "cast"
	OpParam       Op = "param"
	OpCall        Op = "call"
	OpReturn      Op = "retq"
	OpReturnVoid  Op = "retq_void"
	OpReturnStruc Op = "retq_struct"
	OpLabel       Op = "label" // no-op marker, materialized at print time
	OpPushScope   Op = "PushScope"
	OpStructCopy  Op = "=_struct"
)

// Instr is one TAC instruction: 2–4 fields per spec §3. Unused operand
// slots are the empty string.
type Instr struct {
	Op   Op
	Dst  string
	Src1 string
	Src2 string

	// Target is the jump-target instruction index for control-flow ops;
	// -1 means "not yet backpatched" (spec §8: no emitted jump should
	// retain -1 past end of translation).
	Target int
}

// List is a pending-list of instruction indices awaiting backpatch
// (true_list, false_list, next_list, break_list, continue_list — §3).
type List []int

// Merge concatenates pending-lists, used wherever the spec writes a union
// of lists (e.g. `false_list(result) = E1.false_list ∪ E2.false_list`).
func Merge(lists ...List) List {
	var out List
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Buffer is the growable TAC instruction array plus its literal pools and
// name generators — the translator's single IR handoff object (§2).
type Buffer struct {
	instrs    []Instr
	tempNum   int
	labelNum  int
	strPool   []string
	floatPool []uint32 // IEEE-754 bit patterns, little-endian per §3
}

// NewBuffer creates an empty TAC buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Next returns the index the next emitted instruction will occupy —
// exactly the "quadruples" marker captured at grammar marker points (§3).
func (b *Buffer) Next() int { return len(b.instrs) }

// Emit appends an instruction and returns its index.
func (b *Buffer) Emit(op Op, dst, src1, src2 string) int {
	b.instrs = append(b.instrs, Instr{Op: op, Dst: dst, Src1: src1, Src2: src2, Target: -1})
	return b.Next() - 1
}

// EmitJump appends a jump-class instruction (goto / ifnz_goto) with an
// unresolved target and returns its index, ready to be placed into a
// pending-list for later Backpatch.
func (b *Buffer) EmitJump(op Op, dst string) int {
	idx := len(b.instrs)
	b.instrs = append(b.instrs, Instr{Op: op, Dst: dst, Target: -1})
	return idx
}

// At returns the instruction at idx (for inspection/testing).
func (b *Buffer) At(idx int) Instr { return b.instrs[idx] }

// Len returns the number of emitted instructions.
func (b *Buffer) Len() int { return len(b.instrs) }

// All returns the full instruction slice (read-only use by codegen).
func (b *Buffer) All() []Instr { return b.instrs }

// Backpatch resolves every index in list to target (§3's backpatch
// protocol, glossary entry "Backpatch").
func (b *Buffer) Backpatch(list List, target int) {
	for _, idx := range list {
		b.instrs[idx].Target = target
	}
}

// NewTemp allocates a fresh temporary name ("t0", "t1", ...).
func (b *Buffer) NewTemp() string {
	name := fmt.Sprintf("t%d", b.tempNum)
	b.tempNum++
	return name
}

// NewLabel allocates a fresh symbolic label name (materialized lazily by
// the printer/codegen as ".L<n>" at first reference, §4.5.4).
func (b *Buffer) NewLabel() string {
	name := fmt.Sprintf(".L%d", b.labelNum)
	b.labelNum++
	return name
}

// InternString appends s to the string literal pool and returns its
// ".LC<n>" label (§3 "Literal pools"). No deduplication, matching
// original_source/src/three_address_code.py.
func (b *Buffer) InternString(s string) string {
	idx := len(b.strPool)
	b.strPool = append(b.strPool, s)
	return fmt.Sprintf(".LC%d", idx)
}

// InternFloat appends f's IEEE-754 bit pattern to the float literal pool
// and returns its ".LF<n>" label.
func (b *Buffer) InternFloat(f float64) string {
	idx := len(b.floatPool)
	b.floatPool = append(b.floatPool, math.Float32bits(float32(f)))
	return fmt.Sprintf(".LF%d", idx)
}

// StringPool / FloatPool expose the pools for the code generator's
// .data/.rodata emission.
func (b *Buffer) StringPool() []string   { return b.strPool }
func (b *Buffer) FloatPool() []uint32    { return b.floatPool }

// NoEmptyJumpTargets reports whether every jump-class instruction has a
// resolved (non-negative) target — the §8 invariant checked after the
// post-parse backpatch pass completes.
func (b *Buffer) NoEmptyJumpTargets() bool {
	for _, in := range b.instrs {
		if (in.Op == OpGoto || in.Op == OpIfNZGoto) && in.Target < 0 {
			return false
		}
	}
	return true
}
