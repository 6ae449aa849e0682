package codegen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/namangup/Group-10-CS335-Project/pkg/asm"
)

var ebpRelRe = regexp.MustCompile(`^(-?\d+)\(%ebp\)$`)
var tempNameRe = regexp.MustCompile(`^t\d+$`)

// isImmediate reports whether raw is already a literal source operand
// (an integer constant or the address of a pool entry), never a storage
// location.
func isImmediate(raw string) bool { return strings.HasPrefix(raw, "$") }

// splitTrailingOffset peels one "+N" suffix off s, used to unwind the
// flattened addressing strings built by struct-field access and
// struct-copy expansion (§4.3.1/§4.4): "base+4+8" peels to ("base+4", 8).
func splitTrailingOffset(s string) (base string, offset int, ok bool) {
	idx := strings.LastIndex(s, "+")
	if idx < 0 {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return s, 0, false
	}
	return s[:idx], n, true
}

func isParenWrapped(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return true
}

// tempSlot lazily assigns the current function's next free 4-byte-aligned
// stack slot to a temp name the first time it's referenced, mirroring the
// frame layout of an ordinary local (§4.5.1's "spill every temp between
// instructions" simplification of the free-stack allocator, recorded in
// DESIGN.md).
func (g *Generator) tempSlot(name string) int {
	if off, ok := g.slots[name]; ok {
		return off
	}
	g.nextSlot -= 4
	g.slots[name] = g.nextSlot
	return g.nextSlot
}

// resolveAddress turns any TAC operand string into a valid x86 memory
// operand (or symbol+offset text), plus any instructions needed to
// materialize a register-held base for a genuine pointer indirection.
// Flat operands (frame slots, temps, and global names) resolve to a
// storage location directly; a parenthesized operand denotes indirection
// through the *value* currently held at its inner operand and requires
// loading that value into a scratch register first (§4.3.1 deref/
// subscript/`->`).
func (g *Generator) resolveAddress(raw string) (string, []asm.Insn) {
	total := 0
	s := raw
	for {
		b, off, ok := splitTrailingOffset(s)
		if !ok {
			break
		}
		total += off
		s = b
	}

	if isParenWrapped(s) {
		inner := s[1 : len(s)-1]
		reg, prep := g.loadIntValue(inner)
		if total != 0 {
			return fmt.Sprintf("%d(%s)", total, reg), prep
		}
		return fmt.Sprintf("(%s)", reg), prep
	}

	if m := ebpRelRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%d(%%ebp)", n+total), nil
	}
	if tempNameRe.MatchString(s) {
		off := g.tempSlot(s)
		return fmt.Sprintf("%d(%%ebp)", off+total), nil
	}
	if total != 0 {
		return fmt.Sprintf("%s+%d", s, total), nil
	}
	return s, nil
}

// resolveValue returns an operand text usable directly as an instruction's
// source (an immediate, or a resolved memory operand) plus any prep
// instructions resolving it required.
func (g *Generator) resolveValue(raw string) (string, []asm.Insn) {
	if isImmediate(raw) {
		return raw, nil
	}
	return g.resolveAddress(raw)
}

// loadIntValue loads raw's integer/pointer-typed value into a freshly
// requested scratch register.
func (g *Generator) loadIntValue(raw string) (asm.Reg, []asm.Insn) {
	reg, _ := g.regs.requestAny()
	operand, prep := g.resolveValue(raw)
	prep = append(prep, asm.Op("movl", operand, string(reg)))
	g.regs.bind(raw, reg)
	return reg, prep
}

// label lazily materializes a stable ".L<n>" name for a TAC instruction
// index the first time it's referenced as a jump target (§4.5.4).
func (g *Generator) label(idx int) string {
	if name, ok := g.labels[idx]; ok {
		return name
	}
	name := fmt.Sprintf(".L%d", len(g.labels))
	g.labels[idx] = name
	return name
}

// stripDollar removes a leading "$" (an immediate/address marker) so a
// label operand can be used as a direct memory reference (flds, lea-less
// string address loads, ...).
func stripDollar(s string) string { return strings.TrimPrefix(s, "$") }
