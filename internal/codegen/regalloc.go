// Package codegen lowers the TAC instruction sequence (pkg/tac) to x86
// AT&T assembly (pkg/asm) per spec §4.5, reusing the teacher's separation
// of "build an instruction list, then print it" (pkg/asm's own split)
// while replacing the lowering transform itself, since the teacher's
// transform (pkg/asmgen) targets ARM64 via a multi-IR chain this compiler
// does not have.
package codegen

import "github.com/namangup/Group-10-CS335-Project/pkg/asm"

// registerFile is the fixed free-stack register allocator of §4.5.1,
// grounded directly on original_source/src/codegen.py's
// `register_stack`/`register_mapping` pair: a small list used as a stack
// of free register indices, plus a reverse mapping from the TAC operand
// currently occupying a register back to that register.
type registerFile struct {
	order    []asm.Reg // register_list
	free     []asm.Reg // register_stack, in free-list order
	occupant map[asm.Reg]string
	holder   map[string]asm.Reg
}

func newRegisterFile() *registerFile {
	order := []asm.Reg{asm.EBX, asm.EAX, asm.ECX, asm.ESI, asm.EDI, asm.EDX}
	rf := &registerFile{
		order:    order,
		occupant: make(map[asm.Reg]string),
		holder:   make(map[string]asm.Reg),
	}
	rf.free = append(rf.free, order...)
	return rf
}

// resetAll reclaims every register (§4.5.1: "Every TAC instruction starts
// by reclaiming all registers that escape it (coarse reset)").
func (rf *registerFile) resetAll() {
	rf.free = append(rf.free[:0], rf.order...)
	for k := range rf.occupant {
		delete(rf.occupant, k)
	}
	for k := range rf.holder {
		delete(rf.holder, k)
	}
}

// requestAny pops any free register.
func (rf *registerFile) requestAny() (asm.Reg, bool) {
	if len(rf.free) == 0 {
		return "", false
	}
	r := rf.free[len(rf.free)-1]
	rf.free = rf.free[:len(rf.free)-1]
	return r, true
}

// requestSpecific implements §4.5.1's swap-on-contention rule: if r is
// free, take it outright; otherwise displace its current occupant into any
// other free register (recorded as a caller-visible swap so the generator
// can emit the `movl` that keeps the displaced value live) and return r.
// Failing to find a swap target is an internal-error condition per spec
// (§4.5.1: "fail the emission ... program is small-scale") — reported here
// via the ok=false return rather than a panic, so callers can spill
// instead of miscompiling (§9's Open Question resolution).
func (rf *registerFile) requestSpecific(r asm.Reg) (swapFrom asm.Reg, swapped bool, ok bool) {
	for i, f := range rf.free {
		if f == r {
			rf.free = append(rf.free[:i], rf.free[i+1:]...)
			return "", false, true
		}
	}
	dest, any := rf.requestAny()
	if !any {
		return "", false, false
	}
	if occ, has := rf.occupant[r]; has {
		rf.occupant[dest] = occ
		rf.holder[occ] = dest
		delete(rf.occupant, r)
	}
	return dest, true, true
}

// releaseReg pushes r back onto the free stack, at the back (to) or front
// (caller's choice, matching the source's list.append/list.insert(0, ...)
// split for register reuse priority).
func (rf *registerFile) releaseReg(r asm.Reg, toFront bool) {
	if occ, has := rf.occupant[r]; has {
		delete(rf.occupant, r)
		delete(rf.holder, occ)
	}
	if toFront {
		rf.free = append([]asm.Reg{r}, rf.free...)
	} else {
		rf.free = append(rf.free, r)
	}
}

// bind records that operand now lives in r (without consuming a free
// slot — used once r has already been obtained via requestAny/Specific).
func (rf *registerFile) bind(operand string, r asm.Reg) {
	rf.occupant[r] = operand
	rf.holder[operand] = r
}

// regFor reports the register currently holding operand, if any.
func (rf *registerFile) regFor(operand string) (asm.Reg, bool) {
	r, ok := rf.holder[operand]
	return r, ok
}

// requestLow8 obtains a register with an 8-bit low half (eax/ebx/ecx/edx),
// swapping out whichever one currently occupies the front of the free
// stack if necessary — needed for `set<cc>`/byte-sized destinations that
// esi/edi cannot serve (§4.5.1).
func (rf *registerFile) requestLow8() (asm.Reg, string, bool) {
	for _, r := range []asm.Reg{asm.EAX, asm.EBX, asm.ECX, asm.EDX} {
		if swapFrom, swapped, ok := rf.requestSpecific(r); ok {
			_ = swapFrom
			_ = swapped
			low, _ := r.Low8()
			return r, low, true
		}
	}
	return "", "", false
}
