package tac

import (
	"fmt"
	"io"
)

// Renumber produces a dense 1-based instruction numbering that drops
// removed instructions — empty-target gotos and a `retq` immediately
// following another `retq` — per §6's "TAC textual form" contract, and
// rewrites every jump target through the resulting mapping. It does not
// mutate b; it returns the filtered instructions and their final 1-based
// indices for printing.
func (b *Buffer) Renumber() ([]Instr, map[int]int) {
	keep := make([]bool, len(b.instrs))
	for i, in := range b.instrs {
		switch {
		case (in.Op == OpGoto || in.Op == OpIfNZGoto) && in.Dst == "" && in.Target < 0:
			keep[i] = false
		case in.Op == OpReturn && i > 0 && b.instrs[i-1].Op == OpReturn:
			keep[i] = false
		default:
			keep[i] = true
		}
	}

	oldToNew := make(map[int]int, len(b.instrs))
	next := 1
	for i, k := range keep {
		if k {
			oldToNew[i] = next
			next++
		}
	}

	var out []Instr
	for i, in := range b.instrs {
		if !keep[i] {
			continue
		}
		if in.Op == OpGoto || in.Op == OpIfNZGoto {
			if nt, ok := oldToNew[in.Target]; ok {
				in.Target = nt
			}
		}
		out = append(out, in)
	}
	return out, oldToNew
}

// Print writes the line-oriented, space-separated textual TAC form
// (§6): each instruction is "op dst src1 src2", jump targets rendered as
// 1-based instruction numbers.
func (b *Buffer) Print(w io.Writer) {
	instrs, _ := b.Renumber()
	for i, in := range instrs {
		fmt.Fprintf(w, "%4d: %s", i+1, in.Op)
		if in.Op == OpGoto || in.Op == OpIfNZGoto {
			if in.Dst != "" {
				fmt.Fprintf(w, " %s", in.Dst)
			}
			fmt.Fprintf(w, " %d", in.Target)
		} else {
			for _, f := range []string{in.Dst, in.Src1, in.Src2} {
				if f != "" {
					fmt.Fprintf(w, " %s", f)
				}
			}
		}
		fmt.Fprintln(w)
	}
	for i, s := range b.strPool {
		fmt.Fprintf(w, ".LC%d: %q\n", i, s)
	}
	for i, f := range b.floatPool {
		fmt.Fprintf(w, ".LF%d: %d\n", i, f)
	}
}
