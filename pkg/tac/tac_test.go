package tac

import (
	"bytes"
	"testing"
)

func TestEmitAndBackpatch(t *testing.T) {
	b := NewBuffer()
	idx := b.EmitJump(OpGoto, "")
	b.Backpatch(List{idx}, 5)
	if b.At(idx).Target != 5 {
		t.Fatalf("expected backpatched target 5, got %d", b.At(idx).Target)
	}
}

func TestNoEmptyJumpTargetsAfterBackpatch(t *testing.T) {
	b := NewBuffer()
	t1 := b.EmitJump(OpIfNZGoto, "x")
	f1 := b.EmitJump(OpGoto, "")
	b.Backpatch(List{t1}, 2)
	b.Backpatch(List{f1}, 3)
	if !b.NoEmptyJumpTargets() {
		t.Fatalf("expected all jump targets resolved")
	}
}

func TestMergeLists(t *testing.T) {
	m := Merge(List{1, 2}, List{3}, nil)
	if len(m) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(m))
	}
}

func TestLiteralPoolsNotDeduplicated(t *testing.T) {
	b := NewBuffer()
	a := b.InternString("hi")
	c := b.InternString("hi")
	if a == c {
		t.Fatalf("expected distinct labels for repeated literal, matching original_source behavior")
	}
}

func TestRenumberDropsEmptyGotoAndDoubleRetq(t *testing.T) {
	b := NewBuffer()
	b.Emit(OpAssign, "t0", "$1", "")
	b.EmitJump(OpGoto, "") // empty target, never backpatched -> dropped
	b.Emit(OpReturn, "t0", "", "")
	b.Emit(OpReturn, "t0", "", "") // redundant consecutive retq -> dropped

	instrs, _ := b.Renumber()
	if len(instrs) != 2 {
		t.Fatalf("expected 2 surviving instructions, got %d", len(instrs))
	}
	if instrs[0].Op != OpAssign || instrs[1].Op != OpReturn {
		t.Fatalf("unexpected surviving instructions: %+v", instrs)
	}
}

func TestRenumberRewritesTargets(t *testing.T) {
	b := NewBuffer()
	j := b.EmitJump(OpGoto, "")
	b.Emit(OpAssign, "t0", "$1", "")
	b.Backpatch(List{j}, 1)
	instrs, mapping := b.Renumber()
	if mapping[1] != instrs[0].Target {
		t.Fatalf("expected rewritten target to match renumbered index")
	}
}

func TestPrintDoesNotPanic(t *testing.T) {
	b := NewBuffer()
	b.Emit(OpAssign, "t0", "$1", "")
	b.Emit(OpReturn, "t0", "", "")
	var buf bytes.Buffer
	b.Print(&buf)
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty textual TAC output")
	}
}
