package asm

import "testing"

func TestLow8KnownRegisters(t *testing.T) {
	cases := map[Reg]string{EAX: "%al", EBX: "%bl", ECX: "%cl", EDX: "%dl"}
	for r, want := range cases {
		got, ok := r.Low8()
		if !ok || got != want {
			t.Fatalf("Low8(%s) = %q, %v; want %q, true", r, got, ok, want)
		}
	}
}

func TestLow8UnknownRegister(t *testing.T) {
	if _, ok := ESI.Low8(); ok {
		t.Fatalf("expected %%esi to have no 8-bit low half")
	}
}

func TestOpBuildsInstruction(t *testing.T) {
	in := Op("movl", "$1", "%eax")
	if in.Mnemonic != "movl" || len(in.Operands) != 2 {
		t.Fatalf("unexpected instruction: %+v", in)
	}
}

func TestLblIsLabelOnly(t *testing.T) {
	in := Lbl(".L0")
	if in.Label != ".L0" || in.Mnemonic != "" {
		t.Fatalf("expected a label-only instruction, got %+v", in)
	}
}
