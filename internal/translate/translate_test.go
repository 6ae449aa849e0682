package translate

import (
	"testing"

	"github.com/namangup/Group-10-CS335-Project/pkg/builtins"
)

func compile(t *testing.T, src string) *Translator {
	t.Helper()
	tr := New(src, builtins.Defaults())
	ok := tr.Parse()
	if !ok {
		for _, d := range tr.Diags.All() {
			t.Logf("diagnostic: %s", d.Error())
		}
	}
	return tr
}

func TestIntegerArithmeticProgram(t *testing.T) {
	tr := compile(t, `int main(){ int a=2,b=3; return a*b+1; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
	if !tr.Sym.AtRoot() {
		t.Fatalf("expected scope stack balanced at end of translation")
	}
	if !tr.TAC.NoEmptyJumpTargets() {
		t.Fatalf("expected no empty jump targets after parse completes")
	}
}

func TestShortCircuitSkipsDivision(t *testing.T) {
	tr := compile(t, `int main(){int x=0; if(x && 1/x) return 1; return 0;}`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
	if !tr.TAC.NoEmptyJumpTargets() {
		t.Fatalf("expected no empty jump targets after parse completes")
	}
}

func TestSwitchWithFallthroughParses(t *testing.T) {
	tr := compile(t, `int main(){ int x, c; c=2; switch(c){ case 1: x=10; break; case 2: x=20; default: x=30; } return x; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
}

func TestStructFieldOffsets(t *testing.T) {
	tr := compile(t, `struct P{int x; char c; int y;}; int main(){ struct P p; p.x=1; p.c='A'; p.y=7; return 0; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
	def, ok := tr.Sym.LookupStruct("P")
	if !ok {
		t.Fatalf("expected struct P registered")
	}
	if def.AllocatedSize != 9 {
		t.Fatalf("expected sizeof(P)=9, got %d", def.AllocatedSize)
	}
	x, _ := def.Fields.Get("x")
	c, _ := def.Fields.Get("c")
	y, _ := def.Fields.Get("y")
	if x.Offset != 0 || c.Offset != 4 || y.Offset != 5 {
		t.Fatalf("unexpected field offsets: x=%d c=%d y=%d", x.Offset, c.Offset, y.Offset)
	}
}

func TestNestedScopeShadowing(t *testing.T) {
	tr := compile(t, `int y, z; int main(){ int x=1; { int x=2; y=x; } z=x; return 0; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
	if !tr.Sym.AtRoot() {
		t.Fatalf("expected scope stack balanced at end of translation")
	}
}

func TestRedeclarationInSameScopeIsError(t *testing.T) {
	tr := compile(t, `int main(){ int x; int x; return 0; }`)
	if !tr.Diags.HasErrors() {
		t.Fatalf("expected a redeclaration diagnostic")
	}
}

func TestMultipleDefaultIsError(t *testing.T) {
	tr := compile(t, `int main(){ int x, c; c=1; switch(c){ default: x=1; default: x=2; } return 0; }`)
	if !tr.Diags.HasErrors() {
		t.Fatalf("expected a multiple-default diagnostic")
	}
}

func TestAssignToNonLValueIsError(t *testing.T) {
	tr := compile(t, `int main(){ 1 = 2; return 0; }`)
	if !tr.Diags.HasErrors() {
		t.Fatalf("expected an assign-to-non-l-value diagnostic")
	}
}

func TestEmptyFunctionBodyTranslatesWithoutDiagnostics(t *testing.T) {
	tr := compile(t, `void f(){} int main(){ f(); return 0; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
}

func TestCharToCharComparisonUsesCharSuffix(t *testing.T) {
	tr := compile(t, `int main(){ char a, b; a='x'; b='y'; return a==b; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
	found := false
	for _, in := range tr.TAC.All() {
		if in.Op == "==_char" {
			found = true
		}
		if in.Op == "==_int" {
			t.Fatalf("expected char-to-char comparison not to promote to int, got op %s", in.Op)
		}
	}
	if !found {
		t.Fatalf("expected an ==_char comparison op, got %v", tr.TAC.All())
	}
}

func TestCharToIntComparisonStillPromotes(t *testing.T) {
	tr := compile(t, `int main(){ char a; int n; a='x'; n=5; return a==n; }`)
	if tr.Diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", tr.Diags.All())
	}
	found := false
	for _, in := range tr.TAC.All() {
		if in.Op == "==_int" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected char-to-int comparison to promote to ==_int, got %v", tr.TAC.All())
	}
}
