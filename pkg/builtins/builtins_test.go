package builtins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/namangup/Group-10-CS335-Project/pkg/symtab"
)

func TestDefaultsRegisterIntoGlobalScope(t *testing.T) {
	tab := symtab.New()
	skipped := Register(tab, Defaults())
	if len(skipped) != 0 {
		t.Fatalf("expected no collisions on an empty table, got %v", skipped)
	}
	e, ok := tab.Lookup("printf")
	if !ok || e.Kind != symtab.KindFunction {
		t.Fatalf("expected printf registered as a function")
	}
	if e.NumParameters != 2 {
		t.Fatalf("expected printf arity 2, got %d", e.NumParameters)
	}
}

func TestMathFunctionsUseUnaryCategory(t *testing.T) {
	sig, ok := Lookup(Defaults(), "sqrt")
	if !ok || sig.Category != CategoryMathUnary {
		t.Fatalf("expected sqrt registered with CategoryMathUnary, got %+v ok=%v", sig, ok)
	}
}

func TestPowUsesMathBinaryCategory(t *testing.T) {
	sig, ok := Lookup(Defaults(), "pow")
	if !ok || sig.Category != CategoryMathBinary {
		t.Fatalf("expected pow registered with CategoryMathBinary, got %+v ok=%v", sig, ok)
	}
}

func TestRegisterSkipsCollisions(t *testing.T) {
	tab := symtab.New()
	tab.Insert(&symtab.Entry{Name: "printf", Kind: symtab.KindFunction})
	skipped := Register(tab, Defaults())
	found := false
	for _, name := range skipped {
		if name == "printf" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected printf to be reported as skipped, got %v", skipped)
	}
}

func TestLoadSidecarMissingFileIsNotError(t *testing.T) {
	sigs, err := LoadSidecar(filepath.Join(t.TempDir(), "missing.cc.yaml"))
	if err != nil || sigs != nil {
		t.Fatalf("expected nil, nil for a missing sidecar, got %v, %v", sigs, err)
	}
}

func TestLoadSidecarParsesExtraSignatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.cc.yaml")
	contents := "functions:\n" +
		"  - name: itoa\n" +
		"    params: [int, char*]\n" +
		"    return: char*\n" +
		"    category: ordinary\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	sigs, err := LoadSidecar(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sigs) != 1 || sigs[0].Name != "itoa" || len(sigs[0].ParamTypes) != 2 {
		t.Fatalf("unexpected parsed signatures: %+v", sigs)
	}
}
