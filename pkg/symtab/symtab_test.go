package symtab

import (
	"testing"

	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
)

func TestInsertAndLookup(t *testing.T) {
	tab := New()
	ok := tab.Insert(&Entry{Name: "x", Kind: KindVariable, Type: ctype.Scalar(ctype.Int)})
	if !ok {
		t.Fatalf("expected insert to succeed")
	}
	e, ok := tab.Lookup("x")
	if !ok || e.Name != "x" {
		t.Fatalf("expected to find x")
	}
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	tab := New()
	tab.Insert(&Entry{Name: "x", Kind: KindVariable})
	if tab.Insert(&Entry{Name: "x", Kind: KindVariable}) {
		t.Fatalf("expected redeclaration in same scope to fail")
	}
}

func TestShadowingInNestedScopeSucceeds(t *testing.T) {
	tab := New()
	tab.Insert(&Entry{Name: "x", Offset: -4, VarScope: ScopeLocal})
	tab.PushScope()
	if !tab.Insert(&Entry{Name: "x", Offset: -4, VarScope: ScopeLocal}) {
		t.Fatalf("expected shadowing in inner scope to succeed")
	}
	inner, _ := tab.Lookup("x")
	tab.PopScope()
	outer, _ := tab.Lookup("x")
	if inner == outer {
		t.Fatalf("expected distinct entries for shadowed variable")
	}
}

func TestScopeStackBalancedAtRoot(t *testing.T) {
	tab := New()
	tab.PushScope()
	tab.PushScope()
	tab.PopScope()
	tab.PopScope()
	if !tab.AtRoot() {
		t.Fatalf("expected scope stack to be balanced at root")
	}
}

func TestMinOffsetTracksMostNegative(t *testing.T) {
	tab := New()
	tab.PushScope()
	tab.Insert(&Entry{Name: "a", Offset: -4, VarScope: ScopeLocal})
	tab.Insert(&Entry{Name: "b", Offset: -8, VarScope: ScopeLocal})
	if got := tab.CurrentScope().MinOffset(); got != -8 {
		t.Fatalf("expected min offset -8, got %d", got)
	}
}

func TestSiblingScopesReuseOffsets(t *testing.T) {
	tab := New()
	tab.Insert(&Entry{Name: "outer", Offset: -4, VarScope: ScopeLocal})

	tab.PushScope()
	tab.Insert(&Entry{Name: "a", Offset: -8, VarScope: ScopeLocal})
	firstChildFloor := tab.CurrentScope().MinOffset()
	tab.PopScope()

	tab.PushScope()
	if got := tab.CurrentScope().MinOffset(); got != -4 {
		t.Fatalf("expected sibling scope to start from the parent's watermark -4, got %d", got)
	}
	tab.Insert(&Entry{Name: "b", Offset: -8, VarScope: ScopeLocal})
	if got := tab.CurrentScope().MinOffset(); got != firstChildFloor {
		t.Fatalf("expected sibling scope to reuse the same offset %d, got %d", firstChildFloor, tab.CurrentScope().MinOffset())
	}
	tab.PopScope()

	if got := tab.CurrentScope().Floor(); got != -8 {
		t.Fatalf("expected function-level floor to record the deepest offset -8, got %d", got)
	}
	if got := tab.CurrentScope().MinOffset(); got != -4 {
		t.Fatalf("expected function-level watermark to stay at -4 after both children close, got %d", got)
	}
}

func TestFloorPropagatesThroughNestedScopes(t *testing.T) {
	tab := New()
	tab.PushScope()
	tab.Insert(&Entry{Name: "a", Offset: -4, VarScope: ScopeLocal})
	tab.PushScope()
	tab.Insert(&Entry{Name: "b", Offset: -8, VarScope: ScopeLocal})
	tab.PopScope()
	if got := tab.CurrentScope().Floor(); got != -8 {
		t.Fatalf("expected floor to propagate from the nested scope, got %d", got)
	}
	if got := tab.CurrentScope().MinOffset(); got != -4 {
		t.Fatalf("expected watermark to reflect only this scope's own declarations, got %d", got)
	}
	tab.PopScope()
}

func TestStructRegistry(t *testing.T) {
	tab := New()
	fields := NewFieldList()
	fields.Add(&Entry{Name: "x", Offset: 0, AllocatedSize: 4})
	fields.Add(&Entry{Name: "c", Offset: 4, AllocatedSize: 1})
	fields.Add(&Entry{Name: "y", Offset: 5, AllocatedSize: 4})
	ok := tab.DeclareStruct(&StructDef{Name: "P", Fields: fields, AllocatedSize: 9})
	if !ok {
		t.Fatalf("expected struct declaration to succeed")
	}
	def, ok := tab.LookupStruct("P")
	if !ok || def.AllocatedSize != 9 {
		t.Fatalf("expected struct P with size 9")
	}
	y, ok := def.Fields.Get("y")
	if !ok || y.Offset != 5 {
		t.Fatalf("expected field y at offset 5, got %+v", y)
	}
}
