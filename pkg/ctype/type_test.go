package ctype

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	ty := ArrayOf(Scalar(Int), []int{4})
	once := ty.Normalize()
	twice := once.Normalize()
	if !once.Equal(twice) {
		t.Fatalf("normalize not idempotent: %v vs %v", once, twice)
	}
}

func TestPromoteArithCharToInt(t *testing.T) {
	r := PromoteArith(Scalar(Char), Scalar(Char))
	if r.Base != Int {
		t.Fatalf("expected char+char promoted to int, got %v", r.Base)
	}
}

func TestPromoteArithFloatWins(t *testing.T) {
	r := PromoteArith(Scalar(Int), Scalar(Float))
	if r.Base != Float {
		t.Fatalf("expected int+float promoted to float, got %v", r.Base)
	}
}

func TestPromoteArithUnsignedPropagates(t *testing.T) {
	u := Scalar(Int)
	u.Unsigned = true
	r := PromoteArith(u, Scalar(Int))
	if !r.Unsigned {
		t.Fatalf("expected unsigned to propagate")
	}
}

func TestStructSize(t *testing.T) {
	sizer := func(name string) (int, bool) {
		if name == "P" {
			return 9, true
		}
		return 0, false
	}
	ty := Scalar(Struct)
	ty.StructName = "P"
	if got := Size(ty, sizer); got != 9 {
		t.Fatalf("expected struct size 9, got %d", got)
	}
}

func TestArraySize(t *testing.T) {
	ty := ArrayOf(Scalar(Int), []int{3, 4})
	if got := Size(ty, nil); got != 48 {
		t.Fatalf("expected 3*4*4=48, got %d", got)
	}
}

func TestPointerSizeIsFour(t *testing.T) {
	ty := PointerTo(Scalar(Struct))
	if got := Size(ty, nil); got != 4 {
		t.Fatalf("expected pointer size 4, got %d", got)
	}
}

func TestComparablePointers(t *testing.T) {
	if !Comparable(PointerTo(Scalar(Int)), PointerTo(Scalar(Char))) {
		t.Fatalf("expected two pointers to be comparable")
	}
}

func TestNotComparableStructs(t *testing.T) {
	s := Scalar(Struct)
	s.StructName = "P"
	if Comparable(s, s) {
		t.Fatalf("expected structs to not be comparable")
	}
}
