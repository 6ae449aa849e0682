// Package ctype implements the normalized type-sequence representation
// described in spec §3: an ordered list of tokens with a fixed shape —
// base type, pointer stars glued to the base, qualifiers, and an optional
// array marker with dimensions.
package ctype

import (
	"fmt"
	"strings"
)

// Base identifies the scalar/aggregate base of a type.
type Base string

const (
	Int    Base = "int"
	Short  Base = "short"
	Char   Base = "char"
	Bool   Base = "bool"
	Float  Base = "float"
	Void   Base = "void"
	Str    Base = "str" // string literal type ($.LC<n> operands)
	Struct Base = "struct"
)

// Type is the normalized, ordered type-sequence of spec §3: base token
// first, pointer depth glued to the base, qualifiers next, then an
// optional array marker with dimensions last.
type Type struct {
	Base       Base
	StructName string // set when Base == Struct
	Ptr        int    // pointer depth
	Unsigned   bool
	Signed     bool // explicit `signed` — mutually exclusive with Unsigned
	ArrayDims  []int // nil unless this is an array type; len(ArrayDims) == rank
}

// Scalar builds a plain scalar type (no pointer, no array).
func Scalar(b Base) Type { return Type{Base: b} }

// PointerTo returns t with one additional pointer level.
func PointerTo(t Type) Type {
	t.Ptr++
	return t
}

// Deref strips one pointer level. Panics if t is not a pointer — callers
// must check IsPointer first (this mirrors the translator's own
// precondition checks, §4.3.1 unary `*`).
func Deref(t Type) Type {
	if t.Ptr == 0 {
		panic("ctype: Deref of non-pointer type")
	}
	t.Ptr--
	return t
}

// ArrayOf returns the element type decorated with the array marker carrying
// dims (outer dimension first), per §3's `arr`+dims encoding.
func ArrayOf(elem Type, dims []int) Type {
	t := elem
	t.ArrayDims = append([]int(nil), dims...)
	return t
}

// ElemType strips the outermost array dimension; once dims is empty the
// plain element type is returned.
func ElemType(t Type) Type {
	if len(t.ArrayDims) == 0 {
		return t
	}
	t.ArrayDims = t.ArrayDims[1:]
	if len(t.ArrayDims) == 0 {
		t.ArrayDims = nil
	}
	return t
}

func (t Type) IsPointer() bool  { return t.Ptr > 0 }
func (t Type) IsArray() bool    { return len(t.ArrayDims) > 0 }
func (t Type) IsStruct() bool   { return t.Base == Struct && t.Ptr == 0 }
func (t Type) IsVoid() bool     { return t.Base == Void && t.Ptr == 0 }
func (t Type) IsFloat() bool    { return t.Base == Float && t.Ptr == 0 }
func (t Type) IsIntegral() bool { return !t.IsFloat() && !t.IsVoid() && !t.IsStruct() }
func (t Type) IsScalar() bool   { return t.Ptr > 0 || (!t.IsStruct() && !t.IsArray() && !t.IsVoid()) }

// Rank orders {bool, char, short, int, float} for promotion (§4.3.1):
// the result of a binary arithmetic op is promoted to the larger rank
// present among its operands.
func (b Base) Rank() int {
	switch b {
	case Bool:
		return 0
	case Char:
		return 1
	case Short:
		return 2
	case Int:
		return 3
	case Float:
		return 4
	}
	return -1
}

// Normalize returns t in canonical form: base, pointer stars glued to
// base, qualifiers, then arr+dims last. Our in-memory representation is
// already normalized by construction, so Normalize is the identity and is
// here chiefly to keep the idempotence invariant (§8) checkable and
// explicit at call sites that accept raw attribute bundles.
func (t Type) Normalize() Type { return t }

// Equal reports whether two normalized types describe the same storage:
// same base, same pointer depth, same array rank+dims, same struct name
// when applicable. Signedness is not part of identity — only of
// conversion/promotion decisions.
func (t Type) Equal(o Type) bool {
	if t.Base != o.Base || t.Ptr != o.Ptr || t.StructName != o.StructName {
		return false
	}
	if len(t.ArrayDims) != len(o.ArrayDims) {
		return false
	}
	for i := range t.ArrayDims {
		if t.ArrayDims[i] != o.ArrayDims[i] {
			return false
		}
	}
	return true
}

// String renders the type sequence roughly as the source spec describes
// it (base, stars, qualifiers, arr[dims]) — used in diagnostics.
func (t Type) String() string {
	var sb strings.Builder
	if t.Base == Struct {
		sb.WriteString("struct " + t.StructName)
	} else {
		sb.WriteString(string(t.Base))
	}
	if t.Ptr > 0 {
		sb.WriteString(" " + strings.Repeat("*", t.Ptr))
	}
	if t.Unsigned {
		sb.WriteString(" unsigned")
	}
	if t.Signed {
		sb.WriteString(" signed")
	}
	for _, d := range t.ArrayDims {
		sb.WriteString(fmt.Sprintf("[%d]", d))
	}
	return sb.String()
}

// BaseSize returns the storage size in bytes of a scalar base type,
// ignoring pointer/array decoration (pointers are always 4 bytes on this
// 32-bit target, per spec §1/§4.3.3).
func BaseSize(b Base) int {
	switch b {
	case Bool, Char:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	}
	return 0
}
