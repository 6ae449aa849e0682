package ctype

// StructSizer gives the size a struct-typed Type needs to resolve its
// allocated size without importing pkg/symtab (which in turn
// references ctype.Type); the translator supplies a lookup closure.
type StructSizer func(structName string) (size int, ok bool)

// Size computes the allocated size of t (§3/§4.3.3): 4 bytes for any
// pointer regardless of pointee, the product of array dims times the
// element size for arrays, the registered size for a struct instance, and
// BaseSize for plain scalars.
func Size(t Type, structs StructSizer) int {
	if t.Ptr > 0 {
		if t.IsArray() {
			n := 4
			for _, d := range t.ArrayDims {
				n *= d
			}
			return n
		}
		return 4
	}
	elemSize := 0
	if t.Base == Struct {
		if structs != nil {
			if sz, ok := structs(t.StructName); ok {
				elemSize = sz
			}
		}
	} else {
		elemSize = BaseSize(t.Base)
	}
	if t.IsArray() {
		n := elemSize
		for _, d := range t.ArrayDims {
			n *= d
		}
		return n
	}
	return elemSize
}

// PromoteArith resolves the result type of a binary arithmetic/bitwise
// operator over a and b per §4.3.1: promote to the larger of
// {bool,char,short,int,float} present, propagate unsigned if either
// integral operand carries it.
func PromoteArith(a, b Type) Type {
	result := a
	if b.Base.Rank() > a.Base.Rank() {
		result = b
	}
	if result.Base.Rank() < Int.Rank() && !result.IsFloat() {
		result.Base = Int
	}
	if !result.IsFloat() {
		result.Unsigned = a.Unsigned || b.Unsigned
	} else {
		result.Unsigned = false
	}
	result.Ptr = 0
	result.ArrayDims = nil
	return result
}

// PromoteUnary resolves the result type of unary +/- (§4.3.1): integral or
// float, promoted to at least int.
func PromoteUnary(t Type) Type {
	r := t
	r.Ptr = 0
	r.ArrayDims = nil
	if r.Base.Rank() < Int.Rank() && !r.IsFloat() {
		r.Base = Int
	}
	return r
}

// NeedsCast reports whether a value of type from must be converted via a
// TAC `cast` instruction (§4.3.1) before it can be used as type to.
func NeedsCast(from, to Type) bool {
	if from.Ptr > 0 || to.Ptr > 0 {
		return from.Ptr != to.Ptr
	}
	return from.Base != to.Base
}

// Comparable reports whether a and b may be compared with
// `< > <= >= == !=` (§4.3.1): both arithmetic, both pointers, or both
// strings.
func Comparable(a, b Type) bool {
	if a.Ptr > 0 && b.Ptr > 0 {
		return true
	}
	if a.Base == Str && b.Base == Str {
		return true
	}
	if a.Ptr > 0 || b.Ptr > 0 {
		return false
	}
	return !a.IsStruct() && !b.IsStruct() && !a.IsVoid() && !b.IsVoid() && !a.IsArray() && !b.IsArray()
}
