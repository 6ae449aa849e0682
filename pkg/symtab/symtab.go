// Package symtab implements the nested-scope symbol table and struct type
// registry of spec §3/§4.4: an ordered map of entries per scope, lexically
// nested, with offset assignment for locals/parameters/struct fields.
package symtab

import (
	"fmt"

	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
)

// Kind is the identifier_type field of a symbol table entry (§3).
type Kind int

const (
	KindVariable Kind = iota
	KindParameter
	KindFunction
	KindTemp
	KindStruct
)

// VarScope distinguishes global storage from stack-frame storage (§3).
type VarScope int

const (
	ScopeGlobal VarScope = iota
	ScopeLocal
)

// Entry is one symbol table record (§3).
type Entry struct {
	Name          string
	Line          int
	Kind          Kind
	Type          ctype.Type
	AllocatedSize int
	Offset        int // negative for locals, positive for parameters
	VarScope      VarScope
	Operand       string // concrete TAC operand form: "-8(%ebp)", a global name, ...

	// Function entries
	NumParameters int
	ParamTypes    []ctype.Type
	ReturnType    ctype.Type

	// Struct-typed entries: ordered field list, populated from the type
	// registry at declaration time.
	Fields *FieldList
}

// FieldList is the ordered field→entry map of a struct type (§3: "vars").
type FieldList struct {
	order []string
	byKey map[string]*Entry
}

func NewFieldList() *FieldList {
	return &FieldList{byKey: make(map[string]*Entry)}
}

func (f *FieldList) Add(e *Entry) {
	if _, exists := f.byKey[e.Name]; !exists {
		f.order = append(f.order, e.Name)
	}
	f.byKey[e.Name] = e
}

func (f *FieldList) Get(name string) (*Entry, bool) {
	e, ok := f.byKey[name]
	return e, ok
}

func (f *FieldList) Ordered() []*Entry {
	out := make([]*Entry, 0, len(f.order))
	for _, n := range f.order {
		out = append(out, f.byKey[n])
	}
	return out
}

// StructDef is a type-table entry (§3): a registered struct declaration,
// keyed by name, separate from the variable scopes.
type StructDef struct {
	Name          string
	Line          int
	Fields        *FieldList
	AllocatedSize int
}

// Scope is an ordered dictionary of entries plus a unique scope number and
// child scope list (§3's "Scope" glossary entry).
type Scope struct {
	Num      int
	Parent   *Scope
	Children []*Scope
	order    []string
	byName   map[string]*Entry

	// PushScopeIdx is the TAC instruction index of this scope's PushScope
	// placeholder (§4.4), recorded by the translator when the scope opens
	// and patched when the scope closes.
	PushScopeIdx int
	HasPushIdx   bool

	// minOffset is the live allocation watermark used to assign each new
	// local its own offset within this scope (§4.4): it starts at the
	// parent's watermark when the scope opens and only ever decreases
	// while this scope is the current one. It is never bubbled back into
	// the parent on close, so a later sibling scope starts from the same
	// watermark its predecessor did and reuses those slots.
	minOffset int

	// floor is the deepest offset reached anywhere within this scope or
	// any of its (possibly already-closed) descendants — the §4.4 frame
	// size source. Unlike minOffset it does propagate into the parent's
	// own floor on PopScope, so a function's outermost scope ends up with
	// the true deepest extent reached by any nested block, without that
	// propagation disturbing sibling scopes' ability to reuse offsets.
	floor int
}

func newScope(num int, parent *Scope) *Scope {
	s := &Scope{Num: num, Parent: parent, byName: make(map[string]*Entry)}
	if parent != nil {
		s.minOffset = parent.minOffset
		s.floor = parent.minOffset
	}
	return s
}

// Table is the root symbol-table object: the active scope stack plus the
// struct type registry (§3's "Type table").
type Table struct {
	root      *Scope
	current   *Scope
	nextScope int
	structs   map[string]*StructDef
}

// New creates a Table with an empty global scope already pushed.
func New() *Table {
	t := &Table{structs: make(map[string]*StructDef)}
	t.root = newScope(0, nil)
	t.current = t.root
	t.nextScope = 1
	return t
}

// PushScope opens a new nested scope as a child of the current one.
func (t *Table) PushScope() *Scope {
	s := newScope(t.nextScope, t.current)
	t.nextScope++
	t.current.Children = append(t.current.Children, s)
	t.current = s
	return s
}

// PopScope closes the current scope and returns to its parent. It is an
// error (panics — an internal invariant violation, not a user-facing one)
// to pop past the root.
func (t *Table) PopScope() *Scope {
	closed := t.current
	if closed.Parent == nil {
		panic("symtab: cannot pop the root scope")
	}
	t.current = closed.Parent
	// closed.minOffset is deliberately NOT bubbled into the parent: that
	// would permanently shift the parent's allocation watermark, and a
	// later sibling scope would never reuse the slots closed just freed
	// (§4.4, [[symtab-scopes]]). Only floor — the deepest-ever extent,
	// tracked separately from the live watermark — propagates upward, all
	// the way to the function's outermost scope.
	if closed.floor < closed.Parent.floor {
		closed.Parent.floor = closed.floor
	}
	return closed
}

// CurrentScope returns the scope on top of the stack.
func (t *Table) CurrentScope() *Scope { return t.current }

// AtRoot reports whether the scope stack is balanced back to the root
// (§8's round-trip invariant).
func (t *Table) AtRoot() bool { return t.current == t.root }

// Insert adds a new entry to the current scope. It returns false without
// mutating anything if name is already declared in *this* scope (§4.3.4
// redeclaration-in-same-scope is an error; shadowing an outer scope is
// not, so Insert does not consult ancestor scopes).
func (t *Table) Insert(e *Entry) bool {
	if _, exists := t.current.byName[e.Name]; exists {
		return false
	}
	t.current.byName[e.Name] = e
	t.current.order = append(t.current.order, e.Name)
	if e.VarScope == ScopeLocal && e.Offset < t.current.minOffset {
		t.current.minOffset = e.Offset
	}
	if e.VarScope == ScopeLocal && e.Offset < t.current.floor {
		t.current.floor = e.Offset
	}
	return true
}

// Lookup finds name in the innermost enclosing scope (§4.4). The bool
// result reports only whether name was found in any enclosing scope.
func (t *Table) Lookup(name string) (*Entry, bool) {
	for s := t.current; s != nil; s = s.Parent {
		if e, ok := s.byName[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupLocal looks up name only within the current scope (used to detect
// redeclaration, §4.3.4).
func (t *Table) LookupLocal(name string) (*Entry, bool) {
	e, ok := t.current.byName[name]
	return e, ok
}

// MinOffset returns s's live allocation watermark — the offset the next
// local declared directly in s should be placed beyond (§4.4). It reflects
// only s's own declarations, not any closed child scope's.
func (s *Scope) MinOffset() int { return s.minOffset }

// Floor returns the deepest offset reached anywhere within s or any of its
// (possibly already-closed) descendant scopes — the quantity a frame-size
// or block-exit stack adjustment needs (§4.4), since that adjustment must
// reclaim space used by nested blocks even after they've closed.
func (s *Scope) Floor() int { return s.floor }

// DeclareStruct registers a new struct type. Returns false if name is
// already registered (the translator turns that into a redeclaration
// diagnostic).
func (t *Table) DeclareStruct(def *StructDef) bool {
	if _, exists := t.structs[def.Name]; exists {
		return false
	}
	t.structs[def.Name] = def
	return true
}

// LookupStruct resolves a struct name in the type table (§4.2's
// lookup_type).
func (t *Table) LookupStruct(name string) (*StructDef, bool) {
	d, ok := t.structs[name]
	return d, ok
}

// StructSizer adapts the struct registry to ctype.Size's lookup signature.
func (t *Table) StructSizer() ctype.StructSizer {
	return func(name string) (int, bool) {
		if d, ok := t.structs[name]; ok {
			return d.AllocatedSize, true
		}
		return 0, false
	}
}

// Globals returns every global-storage variable entry in declaration
// order, for the code generator's `.data`/`.comm` emission (§6).
func (t *Table) Globals() []*Entry {
	var out []*Entry
	for _, name := range t.root.order {
		e := t.root.byName[name]
		if e.Kind == KindVariable && e.VarScope == ScopeGlobal {
			out = append(out, e)
		}
	}
	return out
}

// Structs returns the struct type registry, for codegen sizing of struct
// copies/field offsets without re-deriving them from ctype.
func (t *Table) Structs() map[string]*StructDef { return t.structs }

// FrameOffsetFor computes the operand string for a given offset (§3:
// "±N(%ebp)").
func FrameOffsetFor(offset int) string {
	return fmt.Sprintf("%d(%%ebp)", offset)
}
