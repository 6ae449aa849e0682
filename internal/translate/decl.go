package translate

import (
	"github.com/namangup/Group-10-CS335-Project/internal/diag"
	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
	"github.com/namangup/Group-10-CS335-Project/pkg/lexer"
	"github.com/namangup/Group-10-CS335-Project/pkg/symtab"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
	"github.com/sirupsen/logrus"
)

// specifiers is the accumulated result of parsing a declaration's type
// specifier list (§4.3.3's "variables map extended by every specifier"):
// the base type plus any qualifier/struct-name tokens, before any
// declarator (pointer stars, array dims, identifier) is applied.
type specifiers struct {
	base       ctype.Base
	structName string
	unsigned   bool
	signed     bool
	sawBase    bool
}

// isTypeStart reports whether cur begins a type-specifier list.
func (t *Translator) isTypeStart() bool {
	switch t.cur.Type {
	case lexer.TokenInt_, lexer.TokenShort, lexer.TokenChar_, lexer.TokenBool,
		lexer.TokenFloat_, lexer.TokenVoid, lexer.TokenStruct,
		lexer.TokenSigned, lexer.TokenUnsigned:
		return true
	}
	return false
}

// parseSpecifiers consumes the specifier list (§4.3.4: "conflicting type
// specifiers" — signed+unsigned together, or more than one base type — are
// reported here rather than left to a later pass).
func (t *Translator) parseSpecifiers() specifiers {
	var s specifiers
	for t.isTypeStart() {
		switch t.cur.Type {
		case lexer.TokenSigned:
			if s.unsigned {
				t.semanticError(diag.KindDeclaration, "conflicting type specifiers: signed and unsigned")
			}
			s.signed = true
			t.next()
		case lexer.TokenUnsigned:
			if s.signed {
				t.semanticError(diag.KindDeclaration, "conflicting type specifiers: signed and unsigned")
			}
			s.unsigned = true
			t.next()
		case lexer.TokenStruct:
			t.next()
			name := t.expect(lexer.TokenIdent).Literal
			if s.sawBase {
				t.semanticError(diag.KindDeclaration, "multiple base type specifiers")
			}
			s.base, s.structName, s.sawBase = ctype.Struct, name, true
			if t.cur.Type == lexer.TokenLBrace {
				t.structBody(name)
			}
		default:
			base := baseFromToken(t.cur.Type)
			if s.sawBase {
				t.semanticError(diag.KindDeclaration, "multiple base type specifiers")
			}
			s.base, s.sawBase = base, true
			t.next()
		}
	}
	if !s.sawBase {
		s.base = ctype.Int
	}
	return s
}

func baseFromToken(tt lexer.TokenType) ctype.Base {
	switch tt {
	case lexer.TokenInt_:
		return ctype.Int
	case lexer.TokenShort:
		return ctype.Short
	case lexer.TokenChar_:
		return ctype.Char
	case lexer.TokenBool:
		return ctype.Bool
	case lexer.TokenFloat_:
		return ctype.Float
	case lexer.TokenVoid:
		return ctype.Void
	}
	return ctype.Int
}

func (s specifiers) baseType() ctype.Type {
	ty := ctype.Scalar(s.base)
	ty.StructName = s.structName
	ty.Unsigned = s.unsigned
	ty.Signed = s.signed
	return ty
}

// structBody parses `{ field-decl ... }` for a struct defined inline by its
// specifier (§9 Non-goals: no nested struct definitions, so a struct body
// containing another struct definition as a member is reported as a
// declaration error).
func (t *Translator) structBody(name string) {
	t.expect(lexer.TokenLBrace)
	fields := symtab.NewFieldList()
	offset := 0
	for t.cur.Type != lexer.TokenRBrace && t.cur.Type != lexer.TokenEOF {
		if t.cur.Type == lexer.TokenStruct && t.peek.Type == lexer.TokenLBrace {
			t.semanticError(diag.KindDeclaration, "nested struct definitions are not supported")
		}
		nestedName := ""
		if t.cur.Type == lexer.TokenStruct && t.peek.Type == lexer.TokenIdent {
			if _, known := t.Sym.LookupStruct(t.peek.Literal); !known {
				nestedName = t.peek.Literal
			}
		}
		fs := t.parseSpecifiers()
		if nestedName != "" {
			if _, defined := t.Sym.LookupStruct(nestedName); defined {
				t.semanticError(diag.KindDeclaration, "nested struct definitions are not supported")
			}
		}
		for {
			ptr, fieldName, dims := t.parseDeclarator()
			fty := fs.baseType()
			fty.Ptr = ptr
			if fty.IsStruct() && ptr > 1 {
				t.semanticError(diag.KindDeclaration, "multi-level struct pointers are not supported")
			}
			if len(dims) > 0 {
				fty = ctype.ArrayOf(fty, dims)
			}
			if fty.StructName == name && ptr == 0 {
				t.semanticError(diag.KindDeclaration, "self-referencing struct field %q", fieldName)
			}
			size := ctype.Size(fty, t.Sym.StructSizer())
			fields.Add(&symtab.Entry{Name: fieldName, Kind: symtab.KindVariable, Type: fty, Offset: offset, AllocatedSize: size})
			offset += size
			if !t.accept(lexer.TokenComma) {
				break
			}
		}
		t.expect(lexer.TokenSemicolon)
	}
	t.expect(lexer.TokenRBrace)
	if !t.Sym.DeclareStruct(&symtab.StructDef{Name: name, Fields: fields, AllocatedSize: offset}) {
		t.semanticError(diag.KindDeclaration, "redeclaration of struct %q", name)
	}
}

// parseDeclarator consumes pointer stars, the identifier, and any array
// dimensions (§4.3.3). It does not consume an initializer or `;`/`,`.
func (t *Translator) parseDeclarator() (ptr int, name string, dims []int) {
	for t.accept(lexer.TokenStar) {
		ptr++
	}
	name = t.expect(lexer.TokenIdent).Literal
	for t.cur.Type == lexer.TokenLBracket {
		t.next()
		if t.cur.Type == lexer.TokenRBracket {
			t.semanticError(diag.KindDeclaration, "array bound missing for dimension of %q", name)
			dims = append(dims, 0)
		} else {
			lit := t.expect(lexer.TokenInt)
			if lit.IntVal <= 0 {
				t.semanticError(diag.KindDeclaration, "non-positive array bound for %q", name)
			}
			dims = append(dims, int(lit.IntVal))
		}
		t.expect(lexer.TokenRBracket)
	}
	return ptr, name, dims
}

// externalDeclaration parses one top-level struct/function/global-variable
// declaration (§2's translation-unit production).
func (t *Translator) externalDeclaration() {
	if t.cur.Type == lexer.TokenStruct && t.peek.Type == lexer.TokenIdent {
		save := t.cur
		t.next()
		name := t.expect(lexer.TokenIdent).Literal
		if t.cur.Type == lexer.TokenLBrace {
			t.structBody(name)
			t.expect(lexer.TokenSemicolon)
			return
		}
		_ = save
		t.globalOrFunctionDecl(specifiers{base: ctype.Struct, structName: name, sawBase: true})
		return
	}
	spec := t.parseSpecifiers()
	t.globalOrFunctionDecl(spec)
}

func (t *Translator) globalOrFunctionDecl(spec specifiers) {
	ptr, name, dims := t.parseDeclarator()
	ty := spec.baseType()
	ty.Ptr = ptr

	if t.cur.Type == lexer.TokenLParen {
		t.functionDefinition(spec, ty, name)
		return
	}

	for {
		fty := ty
		if len(dims) > 0 {
			fty = ctype.ArrayOf(ty, dims)
		}
		if fty.IsVoid() && fty.Ptr == 0 {
			t.semanticError(diag.KindDeclaration, "variable %q declared void", name)
		}
		size := ctype.Size(fty, t.Sym.StructSizer())
		entry := &symtab.Entry{Name: name, Kind: symtab.KindVariable, Type: fty, AllocatedSize: size, VarScope: symtab.ScopeGlobal, Operand: name}
		if !t.Sym.Insert(entry) {
			t.semanticError(diag.KindDeclaration, "redeclaration of %q", name)
		}
		if t.cur.Type == lexer.TokenAssign {
			if fty.IsStruct() {
				t.semanticError(diag.KindDeclaration, "global struct instance %q may not have an initializer", name)
			}
			t.next()
			init := t.assignmentExpr()
			casted := t.coerceAssign(fty, init)
			t.TAC.Emit(tacAssignOp(fty), name, casted.Temp, "")
		}
		if !t.accept(lexer.TokenComma) {
			break
		}
		ptr, name, dims = t.parseDeclarator()
		ty.Ptr = ptr
	}
	t.expect(lexer.TokenSemicolon)
}

// functionDefinition parses `( params ) { body }` and registers the
// function entry, opens a parameter scope (§4.4: offsets from +8, or +12
// when the function returns a struct via a hidden pointer), then the body
// block.
func (t *Translator) functionDefinition(spec specifiers, retType ctype.Type, name string) {
	logrus.WithField("function", name).Debug("reducing function definition")
	t.expect(lexer.TokenLParen)

	paramBase := 8
	if retType.IsStruct() {
		paramBase = 12
	}

	fn := &symtab.Entry{Name: name, Kind: symtab.KindFunction, ReturnType: retType, VarScope: symtab.ScopeGlobal}
	if !t.Sym.Insert(fn) {
		t.semanticError(diag.KindDeclaration, "redeclaration of function %q", name)
	}

	t.Sym.PushScope()
	t.paramBase = paramBase
	offset := paramBase
	var paramTypes []ctype.Type
	if t.cur.Type != lexer.TokenRParen {
		for {
			pspec := t.parseSpecifiers()
			pptr, pname, pdims := t.parseDeclarator()
			pty := pspec.baseType()
			pty.Ptr = pptr
			if len(pdims) > 0 {
				pty = ctype.ArrayOf(pty, pdims)
			}
			size := ctype.Size(pty, t.Sym.StructSizer())
			if size <= 0 {
				size = 4
			}
			entry := &symtab.Entry{Name: pname, Kind: symtab.KindParameter, Type: pty, Offset: offset, AllocatedSize: size, VarScope: symtab.ScopeLocal, Operand: symtab.FrameOffsetFor(offset)}
			t.Sym.Insert(entry)
			offset += roundUp4(size)
			paramTypes = append(paramTypes, pty)
			if !t.accept(lexer.TokenComma) {
				break
			}
		}
	}
	fn.ParamTypes = paramTypes
	fn.NumParameters = len(paramTypes)
	t.expect(lexer.TokenRParen)

	prevFunc := t.curFunc
	t.curFunc = fn
	start := t.TAC.Next()
	t.blockStatementInCurrentScope()
	end := t.TAC.Next()
	t.curFunc = prevFunc

	scope := t.Sym.CurrentScope()
	frameSize := -scope.Floor()
	t.Sym.PopScope()

	t.Functions = append(t.Functions, FuncInfo{Entry: fn, Start: start, End: end, FrameSize: frameSize})
	logrus.WithFields(logrus.Fields{"function": name, "instrs": end - start, "frameSize": frameSize}).Debug("function body emitted")
}

func roundUp4(n int) int {
	if n <= 0 {
		return 4
	}
	if n%4 == 0 {
		return n
	}
	return n + (4 - n%4)
}

// localDeclaration parses a local variable declaration statement (§4.3.3):
// offsets are negative and strictly decreasing in declaration order.
func (t *Translator) localDeclaration() {
	spec := t.parseSpecifiers()
	for {
		ptr, name, dims := t.parseDeclarator()
		ty := spec.baseType()
		ty.Ptr = ptr
		if len(dims) > 0 {
			ty = ctype.ArrayOf(ty, dims)
		}
		if ty.IsVoid() && ty.Ptr == 0 {
			t.semanticError(diag.KindDeclaration, "variable %q declared void", name)
		}
		size := ctype.Size(ty, t.Sym.StructSizer())
		if size <= 0 {
			size = 4
		}
		// Every local gets a 4-byte-aligned slot regardless of its own
		// width (a char/short/bool still occupies a full word) so a
		// scalar assignment's word-sized store can never clobber a
		// neighboring local's slot (§4.4).
		size = roundUp4(size)
		scope := t.Sym.CurrentScope()
		offset := scope.MinOffset() - size
		entry := &symtab.Entry{Name: name, Kind: symtab.KindVariable, Type: ty, Offset: offset, AllocatedSize: size, VarScope: symtab.ScopeLocal, Operand: symtab.FrameOffsetFor(offset)}
		if !t.Sym.Insert(entry) {
			t.semanticError(diag.KindDeclaration, "redeclaration of %q in this scope", name)
		}
		if t.cur.Type == lexer.TokenAssign {
			t.next()
			init := t.assignmentExpr()
			if ty.IsStruct() {
				t.emitStructCopy(entry.Operand, init.Temp, ty)
			} else {
				casted := t.coerceAssign(ty, init)
				t.TAC.Emit(tacAssignOp(ty), entry.Operand, casted.Temp, "")
			}
		}
		if !t.accept(lexer.TokenComma) {
			break
		}
	}
	t.expect(lexer.TokenSemicolon)
}

func tacAssignOp(ty ctype.Type) tac.Op {
	switch {
	case ty.IsFloat():
		return "=_float"
	case ty.Base == ctype.Char && ty.Ptr == 0:
		return "=_char"
	default:
		return "=_int"
	}
}
