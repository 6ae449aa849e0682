package translate

import (
	"fmt"

	"github.com/namangup/Group-10-CS335-Project/internal/diag"
	"github.com/namangup/Group-10-CS335-Project/pkg/ctype"
	"github.com/namangup/Group-10-CS335-Project/pkg/lexer"
	"github.com/namangup/Group-10-CS335-Project/pkg/symtab"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
)

// Expr is the synthesized attribute bundle of an expression parse node
// (§3's parse-node record, narrowed to the fields an expression actually
// uses — §9's tagged-variant-per-category design).
type Expr struct {
	Type      ctype.Type
	IsVar     bool
	Temp      string
	TrueList  tac.List
	FalseList tac.List
}

func errExpr() Expr { return Expr{Type: errType} }

func (e Expr) isErr() bool { return isErrType(e.Type) }

// bindBoolLists emits the uniform "prepare for boolean context" pair
// (§4.3.1: identifier translation emits `ifnz_goto _, tmp; goto _`
// unconditionally) and attaches the two new instruction indices as the
// node's true_list/false_list.
func (t *Translator) bindBoolLists(e *Expr) {
	ifIdx := t.TAC.EmitJump(tac.OpIfNZGoto, e.Temp)
	gotoIdx := t.TAC.EmitJump(tac.OpGoto, "")
	e.TrueList = tac.List{ifIdx}
	e.FalseList = tac.List{gotoIdx}
}

func precedenceOf(tt lexer.TokenType) int {
	switch tt {
	case lexer.TokenAssign, lexer.TokenPlusAssign, lexer.TokenMinusAssign, lexer.TokenStarAssign,
		lexer.TokenSlashAssign, lexer.TokenPercentAssign, lexer.TokenAndAssign, lexer.TokenOrAssign,
		lexer.TokenXorAssign, lexer.TokenShlAssign, lexer.TokenShrAssign:
		return precAssign
	case lexer.TokenQuestion:
		return precTernary
	case lexer.TokenOr:
		return precOr
	case lexer.TokenAnd:
		return precAnd
	case lexer.TokenPipe:
		return precBitOr
	case lexer.TokenCaret:
		return precBitXor
	case lexer.TokenAmpersand:
		return precBitAnd
	case lexer.TokenEq, lexer.TokenNe:
		return precEquality
	case lexer.TokenLt, lexer.TokenLe, lexer.TokenGt, lexer.TokenGe:
		return precRelational
	case lexer.TokenShl, lexer.TokenShr:
		return precShift
	case lexer.TokenPlus, lexer.TokenMinus:
		return precAdditive
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return precMulti
	}
	return precLowest
}

// expression parses the full comma-free expression (assignmentExpr is the
// entry used everywhere a single expression is required; a future `,`
// sequencing operator is not part of this grammar subset).
func (t *Translator) expression() Expr { return t.assignmentExpr() }

func (t *Translator) assignmentExpr() Expr {
	left := t.parseExprPrec(precTernary)
	switch t.cur.Type {
	case lexer.TokenAssign:
		t.next()
		return t.finishAssign(left, "")
	case lexer.TokenPlusAssign, lexer.TokenMinusAssign, lexer.TokenStarAssign, lexer.TokenSlashAssign,
		lexer.TokenPercentAssign, lexer.TokenAndAssign, lexer.TokenOrAssign, lexer.TokenXorAssign,
		lexer.TokenShlAssign, lexer.TokenShrAssign:
		op := compoundBinOp(t.cur.Type)
		t.next()
		return t.finishAssign(left, op)
	}
	return left
}

func compoundBinOp(tt lexer.TokenType) string {
	switch tt {
	case lexer.TokenPlusAssign:
		return "+"
	case lexer.TokenMinusAssign:
		return "-"
	case lexer.TokenStarAssign:
		return "*"
	case lexer.TokenSlashAssign:
		return "/"
	case lexer.TokenPercentAssign:
		return "%"
	case lexer.TokenAndAssign:
		return "&"
	case lexer.TokenOrAssign:
		return "|"
	case lexer.TokenXorAssign:
		return "^"
	case lexer.TokenShlAssign:
		return "<<"
	case lexer.TokenShrAssign:
		return ">>"
	}
	return ""
}

// finishAssign implements `=` and desugared compound assignment (§4.3.1
// "Assignment"): compound ops are split into the binary op followed by a
// plain `=`, exactly as the spec prescribes.
func (t *Translator) finishAssign(lhs Expr, compoundOp string) Expr {
	if !lhs.IsVar {
		t.semanticError(diag.KindExpression, "assignment to non-l-value")
		t.assignmentExpr()
		return errExpr()
	}
	if lhs.Type.IsArray() {
		t.semanticError(diag.KindExpression, "assignment to array %q", lhs.Temp)
	}
	rhs := t.assignmentExpr()
	if lhs.isErr() || rhs.isErr() {
		return errExpr()
	}

	if compoundOp != "" {
		rhs = t.binaryOp(compoundOp, lhs, rhs)
	}

	if lhs.Type.IsStruct() {
		t.emitStructCopy(lhs.Temp, rhs.Temp, lhs.Type)
		return Expr{Type: lhs.Type, Temp: lhs.Temp}
	}

	casted := t.coerceAssign(lhs.Type, rhs)
	t.TAC.Emit(tacAssignOp(lhs.Type), lhs.Temp, casted.Temp, "")
	return Expr{Type: lhs.Type, Temp: lhs.Temp}
}

// coerceAssign inserts a `cast` instruction when rhs's type differs from
// the declared target type (§4.3.1's implicit-conversion rule, reused for
// every assignment-shaped context: init, plain `=`, return, call args).
func (t *Translator) coerceAssign(target ctype.Type, rhs Expr) Expr {
	if rhs.isErr() {
		return rhs
	}
	if target.Equal(rhs.Type) {
		return rhs
	}
	if !ctype.NeedsCast(rhs.Type, target) {
		return Expr{Type: target, Temp: rhs.Temp}
	}
	tmp := t.TAC.NewTemp()
	t.TAC.Emit(tac.OpCast, tmp, rhs.Temp, typeSuffix(target)+"<-"+typeSuffix(rhs.Type))
	return Expr{Type: target, Temp: tmp}
}

func typeSuffix(ty ctype.Type) string {
	switch {
	case ty.Ptr > 0:
		return "ptr"
	case ty.IsFloat():
		return "float"
	case ty.Base == ctype.Char:
		return "char"
	case ty.Base == ctype.Bool:
		return "bool"
	case ty.Base == ctype.Short:
		return "short"
	default:
		return "int"
	}
}

// emitStructCopy expands a whole-struct assignment field-by-field (§4.3.1:
// "Struct copy is expanded field-by-field at emit time ... a distinct
// emission path from the scalar opcode").
func (t *Translator) emitStructCopy(dstBase, srcBase string, ty ctype.Type) {
	def, ok := t.Sym.LookupStruct(ty.StructName)
	if !ok {
		return
	}
	for _, f := range def.Fields.Ordered() {
		dst := fmt.Sprintf("%s+%d", dstBase, f.Offset)
		src := fmt.Sprintf("%s+%d", srcBase, f.Offset)
		if f.Type.IsStruct() {
			t.emitStructCopy(dst, src, f.Type)
			continue
		}
		size := ctype.Size(f.Type, t.Sym.StructSizer())
		t.TAC.Emit(tac.OpStructCopy, dst, src, fmt.Sprintf("%d", size))
	}
}

// parseExprPrec is the precedence-climbing loop, grounded on the teacher's
// parseExprPrec in pkg/parser/parser.go.
func (t *Translator) parseExprPrec(prec int) Expr {
	left := t.parsePrefix()
	for prec < precedenceOf(t.cur.Type) && t.cur.Type != lexer.TokenQuestion {
		left = t.parseInfix(left)
	}
	if t.cur.Type == lexer.TokenQuestion && prec <= precTernary {
		left = t.parseTernary(left)
	}
	return left
}

func (t *Translator) parsePrefix() Expr {
	switch t.cur.Type {
	case lexer.TokenMinus, lexer.TokenPlus, lexer.TokenTilde, lexer.TokenNot:
		return t.parseUnary()
	case lexer.TokenStar:
		return t.parseDeref()
	case lexer.TokenAmpersand:
		return t.parseAddrOf()
	case lexer.TokenIncrement, lexer.TokenDecrement:
		return t.parsePrefixIncDec()
	case lexer.TokenSizeof:
		return t.parseSizeof()
	case lexer.TokenLParen:
		return t.parseParenOrCast()
	default:
		return t.parsePostfix(t.parsePrimary())
	}
}

func (t *Translator) parsePrimary() Expr {
	switch t.cur.Type {
	case lexer.TokenInt:
		return t.constIntLeaf()
	case lexer.TokenFloat:
		return t.constFloatLeaf()
	case lexer.TokenChar:
		return t.constCharLeaf()
	case lexer.TokenString:
		return t.constStringLeaf()
	case lexer.TokenTrue, lexer.TokenFalse:
		return t.constBoolLeaf()
	case lexer.TokenIdent:
		return t.identifierLeaf()
	default:
		t.bail("expected expression")
		return errExpr()
	}
}

// constIntLeaf/.. implement §4.3.1 "Constant leaves".
func (t *Translator) constIntLeaf() Expr {
	v := t.cur.IntVal
	t.next()
	tmp := t.TAC.NewTemp()
	t.TAC.Emit("=_int", tmp, fmt.Sprintf("$%d", v), "")
	return Expr{Type: ctype.Scalar(ctype.Int), Temp: tmp}
}

func (t *Translator) constFloatLeaf() Expr {
	v := t.cur.FloatVal
	t.next()
	label := t.TAC.InternFloat(v)
	tmp := t.TAC.NewTemp()
	t.TAC.Emit(tac.OpLoadFloat, "$"+label, tmp, "")
	return Expr{Type: ctype.Scalar(ctype.Float), Temp: tmp}
}

func (t *Translator) constCharLeaf() Expr {
	v := t.cur.CharVal
	t.next()
	tmp := t.TAC.NewTemp()
	t.TAC.Emit("=_char", tmp, fmt.Sprintf("$%d", v), "")
	return Expr{Type: ctype.Scalar(ctype.Char), Temp: tmp}
}

func (t *Translator) constStringLeaf() Expr {
	label := t.TAC.InternString(t.cur.Literal)
	t.next()
	return Expr{Type: ctype.Scalar(ctype.Str), Temp: "$" + label}
}

func (t *Translator) constBoolLeaf() Expr {
	v := 0
	if t.cur.Type == lexer.TokenTrue {
		v = 1
	}
	t.next()
	tmp := t.TAC.NewTemp()
	t.TAC.Emit("=_int", tmp, fmt.Sprintf("$%d", v), "")
	e := Expr{Type: ctype.Scalar(ctype.Bool), Temp: tmp}
	t.bindBoolLists(&e)
	return e
}

// identifierLeaf implements §4.3.1 "Identifier": variable reference or the
// start of a function call.
func (t *Translator) identifierLeaf() Expr {
	name := t.cur.Literal
	line := t.cur.Line
	t.next()

	if t.cur.Type == lexer.TokenLParen {
		return t.finishCall(name, line)
	}

	entry, ok := t.Sym.Lookup(name)
	if !ok {
		t.semanticError(diag.KindDeclaration, "use of undeclared identifier %q", name)
		return errExpr()
	}
	e := Expr{Type: entry.Type, IsVar: true, Temp: entry.Operand}
	if e.Temp == "" {
		e.Temp = entry.Name
	}
	t.bindBoolLists(&e)
	return e
}

func (t *Translator) parseParenOrCast() Expr {
	t.next() // '('
	if t.isTypeStart() {
		spec := t.parseSpecifiers()
		ptr := 0
		for t.accept(lexer.TokenStar) {
			ptr++
		}
		t.expect(lexer.TokenRParen)
		target := spec.baseType()
		target.Ptr = ptr
		operand := t.parseExprPrec(precUnary)
		if operand.isErr() {
			return errExpr()
		}
		tmp := t.TAC.NewTemp()
		t.TAC.Emit(tac.OpCast, tmp, operand.Temp, typeSuffix(target)+"<-"+typeSuffix(operand.Type))
		return Expr{Type: target, Temp: tmp}
	}
	inner := t.expression()
	t.expect(lexer.TokenRParen)
	return t.parsePostfix(inner)
}

func (t *Translator) parseSizeof() Expr {
	t.next()
	paren := t.accept(lexer.TokenLParen)
	var size int
	if paren && t.isTypeStart() {
		spec := t.parseSpecifiers()
		ptr := 0
		for t.accept(lexer.TokenStar) {
			ptr++
		}
		ty := spec.baseType()
		ty.Ptr = ptr
		size = ctype.Size(ty, t.Sym.StructSizer())
		t.expect(lexer.TokenRParen)
	} else if paren {
		operand := t.expression()
		size = ctype.Size(operand.Type, t.Sym.StructSizer())
		t.expect(lexer.TokenRParen)
	} else {
		operand := t.parseExprPrec(precUnary)
		size = ctype.Size(operand.Type, t.Sym.StructSizer())
	}
	tmp := t.TAC.NewTemp()
	t.TAC.Emit("=_int", tmp, fmt.Sprintf("$%d", size), "")
	return Expr{Type: ctype.Scalar(ctype.Int), Temp: tmp}
}

// parseUnary implements §4.3.1 "Unary" for `+ - ~ !`.
func (t *Translator) parseUnary() Expr {
	op := t.cur.Type
	t.next()
	operand := t.parseExprPrec(precUnary)
	if operand.isErr() {
		return errExpr()
	}
	switch op {
	case lexer.TokenMinus, lexer.TokenPlus:
		resTy := ctype.PromoteUnary(operand.Type)
		tmp := t.TAC.NewTemp()
		opName := "UNARY+_" + typeSuffix(resTy)
		if op == lexer.TokenMinus {
			opName = "UNARY-_" + typeSuffix(resTy)
		}
		t.TAC.Emit(tac.Op(opName), tmp, operand.Temp, "")
		return Expr{Type: resTy, Temp: tmp}
	case lexer.TokenTilde:
		if !operand.Type.IsIntegral() {
			t.semanticError(diag.KindExpression, "bitwise complement requires an integral operand")
			return errExpr()
		}
		resTy := ctype.PromoteUnary(operand.Type)
		tmp := t.TAC.NewTemp()
		t.TAC.Emit("UNARY~_"+tac.Op(typeSuffix(resTy)), tmp, operand.Temp, "")
		return Expr{Type: resTy, Temp: tmp}
	case lexer.TokenNot:
		tmp := t.TAC.NewTemp()
		t.TAC.Emit("UNARY!_"+tac.Op(typeSuffix(operand.Type)), tmp, operand.Temp, "")
		return Expr{Type: ctype.Scalar(ctype.Int), Temp: tmp, TrueList: operand.FalseList, FalseList: operand.TrueList}
	}
	return errExpr()
}

func (t *Translator) parseDeref() Expr {
	t.next()
	operand := t.parseExprPrec(precUnary)
	if operand.isErr() {
		return errExpr()
	}
	if !operand.Type.IsPointer() {
		t.semanticError(diag.KindExpression, "dereference of non-pointer type %s", operand.Type)
		return errExpr()
	}
	resTy := ctype.Deref(operand.Type)
	return Expr{Type: resTy, IsVar: true, Temp: "(" + operand.Temp + ")"}
}

func (t *Translator) parseAddrOf() Expr {
	t.next()
	operand := t.parseExprPrec(precUnary)
	if operand.isErr() {
		return errExpr()
	}
	if !operand.IsVar && !operand.Type.IsStruct() {
		t.semanticError(diag.KindExpression, "cannot take the address of a non-l-value")
		return errExpr()
	}
	tmp := t.TAC.NewTemp()
	t.TAC.Emit("UNARY&", tmp, operand.Temp, "")
	return Expr{Type: ctype.PointerTo(operand.Type), Temp: tmp}
}

// parsePrefixIncDec desugars `++x`/`--x` to `x = x + 1` (§4.3.1 treats
// `++`/`--` as compound-assignment-shaped; §7's "bad l-value for ++/--" is
// checked here).
func (t *Translator) parsePrefixIncDec() Expr {
	op := t.cur.Type
	t.next()
	operand := t.parseExprPrec(precUnary)
	if operand.isErr() {
		return errExpr()
	}
	if !operand.IsVar {
		t.semanticError(diag.KindExpression, "bad l-value for prefix ++/--")
		return errExpr()
	}
	binop := "+"
	if op == lexer.TokenDecrement {
		binop = "-"
	}
	one := Expr{Type: ctype.Scalar(ctype.Int), Temp: "$1"}
	res := t.binaryOp(binop, operand, one)
	t.TAC.Emit(tacAssignOp(operand.Type), operand.Temp, res.Temp, "")
	return Expr{Type: operand.Type, IsVar: true, Temp: operand.Temp}
}

// parsePostfix handles `x++`, `x--`, `x[i]`, `x.f`, `x->f`, call chaining.
func (t *Translator) parsePostfix(base Expr) Expr {
	for {
		switch t.cur.Type {
		case lexer.TokenIncrement, lexer.TokenDecrement:
			if !base.IsVar {
				t.semanticError(diag.KindExpression, "bad l-value for postfix ++/--")
				t.next()
				continue
			}
			binop := "+"
			if t.cur.Type == lexer.TokenDecrement {
				binop = "-"
			}
			t.next()
			old := t.TAC.NewTemp()
			t.TAC.Emit(tacAssignOp(base.Type), old, base.Temp, "")
			one := Expr{Type: ctype.Scalar(ctype.Int), Temp: "$1"}
			res := t.binaryOp(binop, Expr{Type: base.Type, Temp: base.Temp}, one)
			t.TAC.Emit(tacAssignOp(base.Type), base.Temp, res.Temp, "")
			base = Expr{Type: base.Type, Temp: old}
		case lexer.TokenLBracket:
			base = t.parseSubscript(base)
		case lexer.TokenDot:
			t.next()
			field := t.expect(lexer.TokenIdent).Literal
			base = t.memberAccess(base, field, false)
		case lexer.TokenArrow:
			t.next()
			field := t.expect(lexer.TokenIdent).Literal
			base = t.memberAccess(base, field, true)
		default:
			return base
		}
	}
}

// parseSubscript implements §4.3.1 "Array subscript": linear offset
// computed incrementally across chained `[..][..]` levels.
func (t *Translator) parseSubscript(base Expr) Expr {
	elemTy := base.Type
	accOffset := ""
	for t.cur.Type == lexer.TokenLBracket {
		t.next()
		idx := t.expression()
		t.expect(lexer.TokenRBracket)
		if base.isErr() || idx.isErr() {
			continue
		}
		dimElem := ctype.ElemType(elemTy)
		elemSize := ctype.Size(dimElem, t.Sym.StructSizer())
		scaled := t.TAC.NewTemp()
		t.TAC.Emit("*_int", scaled, idx.Temp, fmt.Sprintf("$%d", elemSize))
		if accOffset == "" {
			accOffset = scaled
		} else {
			sum := t.TAC.NewTemp()
			t.TAC.Emit("+_int", sum, accOffset, scaled)
			accOffset = sum
		}
		elemTy = dimElem
	}
	addr := t.TAC.NewTemp()
	t.TAC.Emit("+_int", addr, base.Temp, accOffset)
	return Expr{Type: elemTy, IsVar: true, Temp: "(" + addr + ")"}
}

// memberAccess implements §4.3.1 "Member access `.` and `->`".
func (t *Translator) memberAccess(base Expr, field string, arrow bool) Expr {
	baseTy := base.Type
	if arrow {
		if !baseTy.IsPointer() {
			t.semanticError(diag.KindExpression, "-> requires a struct pointer")
			return errExpr()
		}
		baseTy = ctype.Deref(baseTy)
	}
	if !baseTy.IsStruct() {
		t.semanticError(diag.KindExpression, "member access on non-struct type %s", baseTy)
		return errExpr()
	}
	def, ok := t.Sym.LookupStruct(baseTy.StructName)
	if !ok {
		t.semanticError(diag.KindDeclaration, "unknown struct type %q", baseTy.StructName)
		return errExpr()
	}
	f, ok := def.Fields.Get(field)
	if !ok {
		t.semanticError(diag.KindExpression, "no member %q on struct %q", field, baseTy.StructName)
		return errExpr()
	}
	// `.` addresses a field within storage the base already denotes
	// directly (a frame slot, a global, or another field's folded offset),
	// so the offset is folded in flat, same as emitStructCopy's addressing.
	// `->` addresses a field through a pointer *value*, which must be
	// loaded before the offset applies, so it keeps the parenthesized
	// indirection form codegen recognizes.
	var operand string
	if arrow {
		operand = fmt.Sprintf("(%s)+%d", base.Temp, f.Offset)
	} else {
		operand = fmt.Sprintf("%s+%d", base.Temp, f.Offset)
	}
	return Expr{Type: f.Type, IsVar: true, Temp: operand}
}

// finishCall implements §4.3.1 "Function call".
func (t *Translator) finishCall(name string, line int) Expr {
	t.next() // '('
	var args []Expr
	if t.cur.Type != lexer.TokenRParen {
		for {
			args = append(args, t.assignmentExpr())
			if !t.accept(lexer.TokenComma) {
				break
			}
		}
	}
	t.expect(lexer.TokenRParen)

	entry, ok := t.Sym.Lookup(name)
	if !ok || entry.Kind != symtab.KindFunction {
		t.semanticError(diag.KindDeclaration, "call to undeclared function %q", name)
		return errExpr()
	}
	if !entry.Type.IsVoid() && name != "printf" && name != "scanf" && len(entry.ParamTypes) != len(args) {
		t.semanticError(diag.KindExpression, "wrong argument count for %q: expected %d, got %d", name, len(entry.ParamTypes), len(args))
	}

	t.pushCallArgs(name, entry, args)
	tmp := t.TAC.NewTemp()
	t.TAC.Emit(tac.OpCall, tmp, name, fmt.Sprintf("%d", len(args)))
	return Expr{Type: entry.ReturnType, Temp: tmp}
}

// pushCallArgs emits the parameter-push sequence, selecting the pseudo-op
// category per §4.3.1: printf/scanf get printf_push_{float,char}/param;
// math routines get math_func_push_*/pow_func_push_*; struct arguments
// expand field-by-field.
func (t *Translator) pushCallArgs(name string, entry *symtab.Entry, args []Expr) {
	sig, isBuiltin := builtins.Lookup(t.Funcs, name)
	for i := len(args) - 1; i >= 0; i-- {
		a := args[i]
		if a.isErr() {
			continue
		}
		if a.Type.IsStruct() {
			t.pushStructArg(a)
			continue
		}
		var target ctype.Type
		if i < len(entry.ParamTypes) && !entry.ParamTypes[i].IsVoid() {
			target = entry.ParamTypes[i]
		} else {
			target = a.Type
		}
		casted := t.coerceAssign(target, a)
		switch {
		case isBuiltin && sig.Category == builtins.CategoryVariadicIO && casted.Type.IsFloat():
			t.TAC.Emit("printf_push_float", casted.Temp, "", "")
		case isBuiltin && sig.Category == builtins.CategoryVariadicIO && casted.Type.Base == ctype.Char && casted.Type.Ptr == 0:
			t.TAC.Emit("printf_push_char", casted.Temp, "", "")
		case isBuiltin && sig.Category == builtins.CategoryMathUnary:
			t.TAC.Emit(mathPushOp(casted.Type, false), casted.Temp, "", "")
		case isBuiltin && sig.Category == builtins.CategoryMathBinary:
			t.TAC.Emit(mathPushOp(casted.Type, true), casted.Temp, "", "")
		default:
			t.TAC.Emit(tac.OpParam, casted.Temp, "", "")
		}
	}
}

func mathPushOp(ty ctype.Type, isPow bool) tac.Op {
	kind := "int"
	if ty.IsFloat() {
		kind = "float"
	}
	if isPow {
		return tac.Op("pow_func_push_" + kind)
	}
	return tac.Op("math_func_push_" + kind)
}

// pushStructArg expands a struct argument by recursive field traversal
// (§4.3.1: "Struct arguments are expanded to a sequence of pushes").
func (t *Translator) pushStructArg(a Expr) {
	def, ok := t.Sym.LookupStruct(a.Type.StructName)
	if !ok {
		return
	}
	fields := def.Fields.Ordered()
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		// a.Temp already denotes the struct's storage address directly (a
		// frame slot, global, or a previously folded "base+offset" string),
		// so this folds flat like memberAccess's `.` case rather than
		// wrapping in the pointer-indirection parens `->` uses.
		operand := fmt.Sprintf("%s+%d", a.Temp, f.Offset)
		if f.Type.IsStruct() {
			t.pushStructArg(Expr{Type: f.Type, Temp: operand})
			continue
		}
		t.TAC.Emit(tac.OpParam, operand, "", "")
	}
}

// parseInfix dispatches on the current operator token (binary arithmetic,
// comparison, or the short-circuit logical operators, each handled by its
// own backpatch protocol per §4.3.1).
func (t *Translator) parseInfix(left Expr) Expr {
	switch t.cur.Type {
	case lexer.TokenAnd:
		return t.parseLogicalAnd(left)
	case lexer.TokenOr:
		return t.parseLogicalOr(left)
	}
	op := t.cur.Type
	prec := precedenceOf(op)
	t.next()
	right := t.parseExprPrec(prec + 1)
	if isComparisonOp(op) {
		return t.comparisonOp(op, left, right)
	}
	return t.binaryOp(tokenToOpString(op), left, right)
}

func isComparisonOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenEq, lexer.TokenNe, lexer.TokenLt, lexer.TokenLe, lexer.TokenGt, lexer.TokenGe:
		return true
	}
	return false
}

func tokenToOpString(tt lexer.TokenType) string {
	switch tt {
	case lexer.TokenPlus:
		return "+"
	case lexer.TokenMinus:
		return "-"
	case lexer.TokenStar:
		return "*"
	case lexer.TokenSlash:
		return "/"
	case lexer.TokenPercent:
		return "%"
	case lexer.TokenAmpersand:
		return "&"
	case lexer.TokenPipe:
		return "|"
	case lexer.TokenCaret:
		return "^"
	case lexer.TokenShl:
		return "<<"
	case lexer.TokenShr:
		return ">>"
	}
	return "?"
}

// binaryOp implements §4.3.1 "Arithmetic"/"Shifts": promotion, implicit
// casts, and type-suffixed opcode emission.
func (t *Translator) binaryOp(op string, left, right Expr) Expr {
	if left.isErr() || right.isErr() {
		return errExpr()
	}
	if op == "<<" || op == ">>" {
		if !left.Type.IsIntegral() || !right.Type.IsIntegral() {
			t.semanticError(diag.KindExpression, "shift requires integral operands")
			return errExpr()
		}
		resTy := ctype.PromoteUnary(left.Type)
		l := t.coerceAssign(resTy, left)
		r := t.coerceAssign(ctype.Scalar(ctype.Int), right)
		tmp := t.TAC.NewTemp()
		t.TAC.Emit(tac.Op(op+"_"+typeSuffix(resTy)), tmp, l.Temp, r.Temp)
		return Expr{Type: resTy, Temp: tmp}
	}

	if left.Type.IsPointer() || right.Type.IsPointer() {
		if op != "+" && op != "-" {
			t.semanticError(diag.KindExpression, "pointer arithmetic only supports + and -")
			return errExpr()
		}
		if left.Type.IsPointer() && right.Type.IsPointer() && op != "-" {
			t.semanticError(diag.KindExpression, "pointer + pointer is not defined")
			return errExpr()
		}
		return t.pointerArith(op, left, right)
	}
	if op == "%" && (left.Type.IsFloat() || right.Type.IsFloat()) {
		t.semanticError(diag.KindExpression, "modulo is not defined on floating-point operands")
		return errExpr()
	}

	resTy := ctype.PromoteArith(left.Type, right.Type)
	l := t.coerceAssign(resTy, left)
	r := t.coerceAssign(resTy, right)
	tmp := t.TAC.NewTemp()
	t.TAC.Emit(tac.Op(op+"_"+typeSuffix(resTy)), tmp, l.Temp, r.Temp)
	return Expr{Type: resTy, Temp: tmp}
}

// pointerArith implements pointer+int, int+pointer, and pointer-pointer
// (§4.3.1/§7's "incompatible pointer arithmetic" error lives in the guard
// just before this call): the integer side is scaled by the pointee size,
// and pointer-pointer subtraction is scaled back down after the raw
// byte-distance is computed.
func (t *Translator) pointerArith(op string, left, right Expr) Expr {
	if left.Type.IsPointer() && right.Type.IsPointer() {
		elemSize := ctype.Size(ctype.Deref(left.Type), t.Sym.StructSizer())
		diff := t.TAC.NewTemp()
		t.TAC.Emit("-_int", diff, left.Temp, right.Temp)
		if elemSize > 1 {
			scaled := t.TAC.NewTemp()
			t.TAC.Emit("/_int", scaled, diff, fmt.Sprintf("$%d", elemSize))
			return Expr{Type: ctype.Scalar(ctype.Int), Temp: scaled}
		}
		return Expr{Type: ctype.Scalar(ctype.Int), Temp: diff}
	}

	ptrSide, intSide := left, right
	if right.Type.IsPointer() {
		ptrSide, intSide = right, left
	}
	elemSize := ctype.Size(ctype.Deref(ptrSide.Type), t.Sym.StructSizer())
	scaled := t.TAC.NewTemp()
	t.TAC.Emit("*_int", scaled, intSide.Temp, fmt.Sprintf("$%d", elemSize))
	tmp := t.TAC.NewTemp()
	t.TAC.Emit(tac.Op(op+"_int"), tmp, ptrSide.Temp, scaled)
	return Expr{Type: ptrSide.Type, Temp: tmp}
}

// comparisonOp implements §4.3.1 "Comparison": result type is always int;
// float comparisons are marked in the opcode suffix so codegen selects the
// x87 `fucomip` sequence (§4.5.2).
func (t *Translator) comparisonOp(tt lexer.TokenType, left, right Expr) Expr {
	if left.isErr() || right.isErr() {
		return errExpr()
	}
	if !ctype.Comparable(left.Type, right.Type) {
		t.semanticError(diag.KindExpression, "types %s and %s are not comparable", left.Type, right.Type)
		return errExpr()
	}
	var common ctype.Type
	switch {
	case left.Type.IsPointer() || left.Type.Base == ctype.Str:
		common = left.Type
	case left.Type.Base == ctype.Char && right.Type.Base == ctype.Char && left.Type.Ptr == 0 && right.Type.Ptr == 0:
		// Two bare chars compare directly as bytes (§4.3.1's boundary
		// behavior #3, spec.md:207): PromoteArith's normal int promotion
		// would force a 32-bit cmpl here, so this case is exempted from it.
		common = ctype.Scalar(ctype.Char)
	default:
		common = ctype.PromoteArith(left.Type, right.Type)
	}
	l := t.coerceAssign(common, left)
	r := t.coerceAssign(common, right)
	tmp := t.TAC.NewTemp()
	t.TAC.Emit(tac.Op(comparisonMnemonic(tt)+"_"+typeSuffix(common)), tmp, l.Temp, r.Temp)
	e := Expr{Type: ctype.Scalar(ctype.Int), Temp: tmp}
	t.bindBoolLists(&e)
	return e
}

func comparisonMnemonic(tt lexer.TokenType) string {
	switch tt {
	case lexer.TokenEq:
		return "=="
	case lexer.TokenNe:
		return "!="
	case lexer.TokenLt:
		return "<"
	case lexer.TokenLe:
		return "<="
	case lexer.TokenGt:
		return ">"
	case lexer.TokenGe:
		return ">="
	}
	return "?"
}

// parseLogicalAnd implements §4.3.1 `E1 && E2` via backpatch: E1's
// true_list is backpatched to E2's start; the result's false_list is the
// union of both sides' false_lists; its true_list is E2's true_list.
func (t *Translator) parseLogicalAnd(left Expr) Expr {
	t.next() // '&&'
	marker := t.TAC.Next()
	if !left.isErr() {
		t.TAC.Backpatch(left.TrueList, marker)
	}
	right := t.parseExprPrec(precAnd + 1)
	if left.isErr() || right.isErr() {
		return errExpr()
	}
	return Expr{Type: ctype.Scalar(ctype.Bool), TrueList: right.TrueList, FalseList: tac.Merge(left.FalseList, right.FalseList)}
}

// parseLogicalOr implements §4.3.1 `E1 || E2`, the symmetric case.
func (t *Translator) parseLogicalOr(left Expr) Expr {
	t.next() // '||'
	marker := t.TAC.Next()
	if !left.isErr() {
		t.TAC.Backpatch(left.FalseList, marker)
	}
	right := t.parseExprPrec(precOr + 1)
	if left.isErr() || right.isErr() {
		return errExpr()
	}
	return Expr{Type: ctype.Scalar(ctype.Bool), TrueList: tac.Merge(left.TrueList, right.TrueList), FalseList: right.FalseList}
}

// parseTernary implements §4.3.1 `C ? T : F` with the three-marker
// backpatch protocol.
func (t *Translator) parseTernary(cond Expr) Expr {
	t.next() // '?'
	result := t.TAC.NewTemp()

	tStart := t.TAC.Next()
	if !cond.isErr() {
		t.TAC.Backpatch(cond.TrueList, tStart)
	}
	thenExpr := t.assignmentExpr()
	t.expect(lexer.TokenColon)
	if !thenExpr.isErr() {
		t.TAC.Emit(tacAssignOp(thenExpr.Type), result, thenExpr.Temp, "")
	}

	joinGoto := t.TAC.EmitJump(tac.OpGoto, "")
	fStart := t.TAC.Next()
	if !cond.isErr() {
		t.TAC.Backpatch(cond.FalseList, fStart)
	}
	elseExpr := t.parseExprPrec(precTernary)
	if !elseExpr.isErr() {
		t.TAC.Emit(tacAssignOp(elseExpr.Type), result, elseExpr.Temp, "")
	}

	joinIdx := t.TAC.Next()
	t.TAC.Backpatch(tac.List{joinGoto}, joinIdx)

	if cond.isErr() || thenExpr.isErr() || elseExpr.isErr() {
		return errExpr()
	}
	resTy := ctype.PromoteArith(thenExpr.Type, elseExpr.Type)
	return Expr{Type: resTy, Temp: result}
}
