package translate

import (
	"github.com/namangup/Group-10-CS335-Project/internal/diag"
	"github.com/namangup/Group-10-CS335-Project/pkg/lexer"
	"github.com/namangup/Group-10-CS335-Project/pkg/tac"
	"github.com/sirupsen/logrus"
)

// Stmt is the synthesized attribute bundle of a statement parse node
// (§3/§4.3.2): the pending-lists a parent statement needs to backpatch or
// bubble further up the tree.
type Stmt struct {
	NextList     tac.List
	BreakList    tac.List
	ContinueList tac.List
}

// statement dispatches on the leading token to the right statement form
// (§4.3.2).
func (t *Translator) statement() Stmt {
	switch t.cur.Type {
	case lexer.TokenLBrace:
		return t.blockStatement()
	case lexer.TokenIf:
		return t.ifStatement()
	case lexer.TokenWhile:
		return t.whileStatement()
	case lexer.TokenDo:
		return t.doWhileStatement()
	case lexer.TokenFor:
		return t.forStatement()
	case lexer.TokenSwitch:
		return t.switchStatement()
	case lexer.TokenBreak:
		return t.breakStatement()
	case lexer.TokenContinue:
		return t.continueStatement()
	case lexer.TokenReturn:
		return t.returnStatement()
	case lexer.TokenSemicolon:
		t.next()
		return Stmt{}
	default:
		if t.isTypeStart() {
			t.localDeclaration()
			return Stmt{}
		}
		t.expression()
		t.expect(lexer.TokenSemicolon)
		return Stmt{}
	}
}

// blockStatement opens a new lexical scope (§4.4: a `PushScope` TAC
// placeholder is recorded and later finalized at pop time using the
// scope's floor — the deepest offset reached anywhere within it, including
// any nested blocks already closed by then).
func (t *Translator) blockStatement() Stmt {
	t.expect(lexer.TokenLBrace)
	scope := t.Sym.PushScope()
	idx := t.TAC.Emit(tac.OpPushScope, "", "", "")
	scope.PushScopeIdx = idx
	scope.HasPushIdx = true

	s := t.blockBody()

	t.TAC.Backpatch(tac.List{idx}, -(scope.Floor()))
	// The PushScope placeholder's Target field carries the finalized frame
	// adjustment magnitude once the scope closes; Backpatch here repurposes
	// Target as that payload slot rather than a jump target, since
	// PushScope is never a jump instruction.
	t.Sym.PopScope()
	t.expect(lexer.TokenRBrace)
	return s
}

// blockStatementInCurrentScope parses `{ ... }` without opening a new
// scope — used for a function body, which shares the parameter scope
// opened by functionDefinition (§4.4).
func (t *Translator) blockStatementInCurrentScope() Stmt {
	t.expect(lexer.TokenLBrace)
	s := t.blockBody()
	t.expect(lexer.TokenRBrace)
	return s
}

func (t *Translator) blockBody() Stmt {
	var acc Stmt
	for t.cur.Type != lexer.TokenRBrace && t.cur.Type != lexer.TokenEOF {
		if len(acc.NextList) > 0 {
			t.TAC.Backpatch(acc.NextList, t.TAC.Next())
			acc.NextList = nil
		}
		s := t.statement()
		acc.BreakList = tac.Merge(acc.BreakList, s.BreakList)
		acc.ContinueList = tac.Merge(acc.ContinueList, s.ContinueList)
		acc.NextList = s.NextList
	}
	return acc
}

// ifStatement implements §4.3.2 "If/Else".
func (t *Translator) ifStatement() Stmt {
	t.next()
	t.expect(lexer.TokenLParen)
	cond := t.expression()
	t.expect(lexer.TokenRParen)

	s1Start := t.TAC.Next()
	if !cond.isErr() {
		t.TAC.Backpatch(cond.TrueList, s1Start)
		logrus.WithField("target", s1Start).Debug("backpatched if true-list")
	}
	s1 := t.statement()

	if t.cur.Type != lexer.TokenElse {
		next := tac.Merge(s1.NextList)
		if !cond.isErr() {
			next = tac.Merge(next, cond.FalseList)
		}
		return Stmt{NextList: next, BreakList: s1.BreakList, ContinueList: s1.ContinueList}
	}

	joinGoto := t.TAC.EmitJump(tac.OpGoto, "")
	s2Start := t.TAC.Next()
	if !cond.isErr() {
		t.TAC.Backpatch(cond.FalseList, s2Start)
		logrus.WithField("target", s2Start).Debug("backpatched if false-list")
	}
	t.next() // 'else'
	s2 := t.statement()

	next := tac.Merge(s1.NextList, s2.NextList, tac.List{joinGoto})
	return Stmt{
		NextList:     next,
		BreakList:    tac.Merge(s1.BreakList, s2.BreakList),
		ContinueList: tac.Merge(s1.ContinueList, s2.ContinueList),
	}
}

// whileStatement implements §4.3.2 "While".
func (t *Translator) whileStatement() Stmt {
	t.next()
	loopTop := t.TAC.Next()
	t.expect(lexer.TokenLParen)
	cond := t.expression()
	t.expect(lexer.TokenRParen)

	bodyStart := t.TAC.Next()
	if !cond.isErr() {
		t.TAC.Backpatch(cond.TrueList, bodyStart)
	}
	prevDepth := t.loopDepth
	t.loopDepth++
	body := t.statement()
	t.loopDepth = prevDepth

	t.TAC.Backpatch(tac.Merge(body.NextList, body.ContinueList), loopTop)
	t.TAC.EmitJump(tac.OpGoto, "")
	lastIdx := t.TAC.Len() - 1
	t.TAC.Backpatch(tac.List{lastIdx}, loopTop)
	logrus.WithField("target", loopTop).Debug("backpatched while loop-back edges")

	next := body.BreakList
	if !cond.isErr() {
		next = tac.Merge(next, cond.FalseList)
	}
	return Stmt{NextList: next}
}

// doWhileStatement implements §4.3.2 "Do-while".
func (t *Translator) doWhileStatement() Stmt {
	t.next()
	bodyTop := t.TAC.Next()
	prevDepth := t.loopDepth
	t.loopDepth++
	body := t.statement()
	t.loopDepth = prevDepth

	t.expect(lexer.TokenWhile)
	t.expect(lexer.TokenLParen)
	testTop := t.TAC.Next()
	t.TAC.Backpatch(tac.Merge(body.NextList, body.ContinueList), testTop)
	cond := t.expression()
	t.expect(lexer.TokenRParen)
	t.expect(lexer.TokenSemicolon)

	if !cond.isErr() {
		t.TAC.Backpatch(cond.TrueList, bodyTop)
	}
	next := body.BreakList
	if !cond.isErr() {
		next = tac.Merge(next, cond.FalseList)
	}
	return Stmt{NextList: next}
}

// forStatement implements §4.3.2 "For(init; cond; step) body" with its
// four markers.
func (t *Translator) forStatement() Stmt {
	t.next()
	t.expect(lexer.TokenLParen)

	if t.isTypeStart() {
		t.localDeclaration()
	} else if t.cur.Type != lexer.TokenSemicolon {
		t.expression()
		t.expect(lexer.TokenSemicolon)
	} else {
		t.expect(lexer.TokenSemicolon)
	}

	condStart := t.TAC.Next()
	var cond Expr
	hasCond := t.cur.Type != lexer.TokenSemicolon
	if hasCond {
		cond = t.expression()
	}
	t.expect(lexer.TokenSemicolon)

	stepGoto := t.TAC.EmitJump(tac.OpGoto, "")
	stepStart := t.TAC.Next()
	if t.cur.Type != lexer.TokenRParen {
		t.expression()
	}
	t.TAC.EmitJump(tac.OpGoto, "")
	backToCond := t.TAC.Len() - 1
	t.TAC.Backpatch(tac.List{backToCond}, condStart)
	t.expect(lexer.TokenRParen)

	bodyStart := t.TAC.Next()
	t.TAC.Backpatch(tac.List{stepGoto}, bodyStart)
	if hasCond && !cond.isErr() {
		t.TAC.Backpatch(cond.TrueList, bodyStart)
	}

	prevDepth := t.loopDepth
	t.loopDepth++
	body := t.statement()
	t.loopDepth = prevDepth

	t.TAC.Backpatch(tac.Merge(body.NextList, body.ContinueList), stepStart)
	t.TAC.EmitJump(tac.OpGoto, "")
	finalGoto := t.TAC.Len() - 1
	t.TAC.Backpatch(tac.List{finalGoto}, stepStart)

	next := body.BreakList
	if hasCond && !cond.isErr() {
		next = tac.Merge(next, cond.FalseList)
	}
	return Stmt{NextList: next}
}

// breakStatement/continueStatement implement §4.3.2: emit a goto with an
// empty target, bubbled up via the statement's pending-lists until
// consumed by the nearest enclosing loop or switch.
func (t *Translator) breakStatement() Stmt {
	t.next()
	t.expect(lexer.TokenSemicolon)
	idx := t.TAC.EmitJump(tac.OpGoto, "")
	if len(t.switches) == 0 && t.loopDepth == 0 {
		t.semanticError(diag.KindStatement, "break outside loop or switch")
	}
	if len(t.switches) > 0 {
		sw := t.switches[len(t.switches)-1]
		sw.breakList = append(sw.breakList, idx)
		return Stmt{}
	}
	return Stmt{BreakList: tac.List{idx}}
}

func (t *Translator) continueStatement() Stmt {
	t.next()
	t.expect(lexer.TokenSemicolon)
	idx := t.TAC.EmitJump(tac.OpGoto, "")
	if t.loopDepth == 0 {
		t.semanticError(diag.KindStatement, "continue outside loop")
	}
	return Stmt{ContinueList: tac.List{idx}}
}

// returnStatement implements §4.3.2 "Return".
func (t *Translator) returnStatement() Stmt {
	t.next()
	if t.cur.Type == lexer.TokenSemicolon {
		t.next()
		if t.curFunc != nil && !t.curFunc.ReturnType.IsVoid() {
			t.semanticError(diag.KindStatement, "return with no value in non-void function %q", t.curFunc.Name)
		}
		t.TAC.Emit(tac.OpReturnVoid, "", "", "")
		return Stmt{}
	}
	val := t.expression()
	t.expect(lexer.TokenSemicolon)
	if val.isErr() {
		return Stmt{}
	}
	if t.curFunc == nil {
		return Stmt{}
	}
	if t.curFunc.ReturnType.IsStruct() {
		t.TAC.Emit(tac.OpReturnStruc, val.Temp, "8(%ebp)", "")
		return Stmt{}
	}
	if t.curFunc.ReturnType.IsVoid() {
		t.semanticError(diag.KindStatement, "return with a value in void function %q", t.curFunc.Name)
		return Stmt{}
	}
	casted := t.coerceAssign(t.curFunc.ReturnType, val)
	t.TAC.Emit(tac.OpReturn, casted.Temp, "", "")
	return Stmt{}
}

// switchStatement implements §4.3.2 "Switch": a placeholder goto is
// emitted up front, case bodies are translated in sequence (accumulating
// each one's fall-through into the next), and the dispatch table is
// synthesized at the end from the collected test_list.
func (t *Translator) switchStatement() Stmt {
	t.next()
	t.expect(lexer.TokenLParen)
	tag := t.expression()
	t.expect(lexer.TokenRParen)

	dispatchGoto := t.TAC.EmitJump(tac.OpGoto, "")
	sw := &switchCtx{defaultAt: -1}
	t.switches = append(t.switches, sw)

	t.expect(lexer.TokenLBrace)
	var bodyNext, contList tac.List
	for t.cur.Type != lexer.TokenRBrace && t.cur.Type != lexer.TokenEOF {
		switch t.cur.Type {
		case lexer.TokenCase:
			t.next()
			lit := t.expect(lexer.TokenInt)
			t.expect(lexer.TokenColon)
			entry := t.TAC.Next()
			sw.cases = append(sw.cases, caseEntry{value: lit.IntVal, codeEntry: entry})
		case lexer.TokenDefault:
			t.next()
			t.expect(lexer.TokenColon)
			sw.numDefault++
			if sw.numDefault > 1 {
				t.semanticError(diag.KindStatement, "multiple default labels in one switch")
			}
			sw.defaultAt = t.TAC.Next()
		default:
			if len(bodyNext) > 0 {
				t.TAC.Backpatch(bodyNext, t.TAC.Next())
				bodyNext = nil
			}
			s := t.statement()
			bodyNext = s.NextList
			sw.breakList = tac.Merge(sw.breakList, s.BreakList)
			contList = tac.Merge(contList, s.ContinueList)
		}
	}
	t.expect(lexer.TokenRBrace)

	dispatchStart := t.TAC.Next()
	t.TAC.Backpatch(tac.List{dispatchGoto}, dispatchStart)
	if !tag.isErr() {
		for _, c := range sw.cases {
			cmpTmp := t.TAC.NewTemp()
			t.TAC.Emit(tac.Op("==_"+typeSuffix(tag.Type)), cmpTmp, tag.Temp, intLit(c.value))
			br := t.TAC.EmitJump(tac.OpIfNZGoto, cmpTmp)
			t.TAC.Backpatch(tac.List{br}, c.codeEntry)
		}
	}
	if sw.defaultAt >= 0 {
		defGoto := t.TAC.EmitJump(tac.OpGoto, "")
		t.TAC.Backpatch(tac.List{defGoto}, sw.defaultAt)
	}

	t.switches = t.switches[:len(t.switches)-1]
	next := tac.Merge(sw.breakList, bodyNext)
	if sw.defaultAt < 0 {
		dispatchFallthrough := t.TAC.EmitJump(tac.OpGoto, "")
		next = tac.Merge(next, tac.List{dispatchFallthrough})
	}
	return Stmt{NextList: next, ContinueList: contList}
}

func intLit(v int64) string {
	return "$" + itoa(v)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
