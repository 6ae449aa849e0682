package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `int main() { return 42; }`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInt_, "int"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenReturn, "return"},
		{TokenInt, "42"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % = == != < <= > >= && || ! & | ^ ~ << >> ?: -> .`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenPlus, "+"},
		{TokenMinus, "-"},
		{TokenStar, "*"},
		{TokenSlash, "/"},
		{TokenPercent, "%"},
		{TokenAssign, "="},
		{TokenEq, "=="},
		{TokenNe, "!="},
		{TokenLt, "<"},
		{TokenLe, "<="},
		{TokenGt, ">"},
		{TokenGe, ">="},
		{TokenAnd, "&&"},
		{TokenOr, "||"},
		{TokenNot, "!"},
		{TokenAmpersand, "&"},
		{TokenPipe, "|"},
		{TokenCaret, "^"},
		{TokenTilde, "~"},
		{TokenShl, "<<"},
		{TokenShr, ">>"},
		{TokenQuestion, "?"},
		{TokenColon, ":"},
		{TokenArrow, "->"},
		{TokenDot, "."},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestCompoundAssign(t *testing.T) {
	input := `+= -= *= /= %= &= |= ^= <<= >>= ++ --`
	tests := []TokenType{
		TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenIncrement, TokenDecrement, TokenEOF,
	}
	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d]: expected=%q got=%q (%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestComments(t *testing.T) {
	input := `int // comment
main /* block
comment */ ()`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInt_, "int"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenEOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := New("int x; /* oops")
	for tok := l.NextToken(); tok.Type != TokenEOF; tok = l.NextToken() {
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexical error, got %d", len(l.Errors()))
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("int x = @;")
	var got TokenType
	for {
		tok := l.NextToken()
		if tok.Type == TokenIllegal {
			got = tok.Type
		}
		if tok.Type == TokenEOF {
			break
		}
	}
	if got != TokenIllegal {
		t.Fatalf("expected an illegal token")
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexical error, got %d", len(l.Errors()))
	}
}

func TestFloatLiteral(t *testing.T) {
	l := New("1.5 3e10 .5f 2.")
	for _, want := range []float64{1.5, 3e10, 0.5, 2.0} {
		tok := l.NextToken()
		if tok.Type != TokenFloat {
			t.Fatalf("expected FLOAT, got %v (%q)", tok.Type, tok.Literal)
		}
		if tok.FloatVal != want {
			t.Fatalf("expected %v got %v", want, tok.FloatVal)
		}
	}
}

func TestIntLiteralBases(t *testing.T) {
	l := New("42 0x2a 052")
	for _, want := range []int64{42, 42, 42} {
		tok := l.NextToken()
		if tok.Type != TokenInt {
			t.Fatalf("expected INT, got %v", tok.Type)
		}
		if tok.IntVal != want {
			t.Fatalf("expected %d got %d (%q)", want, tok.IntVal, tok.Literal)
		}
	}
}

func TestCharLiteralEscapes(t *testing.T) {
	l := New(`'a' '\n' '\0' '\\'`)
	for _, want := range []byte{'a', '\n', 0, '\\'} {
		tok := l.NextToken()
		if tok.Type != TokenChar {
			t.Fatalf("expected CHAR, got %v", tok.Type)
		}
		if tok.CharVal != want {
			t.Fatalf("expected %v got %v", want, tok.CharVal)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`)
	tok := l.NextToken()
	if tok.Type != TokenString {
		t.Fatalf("expected STRING, got %v", tok.Type)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("unexpected decoded string: %q", tok.Literal)
	}
}

func TestKeywordSet(t *testing.T) {
	input := "bool break case char continue default do float for if else int return short signed struct switch union unsigned void while true false sizeof"
	want := []TokenType{
		TokenBool, TokenBreak, TokenCase, TokenChar_, TokenContinue, TokenDefault,
		TokenDo, TokenFloat_, TokenFor, TokenIf, TokenElse, TokenInt_, TokenReturn,
		TokenShort, TokenSigned, TokenStruct, TokenSwitch, TokenUnion, TokenUnsigned,
		TokenVoid, TokenWhile, TokenTrue, TokenFalse, TokenSizeof, TokenEOF,
	}
	l := New(input)
	for i, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt, tok.Type)
		}
	}
}
