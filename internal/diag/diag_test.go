package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestBagAccumulatesAndTripsErrorFlag(t *testing.T) {
	var b Bag
	if b.HasErrors() {
		t.Fatalf("expected empty bag to report no errors")
	}
	b.Add(New(KindDeclaration, 3, 1, "redeclaration of %q", "x"))
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true after Add")
	}
	if len(b.All()) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(b.All()))
	}
}

func TestRenderPlainIncludesLineAndColumn(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)
	r.Render(New(KindExpression, 5, 10, "type mismatch in assignment"))
	out := buf.String()
	if !strings.Contains(out, "5:10:") {
		t.Fatalf("expected line:col prefix, got %q", out)
	}
	if !strings.Contains(out, "type mismatch in assignment") {
		t.Fatalf("expected message in output, got %q", out)
	}
}

func TestRenderWithSpanShowsUnderline(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)
	d := NewWithSpan(KindSyntactic, 2, 5, "int main( {", 1, "unexpected token %q", "{")
	r.Render(d)
	out := buf.String()
	if !strings.Contains(out, "int main( {") {
		t.Fatalf("expected source excerpt in output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected underline caret in output, got %q", out)
	}
}

func TestErrorStringFormat(t *testing.T) {
	d := New(KindLexical, 1, 1, "illegal character %q", "@")
	if got := d.Error(); !strings.HasPrefix(got, "1:1: lexical error:") {
		t.Fatalf("unexpected Error() format: %q", got)
	}
}
