package lexer

import (
	"fmt"
	"testing"

	"refu/internal/diag"
	"refu/internal/source"
	"refu/internal/token"
)

// tokenString renders a token with an inclusive end position: Span.End is
// exclusive, so the last byte of the token sits at End-1.
func tokenString(fs *source.FileSet, tok token.Token) string {
	start := fs.Position(source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start})
	end := fs.Position(source.Span{File: tok.Span.File, Start: tok.Span.End - 1, End: tok.Span.End - 1})
	if tok.Kind == token.Ident {
		return fmt.Sprintf("IDENTIFIER(%q) @ %s-%s", tok.Text, start, end)
	}
	return fmt.Sprintf("%s @ %s-%s", tok.Kind, start, end)
}

func TestScanIdentifierAndBraces(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.rf", "asd { }")
	f := fs.Get(id)

	l := New(f, diag.NopReporter{})
	toks := l.Scan()
	if len(toks) != 4 { // asd, {, }, EOF
		t.Fatalf("expected 4 tokens, got %d: %+v", len(toks), toks)
	}

	want := []string{
		`IDENTIFIER("asd") @ 0:0-0:2`,
		"OCBRACE @ 0:4-0:4",
		"CCBRACE @ 0:6-0:6",
	}
	for i, w := range want {
		got := tokenString(fs, toks[i])
		if got != w {
			t.Fatalf("token %d: expected %q, got %q", i, w, got)
		}
	}
	if toks[3].Kind != token.EOF {
		t.Fatalf("expected final token to be EOF, got %v", toks[3].Kind)
	}
}

func TestScanKeywordsAndOperators(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.rf", "fn add(a:i32, b:i32) -> i32 { a + b }")
	f := fs.Get(id)

	toks := New(f, diag.NopReporter{}).Scan()
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	wantPrefix := []token.Kind{
		token.KwFn, token.Ident, token.OParen, token.Ident, token.Colon, token.Ident, token.Comma,
	}
	for i, w := range wantPrefix {
		if kinds[i] != w {
			t.Fatalf("token %d: expected %v, got %v", i, w, kinds[i])
		}
	}
	if kinds[len(kinds)-1] != token.EOF {
		t.Fatalf("expected stream to end with EOF")
	}
}

func TestScanFloatAndIntLiterals(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.rf", "3.0 4 42")
	f := fs.Get(id)
	toks := New(f, diag.NopReporter{}).Scan()
	if toks[0].Kind != token.FloatLit || toks[0].Text != "3.0" {
		t.Fatalf("expected float literal 3.0, got %+v", toks[0])
	}
	if toks[1].Kind != token.IntLit || toks[1].Text != "4" {
		t.Fatalf("expected int literal 4, got %+v", toks[1])
	}
	if toks[2].Kind != token.IntLit || toks[2].Text != "42" {
		t.Fatalf("expected int literal 42, got %+v", toks[2])
	}
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.rf", `"hi\n"`)
	f := fs.Get(id)
	toks := New(f, diag.NopReporter{}).Scan()
	if toks[0].Kind != token.StringLit || toks[0].Text != "hi\n" {
		t.Fatalf("expected unescaped string literal, got %+v", toks[0])
	}
}

func TestScanUnterminatedStringReportsDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.rf", `"unterminated`)
	f := fs.Get(id)
	bag := &diag.Bag{}
	New(f, diag.BagReporter{Bag: bag}).Scan()
	if !bag.HasErrors() {
		t.Fatalf("expected an unterminated-string diagnostic")
	}
}
