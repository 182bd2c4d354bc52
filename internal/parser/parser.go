package parser

import (
	"fmt"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/lexer"
	"refu/internal/source"
	"refu/internal/token"
)

// Parser builds one ast.Tree from a token stream produced by lexer.Lexer.
// It is a straightforward recursive-descent parser: each grammar
// production is one method, and errors are reported through Reporter and
// recovered from at the nearest item (top-level declaration) boundary so
// one malformed declaration does not abort the whole file.
type Parser struct {
	toks   []token.Token
	pos    int
	tree   *ast.Tree
	report diag.Reporter
	strs   *source.Table
	errs   bool
}

// New constructs a Parser over an already-scanned token stream.
func New(toks []token.Token, strs *source.Table, r diag.Reporter) *Parser {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Parser{toks: toks, tree: ast.NewTree(), strs: strs, report: r}
}

// ParseFile scans f with a fresh lexer and parses it into a Tree rooted at
// a KindModule node.
func ParseFile(f *source.File, strs *source.Table, r diag.Reporter) (*ast.Tree, bool) {
	toks := lexer.New(f, r).Scan()
	p := New(toks, strs, r)
	root := p.parseModule()
	p.tree.Root = root
	return p.tree, !p.errs
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// expect consumes k or reports a syntax error and leaves the cursor in
// place so the caller's recovery logic decides how far to skip.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf(p.peek().Span, "expected %s, got %s", k, p.peek().Kind)
	return token.Token{}, false
}

func (p *Parser) errorf(span source.Span, format string, args ...any) {
	p.errs = true
	diag.ReportSyntaxError(p.report, diag.CodeSyntaxError, span, fmt.Sprintf(format, args...)).Emit()
}

func (p *Parser) intern(text string) source.StringID {
	id, _, err := p.strs.Add(text)
	if err != nil {
		// A hash collision between distinct strings is vanishingly rare and
		// not recoverable mid-parse; fall back to re-adding so parsing can
		// continue rather than losing the token entirely.
		id, _, _ = p.strs.Add(text + "\x00collision")
	}
	return id
}
