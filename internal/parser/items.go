package parser

import (
	"refu/internal/ast"
	"refu/internal/token"
)

// itemStarters are the token kinds that begin a top-level declaration; used
// by resync to find the next recoverable position after a syntax error.
var itemStarters = []token.Kind{token.KwImport, token.KwType, token.KwFn}

func (p *Parser) parseModule() ast.NodeID {
	start := p.peek().Span
	var items []ast.NodeID
	for !p.at(token.EOF) {
		before := p.pos
		id, ok := p.parseItem()
		if ok {
			items = append(items, id)
		} else {
			p.resyncToItem()
		}
		if p.pos == before && !p.at(token.EOF) {
			p.advance() // guarantee forward progress on unrecognized input
		}
	}
	end := p.peek().Span
	return p.tree.New(ast.Node{Kind: ast.KindModule, Span: start.Cover(end), Children: items})
}

func (p *Parser) parseItem() (ast.NodeID, bool) {
	switch p.peek().Kind {
	case token.KwImport:
		return p.parseImport()
	case token.KwType:
		return p.parseTypeDecl()
	case token.KwFn:
		return p.parseFn()
	default:
		p.errorf(p.peek().Span, "expected import, type, or fn declaration, got %s", p.peek().Kind)
		return ast.NoNodeID, false
	}
}

func (p *Parser) resyncToItem() {
	for !p.at(token.EOF) {
		for _, k := range itemStarters {
			if p.at(k) {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) parseImport() (ast.NodeID, bool) {
	start, _ := p.expect(token.KwImport)
	tok, ok := p.expect(token.StringLit)
	if !ok {
		return ast.NoNodeID, false
	}
	name := p.intern(tok.Text)
	span := start.Span.Cover(tok.Span)
	return p.tree.New(ast.Node{Kind: ast.KindImport, Span: span, Name: name}), true
}

func (p *Parser) parseTypeDecl() (ast.NodeID, bool) {
	start, _ := p.expect(token.KwType)
	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.OCBrace); !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseTypeExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	end, ok := p.expect(token.CCBrace)
	if !ok {
		return ast.NoNodeID, false
	}
	span := start.Span.Cover(end.Span)
	name := p.intern(nameTok.Text)
	return p.tree.New(ast.Node{Kind: ast.KindTypeDecl, Span: span, Name: name, Left: body}), true
}

func (p *Parser) parseFn() (ast.NodeID, bool) {
	start, _ := p.expect(token.KwFn)
	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.OParen); !ok {
		return ast.NoNodeID, false
	}
	var params []ast.NodeID
	for !p.at(token.CParen) && !p.at(token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			return ast.NoNodeID, false
		}
		params = append(params, param)
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	if _, ok := p.expect(token.CParen); !ok {
		return ast.NoNodeID, false
	}
	var retType ast.NodeID = ast.NoNodeID
	if p.at(token.Arrow) {
		p.advance()
		retType, ok = p.parseTypeExpr()
		if !ok {
			return ast.NoNodeID, false
		}
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	end := p.tree.Node(body).Span
	name := p.intern(nameTok.Text)
	return p.tree.New(ast.Node{
		Kind:     ast.KindFuncImpl,
		Span:     start.Span.Cover(end),
		Name:     name,
		Left:     retType,
		Right:    body,
		Children: params,
	}), true
}

func (p *Parser) parseParam() (ast.NodeID, bool) {
	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.Colon); !ok {
		return ast.NoNodeID, false
	}
	typeExpr, ok := p.parseTypeAtom()
	if !ok {
		return ast.NoNodeID, false
	}
	span := nameTok.Span.Cover(p.tree.Node(typeExpr).Span)
	name := p.intern(nameTok.Text)
	return p.tree.New(ast.Node{Kind: ast.KindParam, Span: span, Name: name, Left: typeExpr}), true
}
