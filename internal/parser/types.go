package parser

import (
	"refu/internal/ast"
	"refu/internal/token"
)

// parseTypeExpr parses a full type description: a sum of products of
// (optionally labeled) atoms, e.g. "radius:f32 | width:f32, height:f32".
func (p *Parser) parseTypeExpr() (ast.NodeID, bool) {
	left, ok := p.parseTypeProduct()
	if !ok {
		return ast.NoNodeID, false
	}
	for p.at(token.Pipe) {
		p.advance()
		right, ok := p.parseTypeProduct()
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.tree.Node(left).Span.Cover(p.tree.Node(right).Span)
		left = p.tree.New(ast.Node{Kind: ast.KindTypeSum, Span: span, Left: left, Right: right})
	}
	return left, true
}

func (p *Parser) parseTypeProduct() (ast.NodeID, bool) {
	left, ok := p.parseTypeLeaf()
	if !ok {
		return ast.NoNodeID, false
	}
	for p.at(token.Comma) {
		p.advance()
		right, ok := p.parseTypeLeaf()
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.tree.Node(left).Span.Cover(p.tree.Node(right).Span)
		left = p.tree.New(ast.Node{Kind: ast.KindTypeProduct, Span: span, Left: left, Right: right})
	}
	return left, true
}

// parseTypeLeaf parses an optionally-labeled field ("name:type") or a bare
// type expression when no label precedes a colon.
func (p *Parser) parseTypeLeaf() (ast.NodeID, bool) {
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Colon {
		nameTok := p.advance()
		p.advance() // ':'
		inner, ok := p.parseTypeImplication()
		if !ok {
			return ast.NoNodeID, false
		}
		span := nameTok.Span.Cover(p.tree.Node(inner).Span)
		name := p.intern(nameTok.Text)
		return p.tree.New(ast.Node{Kind: ast.KindTypeLeaf, Span: span, Name: name, Left: inner}), true
	}
	return p.parseTypeImplication()
}

// parseTypeImplication parses "argType -> retType", right-associative.
func (p *Parser) parseTypeImplication() (ast.NodeID, bool) {
	left, ok := p.parseTypeAtom()
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.Arrow) {
		p.advance()
		right, ok := p.parseTypeImplication()
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.tree.Node(left).Span.Cover(p.tree.Node(right).Span)
		return p.tree.New(ast.Node{Kind: ast.KindTypeImplication, Span: span, Left: left, Right: right}), true
	}
	return left, true
}

func (p *Parser) parseTypeAtom() (ast.NodeID, bool) {
	if p.at(token.OParen) {
		p.advance()
		inner, ok := p.parseTypeExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.CParen); !ok {
			return ast.NoNodeID, false
		}
		return inner, true
	}
	if p.at(token.KwNil) {
		tok := p.advance()
		name := p.intern(tok.Text)
		return p.tree.New(ast.Node{Kind: ast.KindTypeRef, Span: tok.Span, Name: name}), true
	}
	tok, ok := p.expect(token.Ident)
	if !ok {
		return ast.NoNodeID, false
	}
	name := p.intern(tok.Text)
	return p.tree.New(ast.Node{Kind: ast.KindTypeRef, Span: tok.Span, Name: name}), true
}
