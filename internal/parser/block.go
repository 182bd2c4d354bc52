package parser

import (
	"refu/internal/ast"
	"refu/internal/token"
)

func (p *Parser) parseBlock() (ast.NodeID, bool) {
	start, ok := p.expect(token.OCBrace)
	if !ok {
		return ast.NoNodeID, false
	}
	var stmts []ast.NodeID
	for !p.at(token.CCBrace) && !p.at(token.EOF) {
		before := p.pos
		stmt, ok := p.parseStmt()
		if !ok {
			p.resyncToBlockBoundary()
		} else {
			stmts = append(stmts, stmt)
		}
		if p.pos == before && !p.at(token.CCBrace) && !p.at(token.EOF) {
			p.advance()
		}
	}
	end, ok := p.expect(token.CCBrace)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.tree.New(ast.Node{Kind: ast.KindBlock, Span: start.Span.Cover(end.Span), Children: stmts}), true
}

// resyncToBlockBoundary skips tokens until a likely statement boundary: the
// closing brace of the enclosing block, or a token that starts a new
// statement.
func (p *Parser) resyncToBlockBoundary() {
	for !p.at(token.EOF) && !p.at(token.CCBrace) {
		switch p.peek().Kind {
		case token.KwLet, token.KwVar, token.KwIf, token.KwReturn:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStmt() (ast.NodeID, bool) {
	switch p.peek().Kind {
	case token.KwLet, token.KwVar:
		return p.parseVarDecl()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwIf:
		return p.parseIfExpr()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVarDecl() (ast.NodeID, bool) {
	kwTok := p.advance()
	mutable := kwTok.Kind == token.KwVar
	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return ast.NoNodeID, false
	}
	var typeExpr ast.NodeID = ast.NoNodeID
	if p.at(token.Colon) {
		p.advance()
		typeExpr, ok = p.parseTypeAtom()
		if !ok {
			return ast.NoNodeID, false
		}
	}
	if _, ok := p.expect(token.Assign); !ok {
		return ast.NoNodeID, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	span := kwTok.Span.Cover(p.tree.Node(init).Span)
	name := p.intern(nameTok.Text)
	return p.tree.New(ast.Node{
		Kind: ast.KindVarDecl, Span: span, Name: name,
		Left: typeExpr, Right: init, Bool: mutable,
	}), true
}

func (p *Parser) parseReturn() (ast.NodeID, bool) {
	kwTok := p.advance()
	if p.at(token.CCBrace) {
		return p.tree.New(ast.Node{Kind: ast.KindReturn, Span: kwTok.Span, Left: ast.NoNodeID}), true
	}
	val, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	span := kwTok.Span.Cover(p.tree.Node(val).Span)
	return p.tree.New(ast.Node{Kind: ast.KindReturn, Span: span, Left: val}), true
}

func (p *Parser) parseExprStmt() (ast.NodeID, bool) {
	lhs, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.Assign) {
		p.advance()
		rhs, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.tree.Node(lhs).Span.Cover(p.tree.Node(rhs).Span)
		return p.tree.New(ast.Node{Kind: ast.KindAssign, Span: span, Left: lhs, Right: rhs}), true
	}
	return lhs, true
}

// parseIfExpr parses "if COND { ... } (elif COND { ... })* (else { ... })?".
// An elif chain is lowered as a nested if-expression inside the Else slot.
func (p *Parser) parseIfExpr() (ast.NodeID, bool) {
	kwTok := p.advance() // 'if' or 'elif'
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoNodeID, false
	}
	end := p.tree.Node(then).Span
	var elseBranch ast.NodeID = ast.NoNodeID
	switch p.peek().Kind {
	case token.KwElif:
		elseBranch, ok = p.parseIfExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		end = p.tree.Node(elseBranch).Span
	case token.KwElse:
		p.advance()
		elseBranch, ok = p.parseBlock()
		if !ok {
			return ast.NoNodeID, false
		}
		end = p.tree.Node(elseBranch).Span
	}
	span := kwTok.Span.Cover(end)
	return p.tree.New(ast.Node{Kind: ast.KindIfExpr, Span: span, Left: cond, Right: then, Else: elseBranch}), true
}
