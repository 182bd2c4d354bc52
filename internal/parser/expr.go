package parser

import (
	"strconv"

	"refu/internal/ast"
	"refu/internal/token"
)

// binPrec gives each binary operator's precedence; higher binds tighter.
// Comparisons are non-chaining in practice (the grammar doesn't forbid
// chaining, but the analyzer would reject a non-bool operand anyway).
var binPrec = map[token.Kind]int{
	token.OrOr:   1,
	token.AndAnd: 2,
	token.EqEq:   3, token.BangEq: 3,
	token.Lt: 3, token.LtEq: 3, token.Gt: 3, token.GtEq: 3,
	token.Plus: 4, token.Minus: 4,
	token.Star: 5, token.Slash: 5,
}

var tokToOp = map[token.Kind]ast.BinOp{
	token.Plus: ast.OpAdd, token.Minus: ast.OpSub,
	token.Star: ast.OpMul, token.Slash: ast.OpDiv,
	token.EqEq: ast.OpEq, token.BangEq: ast.OpNe,
	token.Lt: ast.OpLt, token.LtEq: ast.OpLe,
	token.Gt: ast.OpGt, token.GtEq: ast.OpGe,
	token.AndAnd: ast.OpAnd, token.OrOr: ast.OpOr,
}

func (p *Parser) parseExpr() (ast.NodeID, bool) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) (ast.NodeID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		prec, isOp := binPrec[p.peek().Kind]
		if !isOp || prec < minPrec {
			return left, true
		}
		opTok := p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.tree.Node(left).Span.Cover(p.tree.Node(right).Span)
		left = p.tree.New(ast.Node{
			Kind: ast.KindBinaryOp, Span: span,
			Op: tokToOp[opTok.Kind], Left: left, Right: right,
		})
	}
}

func (p *Parser) parseUnary() (ast.NodeID, bool) {
	// No unary operators in the current grammar: the lexer scans numbers
	// from their first digit and always emits '-' as a separate operator,
	// so "-" parses only as binary subtraction and an expression that
	// starts with "-" is a syntax error.
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.NodeID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoNodeID, false
	}
	for p.at(token.OParen) {
		p.advance()
		var args []ast.NodeID
		for !p.at(token.CParen) && !p.at(token.EOF) {
			arg, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			args = append(args, arg)
			if p.at(token.Comma) {
				p.advance()
			} else {
				break
			}
		}
		end, ok := p.expect(token.CParen)
		if !ok {
			return ast.NoNodeID, false
		}
		span := p.tree.Node(expr).Span.Cover(end.Span)
		expr = p.tree.New(ast.Node{Kind: ast.KindCall, Span: span, Left: expr, Children: args})
	}
	return expr, true
}

func (p *Parser) parsePrimary() (ast.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		name := p.intern(tok.Text)
		return p.tree.New(ast.Node{Kind: ast.KindIdent, Span: tok.Span, Name: name}), true
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errorf(tok.Span, "malformed integer literal %q", tok.Text)
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.Node{Kind: ast.KindIntConst, Span: tok.Span, IntVal: v}), true
	case token.FloatLit:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.errorf(tok.Span, "malformed float literal %q", tok.Text)
			return ast.NoNodeID, false
		}
		return p.tree.New(ast.Node{Kind: ast.KindFloatConst, Span: tok.Span, FloatVal: v}), true
	case token.StringLit:
		p.advance()
		name := p.intern(tok.Text)
		return p.tree.New(ast.Node{Kind: ast.KindStringConst, Span: tok.Span, Name: name}), true
	case token.KwTrue:
		p.advance()
		return p.tree.New(ast.Node{Kind: ast.KindIntConst, Span: tok.Span, IntVal: 1}), true
	case token.KwFalse:
		p.advance()
		return p.tree.New(ast.Node{Kind: ast.KindIntConst, Span: tok.Span, IntVal: 0}), true
	case token.OParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.CParen); !ok {
			return ast.NoNodeID, false
		}
		return inner, true
	default:
		p.errorf(tok.Span, "expected an expression, got %s", tok.Kind)
		return ast.NoNodeID, false
	}
}
