package lexer

import (
	"refu/internal/diag"
	"refu/internal/token"
)

// scanOperator consumes one punctuation or operator token, preferring the
// longest match (e.g. "->" over "-", "==" over "=").
func (l *Lexer) scanOperator() token.Token {
	m := l.cur.mark()
	b := l.cur.bump()
	kind := token.Invalid
	switch b {
	case '{':
		kind = token.OCBrace
	case '}':
		kind = token.CCBrace
	case '(':
		kind = token.OParen
	case ')':
		kind = token.CParen
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case '.':
		kind = token.Dot
	case '|':
		if l.cur.peek() == '|' {
			l.cur.bump()
			kind = token.OrOr
		} else {
			kind = token.Pipe
		}
	case '&':
		if l.cur.peek() == '&' {
			l.cur.bump()
			kind = token.AndAnd
		}
	case '+':
		kind = token.Plus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '-':
		if l.cur.peek() == '>' {
			l.cur.bump()
			kind = token.Arrow
		} else {
			kind = token.Minus
		}
	case '=':
		if l.cur.peek() == '=' {
			l.cur.bump()
			kind = token.EqEq
		} else {
			kind = token.Assign
		}
	case '!':
		if l.cur.peek() == '=' {
			l.cur.bump()
			kind = token.BangEq
		}
	case '<':
		if l.cur.peek() == '=' {
			l.cur.bump()
			kind = token.LtEq
		} else {
			kind = token.Lt
		}
	case '>':
		if l.cur.peek() == '=' {
			l.cur.bump()
			kind = token.GtEq
		} else {
			kind = token.Gt
		}
	}
	span := l.cur.spanFrom(m)
	if kind == token.Invalid {
		l.report.Report(diag.CodeSyntaxError, diag.SevSyntaxError, span, "unexpected character", nil)
	}
	return token.Token{Kind: kind, Span: span, Text: l.cur.file.Content[m:l.cur.off]}
}
