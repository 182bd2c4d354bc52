package lexer

import "refu/internal/token"

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// scanNumber consumes an integer or floating-point literal. A '.' followed
// by a digit switches the token to FloatLit; a bare trailing '.' (e.g. "3.")
// is not consumed by this function and is left for the caller to handle as
// a separate Dot token.
func (l *Lexer) scanNumber() token.Token {
	m := l.cur.mark()
	for isDigit(l.cur.peek()) {
		l.cur.bump()
	}
	kind := token.IntLit
	if l.cur.peek() == '.' && isDigit(l.cur.peekAt(1)) {
		kind = token.FloatLit
		l.cur.bump() // '.'
		for isDigit(l.cur.peek()) {
			l.cur.bump()
		}
	}
	span := l.cur.spanFrom(m)
	return token.Token{Kind: kind, Span: span, Text: l.cur.file.Content[m:l.cur.off]}
}
