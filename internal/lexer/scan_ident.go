package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"refu/internal/token"
)

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// scanIdent consumes an identifier or keyword. Non-ASCII identifiers are
// normalized to NFC so that visually identical spellings reaching the
// string table from different source encodings intern to the same
// source.StringID.
func (l *Lexer) scanIdent() token.Token {
	m := l.cur.mark()
	for !l.cur.eof() && isIdentCont(l.cur.peek()) {
		if l.cur.peek() < utf8.RuneSelf {
			l.cur.bump()
			continue
		}
		// Multi-byte rune: consume its remaining continuation bytes too.
		start := l.cur.off
		r, size := decodeRune(l.cur.file.Content[start:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		for i := 0; i < size; i++ {
			l.cur.bump()
		}
	}
	span := l.cur.spanFrom(m)
	text := l.cur.file.Content[m:l.cur.off]
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
	}
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: span, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: span, Text: text}
}

func decodeRune(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	return r, size
}
