package token

// keywords maps a reserved identifier spelling to its Kind.
var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"var":    KwVar,
	"type":   KwType,
	"if":     KwIf,
	"elif":   KwElif,
	"else":   KwElse,
	"import": KwImport,
	"return": KwReturn,
	"true":   KwTrue,
	"false":  KwFalse,
	"nil":    KwNil,
}

// LookupKeyword resolves an identifier spelling to its keyword Kind. ok is
// false for ordinary identifiers.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
