package token

// Kind enumerates lexical token categories.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	FloatLit
	StringLit

	KwFn
	KwLet
	KwVar
	KwType
	KwIf
	KwElif
	KwElse
	KwImport
	KwReturn
	KwTrue
	KwFalse
	KwNil

	Plus
	Minus
	Star
	Slash
	Assign
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr
	Pipe
	Comma
	Colon
	Arrow
	Dot

	OCBrace // {
	CCBrace // }
	OParen  // (
	CParen  // )
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "IDENTIFIER"
	case IntLit:
		return "INT_LITERAL"
	case FloatLit:
		return "FLOAT_LITERAL"
	case StringLit:
		return "STRING_LITERAL"
	case KwFn:
		return "fn"
	case KwLet:
		return "let"
	case KwVar:
		return "var"
	case KwType:
		return "type"
	case KwIf:
		return "if"
	case KwElif:
		return "elif"
	case KwElse:
		return "else"
	case KwImport:
		return "import"
	case KwReturn:
		return "return"
	case KwTrue:
		return "true"
	case KwFalse:
		return "false"
	case KwNil:
		return "nil"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Assign:
		return "="
	case EqEq:
		return "=="
	case BangEq:
		return "!="
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case AndAnd:
		return "&&"
	case OrOr:
		return "||"
	case Pipe:
		return "|"
	case Comma:
		return ","
	case Colon:
		return ":"
	case Arrow:
		return "->"
	case Dot:
		return "."
	case OCBrace:
		return "OCBRACE"
	case CCBrace:
		return "CCBRACE"
	case OParen:
		return "OPAREN"
	case CParen:
		return "CPAREN"
	default:
		return "INVALID"
	}
}
