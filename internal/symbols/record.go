package symbols

import (
	"refu/internal/source"
	"refu/internal/types"
)

// RecordKind classifies what a declared name refers to.
type RecordKind uint8

const (
	RecordInvalid RecordKind = iota
	RecordModule
	RecordImport
	RecordFunction
	RecordParam
	RecordLet
	RecordVar
	RecordType
	RecordLeaf // a sum-type variant label, scoped to its defining type
)

func (k RecordKind) String() string {
	switch k {
	case RecordModule:
		return "module"
	case RecordImport:
		return "import"
	case RecordFunction:
		return "function"
	case RecordParam:
		return "param"
	case RecordLet:
		return "let"
	case RecordVar:
		return "var"
	case RecordType:
		return "type"
	case RecordLeaf:
		return "leaf"
	default:
		return "invalid"
	}
}

// Record is a declared symbol: a name bound in some Scope, with the
// canonical TypeID the analyzer has attached to it. First pass sets it for
// types, functions, parameters and annotated let/var declarations; an
// unannotated let/var gets it in typecheck (types.NoTypeID until then).
type Record struct {
	Name    source.StringID
	Kind    RecordKind
	Scope   ScopeID
	Span    source.Span
	Type    types.TypeID
	Mutable bool // true for var, false for let/const/param
}
