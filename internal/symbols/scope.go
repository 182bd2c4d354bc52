package symbols

import "refu/internal/source"

// ScopeKind classifies what kind of lexical construct a scope represents.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeModule             // top-level declarations of one module
	ScopeFunction           // a function's parameter + body scope
	ScopeBlock              // a nested block ({ ... }, if/elif/else arm)
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is a lexical scope: a name-to-record index plus a link to its
// lexically enclosing parent. Lookups walk Parent chains outward, the
// classic lexical-scoping rule from spec.md §4.4.
type Scope struct {
	Kind    ScopeKind
	Parent  ScopeID
	Span    source.Span
	names   map[source.StringID]RecordID
	order   []RecordID // insertion order, for deterministic iteration
}

// Declare binds name to rec within the scope. ok is false if name is
// already bound directly in this scope (not an outer one) — the caller
// should report ErrDuplicateSymbol.
func (s *Scope) declare(name source.StringID, rec RecordID) bool {
	if s.names == nil {
		s.names = make(map[source.StringID]RecordID)
	}
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = rec
	s.order = append(s.order, rec)
	return true
}

func (s *Scope) localLookup(name source.StringID) (RecordID, bool) {
	id, ok := s.names[name]
	return id, ok
}
