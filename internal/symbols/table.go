package symbols

import "refu/internal/source"

// Table owns one module's scope tree and record arena.
type Table struct {
	scopes  *scopeArena
	records *recordArena
}

// NewTable builds an empty symbol table with a single module-level root
// scope and returns its ID.
func NewTable() (*Table, ScopeID) {
	t := &Table{
		scopes:  newScopeArena(),
		records: newRecordArena(),
	}
	root := t.scopes.alloc(Scope{Kind: ScopeModule, Parent: NoScopeID})
	return t, root
}

// OpenScope allocates a new scope nested inside parent.
func (t *Table) OpenScope(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	return t.scopes.alloc(Scope{Kind: kind, Parent: parent, Span: span})
}

// Scope returns the scope for id, or nil if id is invalid.
func (t *Table) Scope(id ScopeID) *Scope {
	return t.scopes.get(id)
}

// Declare binds name to a newly-allocated record in scope. It fails with a
// *DuplicateSymbolError if name is already declared directly in scope
// (shadowing an outer scope's binding of the same name is allowed).
func (t *Table) Declare(scope ScopeID, rec Record) (RecordID, error) {
	s := t.scopes.get(scope)
	if s == nil {
		return NoRecordID, ErrDuplicateSymbol // unreachable with a valid caller; defensive only
	}
	if existing, exists := s.localLookup(rec.Name); exists {
		prev := t.records.get(existing)
		return NoRecordID, &DuplicateSymbolError{
			Name:     rec.Name,
			Previous: prev.Span,
			Conflict: rec.Span,
		}
	}
	id := t.records.alloc(rec)
	s.declare(rec.Name, id)
	return id, nil
}

// Record returns the record for id, or nil if id is invalid.
func (t *Table) Record(id RecordID) *Record {
	return t.records.get(id)
}

// Lookup resolves name starting at scope and walking Parent links outward
// until found, per spec.md §4.4's lexical-scoping rule.
func (t *Table) Lookup(scope ScopeID, name source.StringID) (RecordID, bool) {
	for s := t.scopes.get(scope); s != nil; s = t.scopes.get(s.Parent) {
		if id, ok := s.localLookup(name); ok {
			return id, true
		}
	}
	return NoRecordID, false
}

// Iterate calls fn for every record declared directly in scope, in
// declaration order.
func (t *Table) Iterate(scope ScopeID, fn func(RecordID, *Record)) {
	s := t.scopes.get(scope)
	if s == nil {
		return
	}
	for _, id := range s.order {
		fn(id, t.records.get(id))
	}
}

// Len reports the total number of declared records across all scopes.
func (t *Table) Len() int { return t.records.len() }
