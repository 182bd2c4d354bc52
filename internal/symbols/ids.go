package symbols

// ScopeID identifies a lexical scope within a Table.
type ScopeID uint32

// NoScopeID marks the absence of a scope (e.g. the parent of a file root).
const NoScopeID ScopeID = 0

// IsValid reports whether id refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// RecordID identifies a declared symbol within a Table.
type RecordID uint32

// NoRecordID marks the absence of a symbol.
const NoRecordID RecordID = 0

// IsValid reports whether id refers to an allocated record.
func (id RecordID) IsValid() bool { return id != NoRecordID }
