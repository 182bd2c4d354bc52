package diag

// Bag collects diagnostics in encounter order for a single module's
// compilation. The driver flushes a Bag to stdout once a module's pipeline
// stages have all run.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Items returns all diagnostics in the order they were added.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether any diagnostic is a syntax or semantic error.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity.IsError() {
			return true
		}
	}
	return false
}

// Reporter returns a Reporter that appends into this bag.
func (b *Bag) Reporter() Reporter {
	return BagReporter{Bag: b}
}
