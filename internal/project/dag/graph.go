package dag

import (
	"fmt"
	"slices"

	"refu/internal/diag"
	"refu/internal/project"
)

// Graph is a dependency graph over module slots, in both directions:
//   - DependsOn[m]  lists the modules m imports (m's prerequisites).
//   - Dependents[m] lists the modules that import m (m's consumers).
//
// Indeg[m] is the number of present prerequisites of m still unresolved by
// the topological sort; it starts at len(DependsOn[m]) restricted to
// present modules.
type Graph struct {
	DependsOn  [][]ModuleID
	Dependents [][]ModuleID
	Indeg      []int
	Present    []bool
}

// Slot carries everything known about one module's position in the graph.
type Slot struct {
	Meta    project.ModuleMeta
	Present bool
}

// BuildGraph constructs the dependency graph from dependency-discovery
// metadata. A reporter, if non-nil, receives diagnostics for missing
// modules, self-imports and duplicate module paths. The standard library
// module (named by stdlibPath, normally the project manifest's configured
// stdlib_path) is always treated as present even without a corresponding
// ModuleMeta, since it is supplied by the driver rather than discovered
// from source.
func BuildGraph(idx Index, metas []project.ModuleMeta, stdlibPath string, r diag.Reporter) (Graph, []Slot) {
	n := len(idx.IDToName)
	g := Graph{
		DependsOn:  make([][]ModuleID, n),
		Dependents: make([][]ModuleID, n),
		Indeg:      make([]int, n),
		Present:    make([]bool, n),
	}
	slots := make([]Slot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, meta := range metas {
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		slot := &slots[id]
		if slot.Present {
			if r != nil {
				r.Report(diag.CodeDuplicateModule, diag.SevSemanticError, meta.Span,
					fmt.Sprintf("duplicate module %q", meta.Path), nil)
			}
			continue
		}
		slot.Meta = meta
		slot.Present = true
		g.Present[id] = true
	}
	if id, ok := idx.NameToID[stdlibPath]; ok {
		g.Present[id] = true
		slots[id].Present = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, imp := range slot.Meta.Imports {
			if imp.Foreign || imp.Path == "" {
				continue
			}
			toID, ok := idx.NameToID[imp.Path]
			if !ok {
				continue
			}
			if ModuleID(from) == toID {
				if r != nil {
					r.Report(diag.CodeMissingModule, diag.SevSemanticError, imp.Span,
						fmt.Sprintf("module %q imports itself", slot.Meta.Path), nil)
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			if !g.Present[int(toID)] {
				if r != nil {
					r.Report(diag.CodeMissingModule, diag.SevSemanticError, imp.Span,
						fmt.Sprintf("module %q imports missing module %q", slot.Meta.Path, idx.IDToName[toID]), nil)
				}
				continue
			}
			g.DependsOn[from] = append(g.DependsOn[from], toID)
			g.Dependents[toID] = append(g.Dependents[toID], ModuleID(from))
			g.Indeg[from]++
		}
		if len(g.DependsOn[from]) > 1 {
			slices.Sort(g.DependsOn[from])
		}
	}
	for i := range g.Dependents {
		if len(g.Dependents[i]) > 1 {
			slices.Sort(g.Dependents[i])
		}
	}

	return g, slots
}
