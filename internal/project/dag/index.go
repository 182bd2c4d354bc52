package dag

import "refu/internal/project"

// ModuleID re-exports project.ModuleID for callers that only import dag.
type ModuleID = project.ModuleID

// Index maps module paths to stable ModuleIDs. ModuleID 0 is reserved
// (project.NoModuleID); real modules start at 1 so the zero value of
// ModuleID can never be confused with a present module.
type Index struct {
	NameToID map[string]ModuleID
	IDToName []string // IDToName[0] is unused
}

// BuildIndex assigns a ModuleID to every distinct path seen across the
// metas themselves and their import targets, so that an import of a module
// that doesn't (yet) exist still gets a stable slot to report against.
func BuildIndex(metas []project.ModuleMeta) Index {
	idx := Index{
		NameToID: make(map[string]ModuleID, len(metas)+1),
		IDToName: []string{""},
	}
	add := func(name string) {
		if _, ok := idx.NameToID[name]; ok {
			return
		}
		id := ModuleID(len(idx.IDToName))
		idx.IDToName = append(idx.IDToName, name)
		idx.NameToID[name] = id
	}
	for _, m := range metas {
		add(m.Path)
		for _, imp := range m.Imports {
			if !imp.Foreign {
				add(imp.Path)
			}
		}
	}
	return idx
}
