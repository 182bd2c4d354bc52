package types

// Merge copies every non-elementary entry of dep into s, returning a
// mapping from dep's TypeIDs to s's TypeIDs. Elementary entries need no
// remapping: NewSet seeds every Set with the same elementaryOrder, so
// elementary TypeIDs already coincide across modules (spec.md §8's "RIR
// UID uniqueness: ... elementary types share their UIDs across modules").
//
// dep's entries were built by getOrCreate, which always finishes
// constructing (and interning) a type's operands before the type itself,
// so a single increasing-ID pass over dep.entries is enough: by the time
// Merge reaches entry N, every TypeID N refers to is already remapped.
func (s *Set) Merge(dep *Set) map[TypeID]TypeID {
	remap := make(map[TypeID]TypeID, len(dep.entries))
	remap[NoTypeID] = NoTypeID
	for tag, depID := range dep.elem {
		remap[depID] = s.elem[tag]
	}

	start := TypeID(1 + len(elementaryOrder))
	for id := start; int(id) < len(dep.entries); id++ {
		t := dep.entries[id]
		switch t.Kind {
		case KindDefined:
			if existing, ok := s.defined[t.Name]; ok {
				remap[id] = existing
				continue
			}
			newID := s.internRaw(Type{Kind: KindDefined, Name: t.Name, Body: remap[t.Body]})
			s.defined[t.Name] = newID
			remap[id] = newID
		case KindLeaf:
			remap[id] = s.internRaw(Type{Kind: KindLeaf, Name: t.Name, Inner: remap[t.Inner]})
		case KindProduct, KindSum, KindImplication:
			remap[id] = s.internRaw(Type{Kind: t.Kind, Left: remap[t.Left], Right: remap[t.Right]})
		case KindGeneric:
			remap[id] = s.internRaw(Type{Kind: KindGeneric, Name: t.Name})
		}
	}
	return remap
}
