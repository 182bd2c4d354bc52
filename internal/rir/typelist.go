package rir

import (
	"fmt"
	"strings"

	"refu/internal/source"
	"refu/internal/types"
)

// Category classifies one entry of the RIR type list.
type Category uint8

const (
	// CatElementary is a scalar type; it never gets a typedef line.
	CatElementary Category = iota
	// CatDefinedSimple is a non-sum `type NAME { ... }` declaration.
	CatDefinedSimple
	// CatDefinedSum is a sum `type NAME { a | b }` declaration, lowered to
	// a payload-plus-selector record (spec.md §4.2's "composite sum").
	CatDefinedSum
	// CatVariantPayload is one sum variant's own field record, named
	// internal_struct{uid} (spec.md §4.7's constructor lowering rule).
	CatVariantPayload
)

// Field is one named, typed member of a typedef entry.
type Field struct {
	Name string
	Type TypeUID
}

// TypeEntry is one row of the RIR type list.
type TypeEntry struct {
	UID      TypeUID
	Name     string
	Category Category
	Fields   []Field
}

// TypeList is spec.md §4.3's RIR type list: a flat enumeration of every
// value-carrying type reachable from a module's canonical type set, each
// given a stable UID. Elementary types share one UID assignment across
// every module (spec.md §8's "elementary types share their UIDs across
// modules"); composite UIDs are assigned per module in ascending TypeID
// order. Structurally identical sum-variant payloads are deduplicated at
// construction time, resolving spec.md §9's note that "the RIR-type list
// builder itself [should] deduplicate sum types" instead of patching
// around a duplicate later.
type TypeList struct {
	entries []TypeEntry
	byType  map[types.TypeID]TypeUID
	byKey   map[string]TypeUID
	byUID   map[TypeUID]int
	next    TypeUID
}

// elemUID is the process-wide, fixed mapping from elementary tag to RIR
// UID, derived from types.ElementaryOrder so every module's TypeList
// agrees on it without coordinating through any shared state.
var elemUID = buildElemUID()

func buildElemUID() map[types.ElemTag]TypeUID {
	order := types.ElementaryOrder()
	m := make(map[types.ElemTag]TypeUID, len(order))
	for i, tag := range order {
		m[tag] = TypeUID(i + 1)
	}
	return m
}

// namedType is a (possibly unlabeled) field type extracted from a Leaf or
// a bare type, preserving the label spec.md's typedef format requires.
type namedType struct {
	Name source.StringID
	Type types.TypeID
}

func flattenNamed(set *types.Set, t types.TypeID) []namedType {
	ty, ok := set.Lookup(t)
	if !ok {
		return nil
	}
	switch ty.Kind {
	case types.KindProduct:
		return append(flattenNamed(set, ty.Left), flattenNamed(set, ty.Right)...)
	case types.KindLeaf:
		return []namedType{{Name: ty.Name, Type: ty.Inner}}
	default:
		return []namedType{{Type: t}}
	}
}

func flattenSumVariants(set *types.Set, t types.TypeID) [][]namedType {
	ty, ok := set.Lookup(t)
	if ok && ty.Kind == types.KindSum {
		return append(flattenSumVariants(set, ty.Left), flattenSumVariants(set, ty.Right)...)
	}
	return [][]namedType{flattenNamed(set, t)}
}

// BuildTypeList walks set in ascending TypeID order, assigning each defined
// type (and each distinct sum-variant payload it contains) a UID and
// resolving its field labels through strs.
func BuildTypeList(set *types.Set, strs *source.Table) *TypeList {
	l := &TypeList{
		byType: make(map[types.TypeID]TypeUID),
		byKey:  make(map[string]TypeUID),
		byUID:  make(map[TypeUID]int),
		next:   TypeUID(len(types.ElementaryOrder()) + 1),
	}
	for _, tag := range types.ElementaryOrder() {
		uid := elemUID[tag]
		l.byType[set.Elementary(tag)] = uid
		l.append(TypeEntry{UID: uid, Name: tag.String(), Category: CatElementary})
	}
	for id := types.TypeID(1); ; id++ {
		t, ok := set.Lookup(id)
		if !ok {
			break
		}
		if t.Kind != types.KindDefined {
			continue
		}
		l.addDefined(set, strs, id, t)
	}
	return l
}

func (l *TypeList) append(e TypeEntry) {
	l.byUID[e.UID] = len(l.entries)
	l.entries = append(l.entries, e)
}

func (l *TypeList) alloc() TypeUID {
	uid := l.next
	l.next++
	return uid
}

func (l *TypeList) addDefined(set *types.Set, strs *source.Table, id types.TypeID, t types.Type) {
	if _, ok := l.byType[id]; ok {
		return
	}
	name := strs.MustGet(t.Name)
	body, ok := set.Lookup(t.Body)
	if !ok {
		return
	}
	if body.Kind == types.KindSum {
		variants := flattenSumVariants(set, t.Body)
		payloadUID := l.addVariantPayload(set, strs, variants[0])
		for _, v := range variants[1:] {
			l.addVariantPayload(set, strs, v)
		}
		uid := l.alloc()
		l.byType[id] = uid
		l.append(TypeEntry{
			UID: uid, Name: name, Category: CatDefinedSum,
			Fields: []Field{
				{Name: "variant", Type: payloadUID},
				{Name: "selector", Type: elemUID[types.ElemI32]},
			},
		})
		return
	}
	fields := l.toFields(set, strs, flattenNamed(set, t.Body))
	uid := l.alloc()
	l.byType[id] = uid
	l.append(TypeEntry{UID: uid, Name: name, Category: CatDefinedSimple, Fields: fields})
}

func (l *TypeList) addVariantPayload(set *types.Set, strs *source.Table, variant []namedType) TypeUID {
	fields := l.toFields(set, strs, variant)
	key := payloadKey(fields)
	if uid, ok := l.byKey[key]; ok {
		return uid
	}
	uid := l.alloc()
	l.byKey[key] = uid
	l.append(TypeEntry{
		UID: uid, Name: fmt.Sprintf("internal_struct%d", uid), Category: CatVariantPayload, Fields: fields,
	})
	return uid
}

func (l *TypeList) toFields(set *types.Set, strs *source.Table, named []namedType) []Field {
	fields := make([]Field, len(named))
	for i, nt := range named {
		name := fmt.Sprintf("field%d", i)
		if nt.Name != source.NoStringID {
			name = strs.MustGet(nt.Name)
		}
		fields[i] = Field{Name: name, Type: l.typeUID(set, strs, nt.Type)}
	}
	return fields
}

func (l *TypeList) typeUID(set *types.Set, strs *source.Table, id types.TypeID) TypeUID {
	if uid, ok := l.byType[id]; ok {
		return uid
	}
	t, ok := set.Lookup(id)
	if !ok {
		return NoTypeUID
	}
	if t.Kind == types.KindDefined {
		l.addDefined(set, strs, id, t)
		return l.byType[id]
	}
	return NoTypeUID
}

func payloadKey(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%s:%d|", f.Name, f.Type)
	}
	return b.String()
}

// Lookup returns the RIR UID assigned to a canonical TypeID.
func (l *TypeList) Lookup(id types.TypeID) (TypeUID, bool) {
	uid, ok := l.byType[id]
	return uid, ok
}

// Entry returns the type-list row for uid, or nil if unassigned.
func (l *TypeList) Entry(uid TypeUID) *TypeEntry {
	i, ok := l.byUID[uid]
	if !ok {
		return nil
	}
	return &l.entries[i]
}

// Name returns the printable type name for uid ("?" if unassigned).
func (l *TypeList) Name(uid TypeUID) string {
	if e := l.Entry(uid); e != nil {
		return e.Name
	}
	return "?"
}

// Entries returns every row of the list, in assignment order.
func (l *TypeList) Entries() []TypeEntry {
	return l.entries
}

// VariantPayloadFor resolves the internal_struct UID of the variantIndex'th
// variant of a sum-typed definedT, for the constructor-lowering rule that
// already knows which variant typecheck selected (spec.md §4.7) and must
// not re-derive it a second way.
func (l *TypeList) VariantPayloadFor(set *types.Set, strs *source.Table, definedT types.TypeID, variantIndex int) (TypeUID, bool) {
	t, ok := set.Lookup(definedT)
	if !ok || t.Kind != types.KindDefined {
		return NoTypeUID, false
	}
	variants := flattenSumVariants(set, t.Body)
	if variantIndex < 0 || variantIndex >= len(variants) {
		return NoTypeUID, false
	}
	fields := l.toFields(set, strs, variants[variantIndex])
	uid, ok := l.byKey[payloadKey(fields)]
	return uid, ok
}
