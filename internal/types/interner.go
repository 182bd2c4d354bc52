package types

import (
	"errors"

	"refu/internal/source"
)

// errInvalidDesc reports a malformed or incomplete type description reaching
// the canonicalizer — always a bug in the analyzer's AST-to-Desc lowering,
// never user input, which is why it carries no source.Span.
var errInvalidDesc = errors.New("types: invalid type description")

// elementaryOrder fixes the insertion order of elementary singletons so
// that every module's Set assigns them identical TypeIDs — the types.Set
// equivalent of "elementary-type singletons are process-wide read-only
// after initialization" (spec §5): they are re-derived per Set rather than
// shared by pointer, but deterministically so they always compare equal in
// ID across modules.
var elementaryOrder = []ElemTag{
	ElemI8, ElemI16, ElemI32, ElemI64,
	ElemU8, ElemU16, ElemU32, ElemU64,
	ElemF32, ElemF64,
	ElemString, ElemBool, ElemNil,
}

// Set is a module's canonical type set: a structural hash-cons of every
// type description encountered while analyzing that module.
type Set struct {
	entries []Type // entries[0] is the invalid sentinel
	elem    map[ElemTag]TypeID
	defined map[source.StringID]TypeID
}

// NewSet constructs an empty type set seeded with the elementary
// singletons.
func NewSet() *Set {
	s := &Set{
		entries: []Type{{Kind: KindInvalid}},
		elem:    make(map[ElemTag]TypeID, len(elementaryOrder)),
		defined: make(map[source.StringID]TypeID),
	}
	for _, tag := range elementaryOrder {
		s.internRaw(Type{Kind: KindElementary, Elem: tag})
		s.elem[tag] = TypeID(len(s.entries) - 1)
	}
	return s
}

// ElementaryOrder returns the fixed enumeration order NewSet seeds every Set
// with, so a consumer outside this package (the rir package's UID
// assignment, in particular) can derive the same cross-module-shared
// identity for elementary types without duplicating the list.
func ElementaryOrder() []ElemTag {
	return append([]ElemTag(nil), elementaryOrder...)
}

// Elementary returns the canonical TypeID for an elementary tag.
func (s *Set) Elementary(tag ElemTag) TypeID {
	return s.elem[tag]
}

// Lookup returns the descriptor for id.
func (s *Set) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(s.entries) {
		return Type{}, false
	}
	return s.entries[id], true
}

// MustLookup panics if id is invalid. Used where construction guarantees it.
func (s *Set) MustLookup(id TypeID) Type {
	t, ok := s.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// DefinedByName looks up a previously declared named type.
func (s *Set) DefinedByName(name source.StringID) (TypeID, bool) {
	id, ok := s.defined[name]
	return id, ok
}

func (s *Set) internRaw(t Type) TypeID {
	id := TypeID(len(s.entries))
	s.entries = append(s.entries, t)
	return id
}

// CompareScratch holds the transient state of one structural-equality
// traversal under TYPECMP_GENERIC: a free generic parameter binds to the
// first concrete type it is compared against and must match that binding on
// every later comparison made with the same scratch; findOrInsert resets it
// before each candidate comparison. A new scratch is created per GetOrCreate
// call and per comparison in the analyzer, so none is shared across
// goroutines.
type CompareScratch struct {
	bindings map[source.StringID]TypeID
}

// NewCompareScratch constructs an empty comparison scratch buffer.
func NewCompareScratch() *CompareScratch {
	return &CompareScratch{bindings: make(map[source.StringID]TypeID)}
}

func (c *CompareScratch) reset() {
	clear(c.bindings)
}

// CmpMode selects structural-equality semantics.
type CmpMode uint8

const (
	// CmpIdentical requires exact structural equality; generics never match.
	CmpIdentical CmpMode = iota
	// CmpGeneric allows a free generic parameter to bind once and match
	// consistently thereafter (TYPECMP_GENERIC).
	CmpGeneric
)

// Equal reports whether a and b (TypeIDs within s) are equal under mode.
func (s *Set) Equal(a, b TypeID, mode CmpMode, scratch *CompareScratch) bool {
	if a == b {
		return true
	}
	ta, aok := s.Lookup(a)
	tb, bok := s.Lookup(b)
	if !aok || !bok {
		return false
	}
	if mode == CmpGeneric {
		if ta.Kind == KindGeneric {
			return s.bindGeneric(ta.Name, b, scratch)
		}
		if tb.Kind == KindGeneric {
			return s.bindGeneric(tb.Name, a, scratch)
		}
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindElementary:
		return ta.Elem == tb.Elem
	case KindDefined:
		return ta.Name == tb.Name && s.Equal(ta.Body, tb.Body, mode, scratch)
	case KindProduct, KindSum, KindImplication:
		return s.Equal(ta.Left, tb.Left, mode, scratch) && s.Equal(ta.Right, tb.Right, mode, scratch)
	case KindLeaf:
		return ta.Name == tb.Name && s.Equal(ta.Inner, tb.Inner, mode, scratch)
	case KindGeneric:
		return ta.Name == tb.Name
	default:
		return false
	}
}

func (s *Set) bindGeneric(name source.StringID, concrete TypeID, scratch *CompareScratch) bool {
	if scratch == nil {
		return false
	}
	if bound, ok := scratch.bindings[name]; ok {
		return bound == concrete
	}
	scratch.bindings[name] = concrete
	return true
}

// Desc is a neutral (AST-independent) description of a type expression,
// built by the analyzer's first pass from the parsed AST so that the types
// package never needs to import the ast package (breaking the cyclic
// AST<->type reference that spec.md §9 calls out: a Type retains no node
// pointer, only the analyzer walks from Node to Desc to TypeID).
type Desc struct {
	Kind  Kind
	Elem  ElemTag
	Name  source.StringID
	Left  *Desc
	Right *Desc
}

// GetOrCreate canonicalizes desc within s. On a structural match (modulo
// TYPECMP_GENERIC when generic is true) it returns the existing TypeID;
// otherwise it constructs and inserts a new Type. Sum-operator types also
// insert both operands so each variant is independently referenceable.
func (s *Set) GetOrCreate(desc *Desc, generic bool) (TypeID, error) {
	scratch := NewCompareScratch()
	return s.getOrCreate(desc, generic, scratch)
}

func (s *Set) getOrCreate(desc *Desc, generic bool, scratch *CompareScratch) (TypeID, error) {
	if desc == nil {
		return NoTypeID, errInvalidDesc
	}
	switch desc.Kind {
	case KindElementary:
		if id, ok := s.elem[desc.Elem]; ok {
			return id, nil
		}
		return NoTypeID, errInvalidDesc
	case KindGeneric:
		mode := CmpIdentical
		if generic {
			mode = CmpGeneric
		}
		return s.findOrInsert(Type{Kind: KindGeneric, Name: desc.Name}, mode, scratch)
	case KindDefined:
		if id, ok := s.defined[desc.Name]; ok {
			return id, nil
		}
		body, err := s.getOrCreate(desc.Left, generic, scratch)
		if err != nil {
			return NoTypeID, err
		}
		id := s.internRaw(Type{Kind: KindDefined, Name: desc.Name, Body: body})
		s.defined[desc.Name] = id
		return id, nil
	case KindLeaf:
		inner, err := s.getOrCreate(desc.Left, generic, scratch)
		if err != nil {
			return NoTypeID, err
		}
		mode := CmpIdentical
		if generic {
			mode = CmpGeneric
		}
		return s.findOrInsert(Type{Kind: KindLeaf, Name: desc.Name, Inner: inner}, mode, scratch)
	case KindProduct, KindSum, KindImplication:
		left, err := s.getOrCreate(desc.Left, generic, scratch)
		if err != nil {
			return NoTypeID, err
		}
		right, err := s.getOrCreate(desc.Right, generic, scratch)
		if err != nil {
			return NoTypeID, err
		}
		mode := CmpIdentical
		if generic {
			mode = CmpGeneric
		}
		// left and right were already canonicalized above (each a sum
		// disjunct included), so every operand remains independently
		// referenceable by TypeID — no separate re-insertion needed.
		return s.findOrInsert(Type{Kind: desc.Kind, Left: left, Right: right}, mode, scratch)
	default:
		return NoTypeID, errInvalidDesc
	}
}

// findOrInsert returns the TypeID of an existing entry structurally equal to
// t (under mode), or inserts t as new. This is the "structural hash set"
// described in spec.md §4.2; modest module-scale type sets make a linear
// scan adequate without a generic-aware structural hash function. t is
// appended as a candidate first so Equal can recurse through Left/Right/
// Inner by TypeID like any other comparison, then discarded if a match is
// found so TypeIDs stay dense.
func (s *Set) findOrInsert(t Type, mode CmpMode, scratch *CompareScratch) (TypeID, error) {
	candidateID := s.internRaw(t)
	for id := TypeID(1); int(id) < int(candidateID); id++ {
		if s.entries[id].Kind != t.Kind {
			continue
		}
		scratch.reset()
		if s.Equal(id, candidateID, mode, scratch) {
			s.entries = s.entries[:candidateID] // drop the synthetic candidate
			return id, nil
		}
	}
	return candidateID, nil
}
