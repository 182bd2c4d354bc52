package types

import (
	"testing"

	"refu/internal/source"
)

func TestElementarySingletons(t *testing.T) {
	s := NewSet()
	a := s.Elementary(ElemI32)
	b := s.Elementary(ElemI32)
	if a != b {
		t.Fatalf("expected same TypeID for repeated elementary lookup, got %d and %d", a, b)
	}
	if s.Elementary(ElemI32) == s.Elementary(ElemF64) {
		t.Fatalf("distinct elementary tags must not share a TypeID")
	}
}

func TestGetOrCreateDeduplicatesStructurallyIdenticalTypes(t *testing.T) {
	s := NewSet()
	strs := source.NewTable()
	xID, _, err := strs.Add("x")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	yID, _, err := strs.Add("y")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// "x:i32, y:f64" built twice from independent Desc trees must canonicalize
	// to the same TypeID.
	buildProduct := func() *Desc {
		left := &Desc{Kind: KindLeaf, Name: xID, Left: &Desc{Kind: KindElementary, Elem: ElemI32}}
		right := &Desc{Kind: KindLeaf, Name: yID, Left: &Desc{Kind: KindElementary, Elem: ElemF64}}
		return &Desc{Kind: KindProduct, Left: left, Right: right}
	}

	id1, err := s.GetOrCreate(buildProduct(), false)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	id2, err := s.GetOrCreate(buildProduct(), false)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected structurally identical products to canonicalize to the same TypeID, got %d and %d", id1, id2)
	}

	// A differently-labeled product must NOT collapse onto the same TypeID.
	zID, _, err := strs.Add("z")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	other := &Desc{
		Kind: KindProduct,
		Left: &Desc{Kind: KindLeaf, Name: xID, Left: &Desc{Kind: KindElementary, Elem: ElemI32}},
		Right: &Desc{
			Kind: KindLeaf, Name: zID, Left: &Desc{Kind: KindElementary, Elem: ElemF64},
		},
	}
	id3, err := s.GetOrCreate(other, false)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if id3 == id1 {
		t.Fatalf("differently-labeled products must not canonicalize to the same TypeID")
	}
}

func TestGetOrCreateSumInsertsEachVariant(t *testing.T) {
	s := NewSet()
	strs := source.NewTable()
	rectID, _, err := strs.Add("Rectangle")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	circID, _, err := strs.Add("Circle")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	left := &Desc{Kind: KindLeaf, Name: rectID, Left: &Desc{Kind: KindElementary, Elem: ElemF64}}
	right := &Desc{Kind: KindLeaf, Name: circID, Left: &Desc{Kind: KindElementary, Elem: ElemF64}}
	sum := &Desc{Kind: KindSum, Left: left, Right: right}

	sumID, err := s.GetOrCreate(sum, false)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	sumType := s.MustLookup(sumID)
	if sumType.Kind != KindSum {
		t.Fatalf("expected KindSum, got %v", sumType.Kind)
	}

	// Each disjunct must be independently referenceable as its own leaf
	// entry in the set (needed so RIR lowering can select a variant by
	// structural index rather than a hard-coded constant).
	leftType, ok := s.Lookup(sumType.Left)
	if !ok || leftType.Kind != KindLeaf || leftType.Name != rectID {
		t.Fatalf("expected left disjunct to be an independently stored Rectangle leaf")
	}
	rightType, ok := s.Lookup(sumType.Right)
	if !ok || rightType.Kind != KindLeaf || rightType.Name != circID {
		t.Fatalf("expected right disjunct to be an independently stored Circle leaf")
	}
}

func TestEqualGenericBindsOncePerComparison(t *testing.T) {
	s := NewSet()
	strs := source.NewTable()
	tID, _, err := strs.Add("T")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	generic := &Desc{Kind: KindGeneric, Name: tID}
	genericID, err := s.GetOrCreate(generic, true)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	i32ID := s.Elementary(ElemI32)
	f64ID := s.Elementary(ElemF64)

	scratch := NewCompareScratch()
	if !s.Equal(genericID, i32ID, CmpGeneric, scratch) {
		t.Fatalf("expected a free generic parameter to bind to the first concrete type compared")
	}
	if !s.Equal(genericID, i32ID, CmpGeneric, scratch) {
		t.Fatalf("expected the same binding to match again within one scratch")
	}
	if s.Equal(genericID, f64ID, CmpGeneric, scratch) {
		t.Fatalf("expected a second, different concrete type to fail against an existing binding")
	}

	if s.Equal(genericID, i32ID, CmpIdentical, NewCompareScratch()) {
		t.Fatalf("TYPECMP_IDENTICAL must never let a generic parameter match a concrete type")
	}
}
