package types

import (
	"testing"

	"refu/internal/source"
)

func TestMergeSharesElementaryIDsAndCopiesDefined(t *testing.T) {
	dep := NewSet()
	strs := source.NewTable()
	pointID, _, err := strs.Add("Point")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	xID, _, err := strs.Add("x")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	desc := &Desc{
		Kind: KindDefined, Name: pointID,
		Left: &Desc{Kind: KindLeaf, Name: xID, Left: &Desc{Kind: KindElementary, Elem: ElemI32}},
	}
	depPointID, err := dep.GetOrCreate(desc, false)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	main := NewSet()
	remap := main.Merge(dep)

	if remap[dep.Elementary(ElemI32)] != main.Elementary(ElemI32) {
		t.Fatalf("expected elementary TypeIDs to already coincide across sets")
	}
	mainPointID, ok := main.DefinedByName(pointID)
	if !ok {
		t.Fatalf("expected Point to be merged into main's defined map")
	}
	if remap[depPointID] != mainPointID {
		t.Fatalf("expected remap to point Point's dep TypeID at its merged TypeID")
	}
	mainPoint := main.MustLookup(mainPointID)
	if mainPoint.Kind != KindDefined || mainPoint.Name != pointID {
		t.Fatalf("expected a defined Point type in main set, got %+v", mainPoint)
	}
}
