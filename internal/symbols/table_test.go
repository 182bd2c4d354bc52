package symbols

import (
	"errors"
	"fmt"
	"testing"

	"refu/internal/source"
)

func TestDeclareAndLookupAcrossNestedScopes(t *testing.T) {
	table, root := NewTable()
	strs := source.NewTable()
	xID, _, err := strs.Add("x")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := table.Declare(root, Record{Name: xID, Kind: RecordLet}); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	inner := table.OpenScope(ScopeBlock, root, source.Span{})
	if _, ok := table.Lookup(inner, xID); !ok {
		t.Fatalf("expected inner scope to see outer declaration of x")
	}

	yID, _, err := strs.Add("y")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := table.Lookup(root, yID); ok {
		t.Fatalf("y should not be declared anywhere yet")
	}
}

func TestDeclareRejectsDuplicateInSameScope(t *testing.T) {
	table, root := NewTable()
	strs := source.NewTable()
	xID, _, err := strs.Add("x")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := table.Declare(root, Record{Name: xID, Kind: RecordParam, Span: source.Span{Start: 0, End: 1}}); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	_, err = table.Declare(root, Record{Name: xID, Kind: RecordParam, Span: source.Span{Start: 5, End: 6}})
	if err == nil {
		t.Fatalf("expected duplicate declaration to fail")
	}
	if !errors.Is(err, ErrDuplicateSymbol) {
		t.Fatalf("expected ErrDuplicateSymbol, got %v", err)
	}
}

func TestDeclareAllowsShadowingInNestedScope(t *testing.T) {
	table, root := NewTable()
	strs := source.NewTable()
	xID, _, err := strs.Add("x")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := table.Declare(root, Record{Name: xID, Kind: RecordLet}); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	inner := table.OpenScope(ScopeBlock, root, source.Span{})
	if _, err := table.Declare(inner, Record{Name: xID, Kind: RecordLet}); err != nil {
		t.Fatalf("shadowing in a nested scope should be allowed: %v", err)
	}
}

func TestIterateReturnsDeclarationOrder(t *testing.T) {
	table, root := NewTable()
	strs := source.NewTable()
	names := []string{"a", "b", "c"}
	var ids []source.StringID
	for _, n := range names {
		id, _, err := strs.Add(n)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		ids = append(ids, id)
		if _, err := table.Declare(root, Record{Name: id, Kind: RecordLet}); err != nil {
			t.Fatalf("Declare: %v", err)
		}
	}
	var got []source.StringID
	table.Iterate(root, func(_ RecordID, r *Record) {
		got = append(got, r.Name)
	})
	if len(got) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(got))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("expected declaration order %v, got %v", ids, got)
		}
	}
}

func TestRecordArenaSpansMultipleChunks(t *testing.T) {
	table, root := NewTable()
	strs := source.NewTable()
	const n = chunkSize + 10
	var ids []RecordID
	for i := 0; i < n; i++ {
		id, _, err := strs.Add(fmt.Sprintf("sym%d", i))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		rid, err := table.Declare(root, Record{Name: id, Kind: RecordLet})
		if err != nil {
			t.Fatalf("Declare: %v", err)
		}
		ids = append(ids, rid)
	}
	for i, rid := range ids {
		if table.Record(rid) == nil {
			t.Fatalf("record %d (id %d) missing after crossing a chunk boundary", i, rid)
		}
	}
}
