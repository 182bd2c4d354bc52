package source

import "testing"

func TestTableInterningUniqueness(t *testing.T) {
	tbl := NewTable()
	id1, h1, err := tbl.Add("hello")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, h2, err := tbl.Add("hello")
	if err != nil {
		t.Fatalf("Add (again): %v", err)
	}
	if id1 != id2 || h1 != h2 {
		t.Fatalf("interning not stable: (%d,%d) vs (%d,%d)", id1, h1, id2, h2)
	}
	got, ok := tbl.Get(id1)
	if !ok || got != "hello" {
		t.Fatalf("Get(%d) = %q, %v; want %q, true", id1, got, ok, "hello")
	}
}

func TestTableDistinctStrings(t *testing.T) {
	tbl := NewTable()
	idA, _, _ := tbl.Add("asd")
	idB, _, _ := tbl.Add("zzz")
	if idA == idB {
		t.Fatalf("distinct strings must not share an id")
	}
}

func TestTableGetByHash(t *testing.T) {
	tbl := NewTable()
	_, h, _ := tbl.Add("world")
	s, ok := tbl.GetByHash(h)
	if !ok || s != "world" {
		t.Fatalf("GetByHash(%d) = %q, %v; want %q, true", h, s, ok, "world")
	}
	if _, ok := tbl.GetByHash(Hash("missing")); ok {
		t.Fatalf("GetByHash should report absent for never-added hash")
	}
}
