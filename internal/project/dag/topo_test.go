package dag

import (
	"testing"

	"refu/internal/project"
)

func TestToposortLeavesFirst(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "std"},
		{Path: "a", Imports: []project.ImportMeta{{Path: "std"}}},
		{Path: "main", IsRoot: true, Imports: []project.ImportMeta{{Path: "a"}, {Path: "std"}}},
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, metas, project.StdlibPath, nil)
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("graph should not be cyclic")
	}
	pos := make(map[ModuleID]int, len(topo.Order))
	for i, id := range topo.Order {
		pos[id] = i
	}
	stdID := idx.NameToID["std"]
	aID := idx.NameToID["a"]
	mainID := idx.NameToID["main"]
	if pos[stdID] >= pos[aID] || pos[aID] >= pos[mainID] {
		t.Fatalf("expected std before a before main, got order %v (pos=%v)", topo.Order, pos)
	}
}

func TestToposortDetectsCycle(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "a", Imports: []project.ImportMeta{{Path: "b"}}},
		{Path: "b", Imports: []project.ImportMeta{{Path: "a"}}},
	}
	idx := BuildIndex(metas)
	g, _ := BuildGraph(idx, metas, project.StdlibPath, nil)
	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("expected cyclic dependency to be detected")
	}
	if len(topo.Cycles) != 2 {
		t.Fatalf("expected both modules to be part of the cycle, got %v", topo.Cycles)
	}
}
