package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of a Kahn topological sort over a Graph: a
// dependency-first order (a module's dependencies always precede it) plus
// a batching of the order into waves of mutually-independent modules — two
// modules in the same batch share no dependency edge between them, so the
// driver may lower every module of a batch concurrently once the previous
// batch has finished finalization.
type Topo struct {
	Order   []ModuleID
	Batches [][]ModuleID
	Cyclic  bool
	Cycles  []ModuleID // modules that could not be ordered (part of a cycle)
}

// ToposortKahn orders g so that every module's present dependencies precede
// it. A cycle is fatal to the driver; the modules that could not be ordered
// are reported in Cycles.
func ToposortKahn(g Graph) *Topo {
	n := len(g.DependsOn)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]ModuleID, 0, n),
		Batches: make([][]ModuleID, 0),
	}

	active := 0
	for i := 0; i < n; i++ {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, n)
	for i := 0; i < n; i++ {
		if g.Present[i] && indeg[i] == 0 {
			id, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("dag: module id overflow: %w", err))
			}
			current = append(current, ModuleID(id))
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, dependent := range g.Dependents[int(id)] {
				if !g.Present[int(dependent)] {
					continue
				}
				indeg[int(dependent)]--
				if indeg[int(dependent)] == 0 {
					next = append(next, dependent)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := 0; i < n; i++ {
			if !g.Present[i] || indeg[i] <= 0 {
				continue
			}
			id, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("dag: module id overflow: %w", err))
			}
			topo.Cycles = append(topo.Cycles, ModuleID(id))
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}
