package driver

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"refu/internal/rir"
)

// Snapshot is a compact, machine-readable summary of a Run's built RIR
// module graph — SPEC_FULL.md §2's debug snapshot feature. It carries no
// compilation semantics of its own; it exists purely as a side-channel dump
// for tooling that wants to inspect a compilation's shape without
// re-running the pipeline.
type Snapshot struct {
	Modules []ModuleSnapshot `msgpack:"modules"`
}

// ModuleSnapshot summarizes one module's lowered functions and typedefs.
type ModuleSnapshot struct {
	Path     string         `msgpack:"path"`
	Typedefs []string       `msgpack:"typedefs"`
	Funcs    []FuncSnapshot `msgpack:"funcs"`
	Errors   int            `msgpack:"errors"`
}

// FuncSnapshot summarizes one function's signature.
type FuncSnapshot struct {
	Name   string   `msgpack:"name"`
	ArgsT  []string `msgpack:"args"`
	RetT   string   `msgpack:"ret"`
	Blocks int      `msgpack:"blocks"`
}

// BuildSnapshot derives a Snapshot from a finished Run's Result.
func BuildSnapshot(r *Result) Snapshot {
	snap := Snapshot{Modules: make([]ModuleSnapshot, 0, len(r.Modules))}
	for _, mod := range r.Modules {
		ms := ModuleSnapshot{Path: mod.Path, Errors: countErrors(mod)}
		if mod.RIR != nil {
			for _, e := range mod.RIR.Types.Entries() {
				if e.Category == rir.CatElementary {
					continue // elementary types carry no typedef line
				}
				ms.Typedefs = append(ms.Typedefs, e.Name)
			}
			for _, fn := range mod.RIR.Funcs {
				ms.Funcs = append(ms.Funcs, FuncSnapshot{
					Name:   fn.Name,
					ArgsT:  append([]string(nil), fn.ArgTypeNames...),
					RetT:   mod.RIR.Types.Name(fn.RetType),
					Blocks: len(fn.Blocks),
				})
			}
		}
		snap.Modules = append(snap.Modules, ms)
	}
	return snap
}

func countErrors(mod *ModuleResult) int {
	n := 0
	for _, d := range mod.Bag.Items() {
		if d.Severity.IsError() {
			n++
		}
	}
	return n
}

// WriteSnapshot msgpack-encodes snap to path.
func WriteSnapshot(path string, snap Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
