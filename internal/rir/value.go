package rir

// ObjKind enumerates the three shapes an expression-lowering function can
// hand back to its caller. This is spec.md §9's redesign of the original's
// ad-hoc `returned_obj` out-parameter into an explicit Go return value: the
// lowering context keeps only genuinely contextual state (current function
// and block, counters, the record-to-stack-slot map, the return slot), not
// the last-produced object.
type ObjKind uint8

const (
	// ObjNothing is returned by a statement with no value (a bare store,
	// a return, a branch).
	ObjNothing ObjKind = iota
	// ObjValue is a value already materialized in a register or a literal
	// operand — ready to use directly, no load required.
	ObjValue
	// ObjAddress is the address of a location (an alloca, a GEP) — a
	// consumer needing its value must emit a load first.
	ObjAddress
)

// Obj is what every expression-lowering function returns.
type Obj struct {
	Kind ObjKind
	Reg  string // operand text: "%3", "%arg0", "3.0", or an alloca/GEP address
	Type TypeUID
}
