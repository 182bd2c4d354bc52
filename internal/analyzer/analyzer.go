package analyzer

import (
	"context"
	"errors"
	"fmt"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/source"
	"refu/internal/symbols"
	"refu/internal/types"
)

// ErrCancelled is returned by any analyzer pass that observes ctx done at a
// function boundary (spec.md §5's cooperative-cancellation contract).
var ErrCancelled = errors.New("analyzer: cancelled")

// ErrSemantic is the sentinel returned by Analyzer.Analyze when the module
// accumulated one or more semantic errors; the RIR builder treats it as a
// hard stop (spec.md §4.8).
var ErrSemantic = errors.New("analyzer: module has semantic errors")

// Analyzer runs the three sub-passes of spec.md §4.5 over one module's AST:
// first pass (scoping & type construction), typecheck, and finalization.
type Analyzer struct {
	Tree    *ast.Tree
	Strings *source.Table
	Types   *types.Set
	Symbols *symbols.Table
	Root    symbols.ScopeID

	report          diag.Reporter
	haveSemanticErr bool

	// funcSigs maps a declared function's record to its parameter and
	// return type descriptors, computed in first pass and consumed by
	// typecheck (call resolution) and the RIR builder (argument lowering).
	funcSigs map[symbols.RecordID]*FuncSig

	// nodeScope remembers which scope first pass opened for a function or
	// block node, so typecheck can re-enter the same scope without
	// reconstructing the scope tree.
	nodeScope map[ast.NodeID]symbols.ScopeID

	// CallInfo records, per resolved Call node, which of the three call
	// dispatch rules of spec.md §4.7 applies and (for a sum constructor)
	// which variant index was selected — computed once here in typecheck
	// and consumed later by the RIR builder instead of being re-derived.
	CallInfo map[ast.NodeID]CallInfo
}

// CallKind distinguishes the three ways a Call node can be lowered.
type CallKind uint8

const (
	CallFunction CallKind = iota
	CallConstructorSimple
	CallConstructorSum
)

// CallInfo is the typecheck-resolved shape of one Call node.
type CallInfo struct {
	Kind         CallKind
	VariantIndex int // meaningful only for CallConstructorSum
}

// FuncSig is the resolved signature of a declared function: its argument
// type (a product of labeled leaves, a single labeled leaf, or the elementary
// nil type for an empty argument list) and its return type.
type FuncSig struct {
	Node     ast.NodeID
	Params   []symbols.RecordID
	ArgT     types.TypeID
	RetT     types.TypeID
	ArgCount int
}

// New constructs an Analyzer over an already-parsed tree with a fresh type
// set and symbol table.
func New(tree *ast.Tree, strs *source.Table, r diag.Reporter) *Analyzer {
	if r == nil {
		r = diag.NopReporter{}
	}
	table, root := symbols.NewTable()
	return &Analyzer{
		Tree:     tree,
		Strings:  strs,
		Types:    types.NewSet(),
		Symbols:  table,
		Root:     root,
		report:    r,
		funcSigs:  make(map[symbols.RecordID]*FuncSig),
		nodeScope: make(map[ast.NodeID]symbols.ScopeID),
		CallInfo:  make(map[ast.NodeID]CallInfo),
	}
}

// HaveSemanticErr reports whether any pass has recorded a soft semantic
// error so far.
func (a *Analyzer) HaveSemanticErr() bool { return a.haveSemanticErr }

// FuncSig returns the resolved signature recorded for a function's symbol
// record, for the RIR builder to consume without re-deriving it from the
// AST a second time.
func (a *Analyzer) FuncSig(rec symbols.RecordID) (*FuncSig, bool) {
	sig, ok := a.funcSigs[rec]
	return sig, ok
}

// ScopeOf returns the scope FirstPass opened for a function or block node
// (symbols.NoScopeID if first pass never opened one for id).
func (a *Analyzer) ScopeOf(id ast.NodeID) symbols.ScopeID {
	return a.nodeScope[id]
}

// Analyze runs first pass and typecheck in sequence, matching the
// analyzer.analyze_module(module) -> ok | SemanticError pipeline entry
// point of spec.md §6. Finalize is a separate call: the driver only
// invokes it once every dependency module has itself finished finalizing
// (spec.md §4.6).
func (a *Analyzer) Analyze(ctx context.Context) error {
	if err := a.FirstPass(ctx); err != nil {
		return err
	}
	if err := a.TypeCheck(ctx); err != nil {
		return err
	}
	if a.haveSemanticErr {
		return ErrSemantic
	}
	return nil
}

func (a *Analyzer) checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}

func (a *Analyzer) errorf(code diag.Code, span source.Span, format string, args ...any) {
	a.haveSemanticErr = true
	diag.ReportSemanticError(a.report, code, span, fmt.Sprintf(format, args...)).Emit()
}

func (a *Analyzer) warnf(code diag.Code, span source.Span, format string, args ...any) {
	diag.ReportWarning(a.report, code, span, fmt.Sprintf(format, args...)).Emit()
}
