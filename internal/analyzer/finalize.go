package analyzer

import (
	"context"

	"refu/internal/ast"
	"refu/internal/types"
)

// Finalize implements spec.md §4.5(c): merge every dependency module's type
// set into this module's, then walk the AST once more stamping every
// node's state RirEnd and computing each function's RIR argument count
// (max(1, |product subtypes|), since a nil argument still lowers to zero
// allocas but the spec's counting rule floors at one to keep "no arguments"
// and "one argument" from requiring separate downstream code paths).
//
// The remaps returned, one per dependency in the order given, map each
// dependency's TypeIDs to this module's; neither the driver nor the RIR
// builder reads them.
func (a *Analyzer) Finalize(ctx context.Context, deps []*types.Set) ([]map[types.TypeID]types.TypeID, error) {
	remaps := make([]map[types.TypeID]types.TypeID, len(deps))
	for i, dep := range deps {
		if err := a.checkCancelled(ctx); err != nil {
			return nil, err
		}
		remaps[i] = a.Types.Merge(dep)
	}

	for _, sig := range a.funcSigs {
		sig.ArgCount = a.argCount(sig.ArgT)
	}

	mod := a.Tree.Node(a.Tree.Root)
	if mod != nil {
		a.Tree.Walk(a.Tree.Root, func(_ ast.NodeID, n *ast.Node) {
			n.State.Advance(ast.RirEnd)
		})
	}
	return remaps, nil
}

// argCount returns max(1, number of subtypes) of t treated as a product.
func (a *Analyzer) argCount(t types.TypeID) int {
	n := len(a.flattenFields(t))
	if n < 1 {
		return 1
	}
	return n
}
