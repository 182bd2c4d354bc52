package analyzer

import (
	"refu/internal/ast"
	"refu/internal/types"
)

// typeExprToDesc walks a parsed type-expression subtree (TypeRef, TypeLeaf,
// TypeProduct, TypeSum, TypeImplication) and builds the neutral types.Desc
// the type set's canonicalizer expects, so the types package never needs to
// reference ast.Node directly (spec.md §9).
func (a *Analyzer) typeExprToDesc(id ast.NodeID) *types.Desc {
	n := a.Tree.Node(id)
	if n == nil {
		return &types.Desc{Kind: types.KindElementary, Elem: types.ElemNil}
	}
	switch n.Kind {
	case ast.KindTypeRef:
		name := a.Strings.MustGet(n.Name)
		if tag, ok := types.ElemTagByName(name); ok {
			return &types.Desc{Kind: types.KindElementary, Elem: tag}
		}
		if id, ok := a.Types.DefinedByName(n.Name); ok {
			t := a.Types.MustLookup(id)
			return &types.Desc{Kind: types.KindDefined, Name: n.Name, Left: a.descForTypeID(t.Body)}
		}
		// Unresolved at first-pass time (forward reference or generic
		// parameter): treat as a free generic name; typecheck's scoped
		// lookup will catch a genuinely unknown type later.
		return &types.Desc{Kind: types.KindGeneric, Name: n.Name}
	case ast.KindTypeLeaf:
		return &types.Desc{Kind: types.KindLeaf, Name: n.Name, Left: a.typeExprToDesc(n.Left)}
	case ast.KindTypeProduct:
		return &types.Desc{Kind: types.KindProduct, Left: a.typeExprToDesc(n.Left), Right: a.typeExprToDesc(n.Right)}
	case ast.KindTypeSum:
		return &types.Desc{Kind: types.KindSum, Left: a.typeExprToDesc(n.Left), Right: a.typeExprToDesc(n.Right)}
	case ast.KindTypeImplication:
		return &types.Desc{Kind: types.KindImplication, Left: a.typeExprToDesc(n.Left), Right: a.typeExprToDesc(n.Right)}
	default:
		return &types.Desc{Kind: types.KindElementary, Elem: types.ElemNil}
	}
}
