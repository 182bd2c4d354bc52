package analyzer

import (
	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/symbols"
	"refu/internal/types"
)

// typecheckCall implements spec.md §4.5(b)'s three-way call dispatch: a
// scoped lookup of the callee decides whether this is an ordinary function
// call or a constructor call reinterpreting a defined type name.
func (a *Analyzer) typecheckCall(id ast.NodeID, n *ast.Node, scope symbols.ScopeID) types.TypeID {
	callee := a.Tree.Node(n.Left)
	argTypes := make([]types.TypeID, len(n.Children))
	for i, arg := range n.Children {
		argTypes[i] = a.typecheckExpr(arg, scope)
	}

	if callee == nil || callee.Kind != ast.KindIdent {
		a.errorf(diag.CodeTypeMismatch, n.Span, "call target is not callable")
		return types.NoTypeID
	}
	rec, ok := a.Symbols.Lookup(scope, callee.Name)
	if !ok {
		a.errorf(diag.CodeUnknownIdent, callee.Span, "unknown identifier %q", a.Strings.MustGet(callee.Name))
		return types.NoTypeID
	}
	record := a.Symbols.Record(rec)
	callee.ResolvedType = record.Type

	switch record.Kind {
	case symbols.RecordType:
		return a.typecheckConstructorCall(id, n, record.Type, argTypes)
	case symbols.RecordFunction:
		return a.typecheckFunctionCall(id, n, rec, argTypes)
	default:
		a.errorf(diag.CodeTypeMismatch, n.Span, "%q is not callable", a.Strings.MustGet(callee.Name))
		return types.NoTypeID
	}
}

func (a *Analyzer) typecheckFunctionCall(id ast.NodeID, n *ast.Node, rec symbols.RecordID, argTypes []types.TypeID) types.TypeID {
	sig, ok := a.funcSigs[rec]
	if !ok {
		a.errorf(diag.CodeTypeMismatch, n.Span, "call to a function with no resolved signature")
		return types.NoTypeID
	}
	params := a.flattenFields(sig.ArgT)
	if !a.argsMatch(params, argTypes) {
		a.errorf(diag.CodeArgMismatch, n.Span, "argument types do not match declared parameters")
	}
	a.CallInfo[id] = CallInfo{Kind: CallFunction}
	return sig.RetT
}

func (a *Analyzer) typecheckConstructorCall(id ast.NodeID, n *ast.Node, definedT types.TypeID, argTypes []types.TypeID) types.TypeID {
	defined := a.Types.MustLookup(definedT)
	body, ok := a.Types.Lookup(defined.Body)
	if !ok {
		a.errorf(diag.CodeTypeMismatch, n.Span, "constructor target has no body type")
		return types.NoTypeID
	}

	if body.Kind == types.KindSum {
		variants := a.sumVariants(defined.Body)
		for i, variant := range variants {
			if a.argsMatch(variant, argTypes) {
				a.CallInfo[id] = CallInfo{Kind: CallConstructorSum, VariantIndex: i}
				return definedT
			}
		}
		a.errorf(diag.CodeUnknownVariant, n.Span, "no variant of the sum type matches the given arguments")
		return definedT
	}

	fields := a.flattenFields(defined.Body)
	if !a.argsMatch(fields, argTypes) {
		a.errorf(diag.CodeArgMismatch, n.Span, "constructor arguments do not match the type's fields")
	}
	a.CallInfo[id] = CallInfo{Kind: CallConstructorSimple}
	return definedT
}

// flattenFields expands a (possibly labeled) product type into its ordered
// list of field types, in left-to-right source order; a non-product type is
// its own single-element field list.
func (a *Analyzer) flattenFields(t types.TypeID) []types.TypeID {
	if t == types.NoTypeID {
		return nil
	}
	desc := a.Types.MustLookup(t)
	switch desc.Kind {
	case types.KindProduct:
		return append(a.flattenFields(desc.Left), a.flattenFields(desc.Right)...)
	case types.KindLeaf:
		return []types.TypeID{desc.Inner}
	default:
		return []types.TypeID{t}
	}
}

// sumVariants expands a sum type into its ordered list of variants, each
// itself expanded into a field-type list by flattenFields.
func (a *Analyzer) sumVariants(t types.TypeID) [][]types.TypeID {
	desc := a.Types.MustLookup(t)
	if desc.Kind == types.KindSum {
		return append(a.sumVariants(desc.Left), a.sumVariants(desc.Right)...)
	}
	return [][]types.TypeID{a.flattenFields(t)}
}

// argsMatch reports whether each argument type is assignable (under
// widening, or TYPECMP_GENERIC for composite/generic parameters) to the
// correspondingly-positioned declared field type.
func (a *Analyzer) argsMatch(params, args []types.TypeID) bool {
	if len(params) == 1 && params[0] == a.Types.Elementary(types.ElemNil) && len(args) == 0 {
		return true
	}
	if len(params) != len(args) {
		return false
	}
	scratch := types.NewCompareScratch()
	for i := range params {
		if a.assignable(args[i], params[i]) {
			continue
		}
		if a.Types.Equal(args[i], params[i], types.CmpGeneric, scratch) {
			continue
		}
		return false
	}
	return true
}
