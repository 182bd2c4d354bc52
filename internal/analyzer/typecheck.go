package analyzer

import (
	"context"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/symbols"
	"refu/internal/types"
)

// TypeCheck implements spec.md §4.5(b): it walks every expression in the
// module, resolving and stamping ResolvedType on each node. Semantic errors
// set Analyzer.haveSemanticErr but never abort the walk — every error for
// the module is collected before TypeCheck returns.
func (a *Analyzer) TypeCheck(ctx context.Context) error {
	mod := a.Tree.Node(a.Tree.Root)
	if mod == nil {
		return errInvalidRoot
	}
	for _, item := range mod.Children {
		if err := a.checkCancelled(ctx); err != nil {
			return err
		}
		a.typecheckItem(item)
	}
	mod.State.Advance(ast.Typed)
	return nil
}

func (a *Analyzer) typecheckItem(id ast.NodeID) {
	n := a.Tree.Node(id)
	if n == nil {
		return
	}
	if n.Kind == ast.KindFuncImpl && n.Right.IsValid() {
		fnScope := a.nodeScope[id]
		a.typecheckBlock(n.Right, fnScope)
	}
	n.State.Advance(ast.Typed)
}

func (a *Analyzer) typecheckBlock(id ast.NodeID, scope symbols.ScopeID) types.TypeID {
	n := a.Tree.Node(id)
	if n == nil {
		return a.Types.Elementary(types.ElemNil)
	}
	blockScope := a.nodeScope[id]
	if !blockScope.IsValid() {
		blockScope = scope
	}
	result := a.Types.Elementary(types.ElemNil)
	for _, stmt := range n.Children {
		result = a.typecheckStmt(stmt, blockScope)
	}
	n.ResolvedType = result
	n.State.Advance(ast.Typed)
	return result
}

func (a *Analyzer) typecheckStmt(id ast.NodeID, scope symbols.ScopeID) types.TypeID {
	n := a.Tree.Node(id)
	if n == nil {
		return a.Types.Elementary(types.ElemNil)
	}
	var result types.TypeID
	switch n.Kind {
	case ast.KindVarDecl:
		result = a.typecheckVarDecl(n, scope)
	case ast.KindIfExpr:
		result = a.typecheckIf(id, n, scope)
	case ast.KindBlock:
		result = a.typecheckBlock(id, scope)
	case ast.KindReturn:
		result = a.Types.Elementary(types.ElemNil)
		if n.Left.IsValid() {
			result = a.typecheckExpr(n.Left, scope)
		}
	default:
		result = a.typecheckExpr(id, scope)
	}
	n.ResolvedType = result
	n.State.Advance(ast.Typed)
	return result
}

func (a *Analyzer) typecheckVarDecl(n *ast.Node, scope symbols.ScopeID) types.TypeID {
	rhsT := a.Types.Elementary(types.ElemNil)
	if n.Right.IsValid() {
		rhsT = a.typecheckExpr(n.Right, scope)
	}
	rec, ok := a.Symbols.Lookup(scope, n.Name)
	if !ok {
		return rhsT
	}
	record := a.Symbols.Record(rec)
	if record.Type == types.NoTypeID {
		record.Type = rhsT
		return rhsT
	}
	if !a.assignable(rhsT, record.Type) {
		a.errorf(diag.CodeTypeMismatch, n.Span,
			"cannot assign initializer to %q: incompatible types", a.Strings.MustGet(n.Name))
		return record.Type
	}
	if rhsT != record.Type {
		a.warnf(diag.CodeImplicitConvert, n.Span, "implicit conversion in initializer of %q", a.Strings.MustGet(n.Name))
	}
	return record.Type
}

func (a *Analyzer) typecheckIf(id ast.NodeID, n *ast.Node, scope symbols.ScopeID) types.TypeID {
	condT := a.typecheckExpr(n.Left, scope)
	boolT := a.Types.Elementary(types.ElemBool)
	if condT != boolT {
		a.errorf(diag.CodeNonBoolCondition, a.Tree.Node(n.Left).Span, "if-condition must be bool")
	}
	thenT := a.typecheckBranch(n.Right, scope)
	nilT := a.Types.Elementary(types.ElemNil)
	if !n.Else.IsValid() {
		n.ResolvedType = nilT
		return nilT
	}
	elseT := a.typecheckBranch(n.Else, scope)
	scratch := types.NewCompareScratch()
	if a.Types.Equal(thenT, elseT, types.CmpIdentical, scratch) {
		n.ResolvedType = thenT
		return thenT
	}
	n.ResolvedType = nilT
	return nilT
}

func (a *Analyzer) typecheckBranch(id ast.NodeID, scope symbols.ScopeID) types.TypeID {
	n := a.Tree.Node(id)
	if n == nil {
		return a.Types.Elementary(types.ElemNil)
	}
	if n.Kind == ast.KindBlock {
		return a.typecheckBlock(id, scope)
	}
	// nested IfExpr (an elif link)
	return a.typecheckStmt(id, scope)
}

func (a *Analyzer) typecheckExpr(id ast.NodeID, scope symbols.ScopeID) types.TypeID {
	n := a.Tree.Node(id)
	if n == nil {
		return types.NoTypeID
	}
	var result types.TypeID
	switch n.Kind {
	case ast.KindIntConst:
		result = a.Types.Elementary(types.ElemI32)
	case ast.KindFloatConst:
		result = a.Types.Elementary(types.ElemF32)
	case ast.KindStringConst:
		result = a.Types.Elementary(types.ElemString)
	case ast.KindIdent:
		result = a.typecheckIdent(n, scope)
	case ast.KindBinaryOp:
		result = a.typecheckBinary(n, scope)
	case ast.KindAssign:
		result = a.typecheckAssign(n, scope)
	case ast.KindCall:
		result = a.typecheckCall(id, n, scope)
	case ast.KindIfExpr:
		result = a.typecheckIf(id, n, scope)
	case ast.KindBlock:
		result = a.typecheckBlock(id, scope)
	default:
		result = a.Types.Elementary(types.ElemNil)
	}
	n.ResolvedType = result
	n.State.Advance(ast.Typed)
	return result
}

func (a *Analyzer) typecheckIdent(n *ast.Node, scope symbols.ScopeID) types.TypeID {
	rec, ok := a.Symbols.Lookup(scope, n.Name)
	if !ok {
		a.errorf(diag.CodeUnknownIdent, n.Span, "unknown identifier %q", a.Strings.MustGet(n.Name))
		return types.NoTypeID
	}
	return a.Symbols.Record(rec).Type
}

func (a *Analyzer) typecheckBinary(n *ast.Node, scope symbols.ScopeID) types.TypeID {
	leftT := a.typecheckExpr(n.Left, scope)
	rightT := a.typecheckExpr(n.Right, scope)
	boolT := a.Types.Elementary(types.ElemBool)

	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		if leftT != boolT || rightT != boolT {
			a.errorf(diag.CodeTypeMismatch, n.Span, "logical operator %s requires bool operands", n.Op)
		}
		return boolT
	}

	leftElem, leftOK := a.elemOf(leftT)
	rightElem, rightOK := a.elemOf(rightT)
	if !leftOK || !rightOK {
		a.errorf(diag.CodeTypeMismatch, n.Span, "binary operator %s requires elementary operands", n.Op)
		return types.NoTypeID
	}
	promoted, ok := types.PromoteElementary(leftElem, rightElem)
	if !ok {
		a.errorf(diag.CodeTypeMismatch, n.Span, "incompatible operand types for %s", n.Op)
		return types.NoTypeID
	}
	if n.Op.IsComparison() {
		return boolT
	}
	if leftElem != promoted || rightElem != promoted {
		a.warnf(diag.CodeImplicitConvert, n.Span, "implicit widening conversion in %s expression", n.Op)
	}
	return a.Types.Elementary(promoted)
}

func (a *Analyzer) typecheckAssign(n *ast.Node, scope symbols.ScopeID) types.TypeID {
	rhsT := a.typecheckExpr(n.Right, scope)
	lhsT := a.typecheckExpr(n.Left, scope)
	if lhsT == types.NoTypeID {
		return types.NoTypeID
	}
	if lhs := a.Tree.Node(n.Left); lhs != nil && lhs.Kind == ast.KindIdent {
		if rec, ok := a.Symbols.Lookup(scope, lhs.Name); ok {
			if record := a.Symbols.Record(rec); record.Kind == symbols.RecordLet || record.Kind == symbols.RecordParam {
				a.errorf(diag.CodeTypeMismatch, n.Span, "cannot assign to immutable binding %q", a.Strings.MustGet(lhs.Name))
			}
		}
	}
	if !a.assignable(rhsT, lhsT) {
		a.errorf(diag.CodeNarrowingAssign, n.Span, "narrowing assignment is not allowed")
		return lhsT
	}
	if rhsT != lhsT {
		a.warnf(diag.CodeImplicitConvert, n.Span, "implicit conversion in assignment")
	}
	return lhsT
}

// elemOf reports the elementary tag of t, if t is (or reduces to) an
// elementary type.
func (a *Analyzer) elemOf(t types.TypeID) (types.ElemTag, bool) {
	desc, ok := a.Types.Lookup(t)
	if !ok || desc.Kind != types.KindElementary {
		return types.ElemInvalid, false
	}
	return desc.Elem, true
}

// assignable reports whether a value of type from may be stored into a
// location of type to: identical types always qualify; elementary types
// additionally qualify under widening (spec.md §4.5(b)).
func (a *Analyzer) assignable(from, to types.TypeID) bool {
	if from == to {
		return true
	}
	fromElem, fromOK := a.elemOf(from)
	toElem, toOK := a.elemOf(to)
	if fromOK && toOK {
		return types.CanWiden(fromElem, toElem)
	}
	scratch := types.NewCompareScratch()
	return a.Types.Equal(from, to, types.CmpIdentical, scratch)
}
