package rir

import (
	"strconv"
	"strings"

	"refu/internal/analyzer"
	"refu/internal/ast"
	"refu/internal/source"
	"refu/internal/symbols"
	"refu/internal/types"
)

// lowerBlockBody implements spec.md §4.7's block-lowering rule: push the
// block's own scope, alloca a stack slot for every let/var it declares
// directly (binding each record's back-end handle), then lower its
// statements in source order.
func lowerBlockBody(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, blockID ast.NodeID) Obj {
	an.Symbols.Iterate(scope, func(rid symbols.RecordID, rec *symbols.Record) {
		if rec.Kind != symbols.RecordLet && rec.Kind != symbols.RecordVar {
			return
		}
		uid, _ := tl.Lookup(rec.Type)
		ctx.locals[rid] = ctx.emitAlloca(uid)
	})
	n := an.Tree.Node(blockID)
	var last Obj
	for _, stmt := range n.Children {
		last = lowerStmt(ctx, an, tl, strs, scope, stmt)
	}
	return last
}

func lowerStmt(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, id ast.NodeID) Obj {
	n := an.Tree.Node(id)
	if n == nil {
		return Obj{Kind: ObjNothing}
	}
	switch n.Kind {
	case ast.KindVarDecl:
		rec, ok := an.Symbols.Lookup(scope, n.Name)
		if !ok {
			return Obj{Kind: ObjNothing}
		}
		addr := ctx.locals[rec]
		if n.Right.IsValid() {
			val := ctx.materialize(lowerExpr(ctx, an, tl, strs, scope, n.Right))
			ctx.emitStore(val, addr)
		}
		record := an.Symbols.Record(rec)
		uid, _ := tl.Lookup(record.Type)
		return Obj{Kind: ObjAddress, Reg: addr, Type: uid}
	case ast.KindIfExpr:
		return lowerIfExpr(ctx, an, tl, strs, scope, id, n)
	case ast.KindBlock:
		return lowerBlockBody(ctx, an, tl, strs, an.ScopeOf(id), id)
	case ast.KindReturn:
		if n.Left.IsValid() && ctx.returnAddr != "" {
			val := ctx.materialize(lowerExpr(ctx, an, tl, strs, scope, n.Left))
			ctx.emitStore(val, ctx.returnAddr)
		}
		return Obj{Kind: ObjNothing}
	default:
		return lowerExpr(ctx, an, tl, strs, scope, id)
	}
}

func lowerExpr(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, id ast.NodeID) Obj {
	n := an.Tree.Node(id)
	if n == nil {
		return Obj{Kind: ObjNothing}
	}
	switch n.Kind {
	case ast.KindIntConst:
		return Obj{Kind: ObjValue, Reg: strconv.FormatInt(n.IntVal, 10), Type: elemUID[types.ElemI32]}
	case ast.KindFloatConst:
		return Obj{Kind: ObjValue, Reg: formatFloat(n.FloatVal), Type: elemUID[types.ElemF32]}
	case ast.KindStringConst:
		return Obj{Kind: ObjValue, Reg: strconv.Quote(strs.MustGet(n.Name)), Type: elemUID[types.ElemString]}
	case ast.KindIdent:
		return lowerIdent(ctx, an, tl, scope, n)
	case ast.KindBinaryOp:
		return lowerBinary(ctx, an, tl, strs, scope, n)
	case ast.KindAssign:
		return lowerAssign(ctx, an, tl, strs, scope, n)
	case ast.KindCall:
		return lowerCall(ctx, an, tl, strs, scope, id, n)
	case ast.KindIfExpr:
		return lowerIfExpr(ctx, an, tl, strs, scope, id, n)
	case ast.KindBlock:
		return lowerBlockBody(ctx, an, tl, strs, an.ScopeOf(id), id)
	default:
		return Obj{Kind: ObjNothing}
	}
}

func lowerIdent(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, scope symbols.ScopeID, n *ast.Node) Obj {
	rec, ok := an.Symbols.Lookup(scope, n.Name)
	if !ok {
		return Obj{Kind: ObjNothing}
	}
	addr, ok := ctx.locals[rec]
	if !ok {
		return Obj{Kind: ObjNothing}
	}
	uid, _ := tl.Lookup(an.Symbols.Record(rec).Type)
	return Obj{Kind: ObjAddress, Reg: addr, Type: uid}
}

func lowerBinary(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, n *ast.Node) Obj {
	left := lowerExpr(ctx, an, tl, strs, scope, n.Left)
	right := lowerExpr(ctx, an, tl, strs, scope, n.Right)
	lv := ctx.materialize(left)
	rv := ctx.materialize(right)
	if n.Op.IsComparison() {
		reg := ctx.emitCmp(n.Op.String(), lv, rv)
		return Obj{Kind: ObjValue, Reg: reg, Type: elemUID[types.ElemBool]}
	}
	reg := ctx.emitBinOp(n.Op.String(), lv, rv)
	return Obj{Kind: ObjValue, Reg: reg, Type: left.Type}
}

func lowerAssign(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, n *ast.Node) Obj {
	rhs := lowerExpr(ctx, an, tl, strs, scope, n.Right)
	lhs := lowerExpr(ctx, an, tl, strs, scope, n.Left)
	val := ctx.materialize(rhs)
	if lhs.Kind == ObjAddress {
		ctx.emitStore(val, lhs.Reg)
	}
	return lhs
}

// lowerCall dispatches on the CallInfo the analyzer already resolved
// (spec.md §4.7): an ordinary function call, a simple defined-type
// constructor, or a sum-type constructor using the already-computed
// variant index rather than re-deriving it during lowering.
func lowerCall(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, id ast.NodeID, n *ast.Node) Obj {
	info := an.CallInfo[id]
	switch info.Kind {
	case analyzer.CallConstructorSimple:
		uid, _ := tl.Lookup(n.ResolvedType)
		addr := ctx.emitAlloca(uid)
		for i, a := range n.Children {
			val := ctx.materialize(lowerExpr(ctx, an, tl, strs, scope, a))
			ctx.emitStore(val, ctx.emitGEP(addr, []int{0, i}))
		}
		return Obj{Kind: ObjAddress, Reg: addr, Type: uid}

	case analyzer.CallConstructorSum:
		fullUID, _ := tl.Lookup(n.ResolvedType)
		fullAddr := ctx.emitAlloca(fullUID)
		variantUID, _ := tl.VariantPayloadFor(an.Types, strs, n.ResolvedType, info.VariantIndex)
		variantAddr := ctx.emitAlloca(variantUID)
		for i, a := range n.Children {
			val := ctx.materialize(lowerExpr(ctx, an, tl, strs, scope, a))
			ctx.emitStore(val, ctx.emitGEP(variantAddr, []int{0, i}))
		}
		ctx.emitStore(variantAddr, ctx.emitGEP(fullAddr, []int{0, 0}))
		ctx.emitStore(strconv.Itoa(info.VariantIndex), ctx.emitGEP(fullAddr, []int{0, 1}))
		return Obj{Kind: ObjAddress, Reg: fullAddr, Type: fullUID}

	default: // analyzer.CallFunction
		calleeNode := an.Tree.Node(n.Left)
		args := make([]string, len(n.Children))
		for i, a := range n.Children {
			args[i] = ctx.materialize(lowerExpr(ctx, an, tl, strs, scope, a))
		}
		retUID, _ := tl.Lookup(n.ResolvedType)
		reg := ctx.emitCall(strs.MustGet(calleeNode.Name), args)
		return Obj{Kind: ObjValue, Reg: reg, Type: retUID}
	}
}

// lowerIfExpr implements spec.md §8 scenarios 4-5: a conditional branch per
// arm, every arm reconverging at one merge block shared across the whole
// if/elif/else chain. When the branches' unified type is non-nil (the
// analyzer recorded it on n.ResolvedType), a result slot is hoisted before
// branching so the if-expression itself yields a value.
func lowerIfExpr(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, id ast.NodeID, n *ast.Node) Obj {
	nilT := an.Types.Elementary(types.ElemNil)
	var resultAddr string
	var resultUID TypeUID
	if n.ResolvedType != types.NoTypeID && n.ResolvedType != nilT {
		resultUID, _ = tl.Lookup(n.ResolvedType)
		resultAddr = ctx.emitAlloca(resultUID)
	}
	merge := ctx.allocBlock()
	lowerIfArm(ctx, an, tl, strs, scope, n, merge, resultAddr)
	ctx.appendBlock(merge)
	ctx.block = merge
	if resultAddr != "" {
		return Obj{Kind: ObjAddress, Reg: resultAddr, Type: resultUID}
	}
	return Obj{Kind: ObjNothing}
}

func lowerIfArm(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, scope symbols.ScopeID, n *ast.Node, merge *Block, resultAddr string) {
	condVal := ctx.materialize(lowerExpr(ctx, an, tl, strs, scope, n.Left))
	thenBlk := ctx.newBlock()
	hasElse := n.Else.IsValid()
	elseLabel := merge.Label
	var elseBlk *Block
	if hasElse {
		elseBlk = ctx.newBlock()
		elseLabel = elseBlk.Label
	}
	ctx.block.Term = &Terminator{Kind: TermCondBranch, Cond: condVal, Then: thenBlk.Label, Else: elseLabel}

	ctx.block = thenBlk
	thenResult := lowerArmBody(ctx, an, tl, strs, n.Right)
	if resultAddr != "" && thenResult.Kind != ObjNothing {
		ctx.emitStore(ctx.materialize(thenResult), resultAddr)
	}
	if !ctx.block.Terminated() {
		ctx.block.Term = &Terminator{Kind: TermBranch, Target: merge.Label}
	}

	if !hasElse {
		return
	}
	ctx.block = elseBlk
	elseNode := an.Tree.Node(n.Else)
	if elseNode.Kind == ast.KindIfExpr {
		lowerIfArm(ctx, an, tl, strs, scope, elseNode, merge, resultAddr)
		return
	}
	elseResult := lowerArmBody(ctx, an, tl, strs, n.Else)
	if resultAddr != "" && elseResult.Kind != ObjNothing {
		ctx.emitStore(ctx.materialize(elseResult), resultAddr)
	}
	if !ctx.block.Terminated() {
		ctx.block.Term = &Terminator{Kind: TermBranch, Target: merge.Label}
	}
}

func lowerArmBody(ctx *rirCtx, an *analyzer.Analyzer, tl *TypeList, strs *source.Table, armID ast.NodeID) Obj {
	scope := an.ScopeOf(armID)
	if an.Tree.Node(armID).Kind == ast.KindBlock {
		return lowerBlockBody(ctx, an, tl, strs, scope, armID)
	}
	return lowerExpr(ctx, an, tl, strs, scope, armID)
}

// formatFloat renders a float literal so it is lexically distinguishable
// from an integer literal of the same magnitude ("3.0", never bare "3").
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
