package analyzer

import (
	"context"
	"errors"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/symbols"
	"refu/internal/types"
)

// FirstPass implements spec.md §4.5(a): it creates the symbol table scopes
// for the module root, every function, and every nested block, declares a
// record for each type/function/param/var declaration, and resolves each
// declared name's type description against the type set. It transfers
// ownership of the AST from the parser to the analyzer in the sense that
// every node visited here has its State advanced to Scoped.
func (a *Analyzer) FirstPass(ctx context.Context) error {
	mod := a.Tree.Node(a.Tree.Root)
	if mod == nil || mod.Kind != ast.KindModule {
		return errInvalidRoot
	}
	for _, item := range mod.Children {
		if err := a.checkCancelled(ctx); err != nil {
			return err
		}
		a.firstPassItem(item, a.Root)
	}
	mod.State.Advance(ast.Scoped)
	return nil
}

var errInvalidRoot = errors.New("analyzer: tree root is not a module")

func (a *Analyzer) firstPassItem(id ast.NodeID, scope symbols.ScopeID) {
	n := a.Tree.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindTypeDecl:
		a.firstPassTypeDecl(id, n, scope)
	case ast.KindFuncImpl, ast.KindFuncDecl:
		a.firstPassFunc(id, n, scope)
	case ast.KindImport:
		a.declare(scope, symbols.Record{
			Name: n.Name, Kind: symbols.RecordImport, Scope: scope, Span: n.Span,
		})
	}
	n.State.Advance(ast.Scoped)
}

func (a *Analyzer) firstPassTypeDecl(id ast.NodeID, n *ast.Node, scope symbols.ScopeID) {
	desc := a.typeExprToDesc(n.Left)
	bodyDesc := &types.Desc{Kind: types.KindDefined, Name: n.Name, Left: desc}
	typeID, err := a.Types.GetOrCreate(bodyDesc, false)
	if err != nil {
		a.errorf(diag.CodeTypeMismatch, n.Span, "invalid type declaration %q: %v", a.Strings.MustGet(n.Name), err)
		return
	}
	if _, err := a.declare(scope, symbols.Record{
		Name: n.Name, Kind: symbols.RecordType, Scope: scope, Span: n.Span, Type: typeID,
	}); err != nil {
		var dup *symbols.DuplicateSymbolError
		if asDuplicate(err, &dup) {
			a.errorf(diag.CodeDuplicateSymbol, n.Span, "duplicate symbol %q", a.Strings.MustGet(n.Name))
		}
	}
}

func (a *Analyzer) firstPassFunc(id ast.NodeID, n *ast.Node, scope symbols.ScopeID) {
	fnScope := a.Symbols.OpenScope(symbols.ScopeFunction, scope, n.Span)
	a.nodeScope[id] = fnScope

	var argDesc *types.Desc
	params := make([]symbols.RecordID, 0, len(n.Children))
	for i, pid := range n.Children {
		p := a.Tree.Node(pid)
		if p == nil {
			continue
		}
		pDesc := a.typeExprToDesc(p.Left)
		pT, _ := a.Types.GetOrCreate(pDesc, false)
		rec, err := a.declare(fnScope, symbols.Record{
			Name: p.Name, Kind: symbols.RecordParam, Scope: fnScope, Span: p.Span, Type: pT,
		})
		if err != nil {
			var dup *symbols.DuplicateSymbolError
			if asDuplicate(err, &dup) {
				a.errorf(diag.CodeDuplicateSymbol, p.Span,
					"duplicate symbol %q in function parameters", a.Strings.MustGet(p.Name))
			}
			continue
		}
		params = append(params, rec)
		leaf := &types.Desc{Kind: types.KindLeaf, Name: p.Name, Left: pDesc}
		if i == 0 {
			argDesc = leaf
		} else {
			argDesc = &types.Desc{Kind: types.KindProduct, Left: argDesc, Right: leaf}
		}
		p.State.Advance(ast.Scoped)
	}

	retDesc := a.typeExprToDesc(n.Left)
	retT, err := a.Types.GetOrCreate(retDesc, false)
	if err != nil {
		a.errorf(diag.CodeTypeMismatch, n.Span, "invalid return type in function %q", a.Strings.MustGet(n.Name))
		return
	}

	var argT types.TypeID
	if argDesc != nil {
		argT, err = a.Types.GetOrCreate(argDesc, false)
		if err != nil {
			a.errorf(diag.CodeTypeMismatch, n.Span, "invalid parameter types in function %q", a.Strings.MustGet(n.Name))
			return
		}
	} else {
		argT = a.Types.Elementary(types.ElemNil)
	}

	fnTypeDesc := &types.Desc{Kind: types.KindImplication,
		Left:  a.descForTypeID(argT),
		Right: a.descForTypeID(retT),
	}
	fnType, err := a.Types.GetOrCreate(fnTypeDesc, false)
	if err != nil {
		fnType = types.NoTypeID
	}

	fnRec, err := a.declare(scope, symbols.Record{
		Name: n.Name, Kind: symbols.RecordFunction, Scope: scope, Span: n.Span, Type: fnType,
	})
	if err != nil {
		return
	}
	a.funcSigs[fnRec] = &FuncSig{Node: id, Params: params, ArgT: argT, RetT: retT}

	if n.Kind == ast.KindFuncImpl && n.Right.IsValid() {
		a.firstPassBlock(n.Right, fnScope)
	}
}

// descForTypeID wraps an already-resolved TypeID back into a Desc so it can
// be recombined into a larger Desc tree (e.g. a function's implication
// type) without re-deriving it from the AST.
func (a *Analyzer) descForTypeID(id types.TypeID) *types.Desc {
	t, ok := a.Types.Lookup(id)
	if !ok {
		return &types.Desc{Kind: types.KindElementary, Elem: types.ElemNil}
	}
	switch t.Kind {
	case types.KindElementary:
		return &types.Desc{Kind: types.KindElementary, Elem: t.Elem}
	case types.KindDefined:
		return &types.Desc{Kind: types.KindDefined, Name: t.Name, Left: a.descForTypeID(t.Body)}
	case types.KindLeaf:
		return &types.Desc{Kind: types.KindLeaf, Name: t.Name, Left: a.descForTypeID(t.Inner)}
	case types.KindProduct, types.KindSum, types.KindImplication:
		return &types.Desc{Kind: t.Kind, Left: a.descForTypeID(t.Left), Right: a.descForTypeID(t.Right)}
	case types.KindGeneric:
		return &types.Desc{Kind: types.KindGeneric, Name: t.Name}
	default:
		return &types.Desc{Kind: types.KindElementary, Elem: types.ElemNil}
	}
}

func (a *Analyzer) firstPassBlock(id ast.NodeID, parent symbols.ScopeID) symbols.ScopeID {
	n := a.Tree.Node(id)
	if n == nil || n.Kind != ast.KindBlock {
		return parent
	}
	blockScope := a.Symbols.OpenScope(symbols.ScopeBlock, parent, n.Span)
	a.nodeScope[id] = blockScope
	for _, stmt := range n.Children {
		a.firstPassStmt(stmt, blockScope)
	}
	n.State.Advance(ast.Scoped)
	return blockScope
}

func (a *Analyzer) firstPassStmt(id ast.NodeID, scope symbols.ScopeID) {
	n := a.Tree.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindVarDecl:
		kind := symbols.RecordLet
		if n.Bool {
			kind = symbols.RecordVar
		}
		var declaredT types.TypeID
		if n.Left.IsValid() {
			desc := a.typeExprToDesc(n.Left)
			if t, err := a.Types.GetOrCreate(desc, false); err == nil {
				declaredT = t
			}
		}
		if n.Right.IsValid() {
			a.firstPassExpr(n.Right, scope)
		}
		if _, err := a.declare(scope, symbols.Record{
			Name: n.Name, Kind: kind, Scope: scope, Span: n.Span, Type: declaredT, Mutable: n.Bool,
		}); err != nil {
			var dup *symbols.DuplicateSymbolError
			if asDuplicate(err, &dup) {
				a.errorf(diag.CodeDuplicateSymbol, n.Span, "duplicate symbol %q", a.Strings.MustGet(n.Name))
			}
		}
	case ast.KindIfExpr:
		a.firstPassExpr(n.Left, scope)
		a.firstPassBlockOrExpr(n.Right, scope)
		if n.Else.IsValid() {
			a.firstPassBlockOrExpr(n.Else, scope)
		}
	case ast.KindBlock:
		a.firstPassBlock(id, scope)
	default:
		a.firstPassExpr(id, scope)
	}
	n.State.Advance(ast.Scoped)
}

func (a *Analyzer) firstPassBlockOrExpr(id ast.NodeID, scope symbols.ScopeID) {
	n := a.Tree.Node(id)
	if n == nil {
		return
	}
	if n.Kind == ast.KindBlock {
		a.firstPassBlock(id, scope)
		return
	}
	a.firstPassStmt(id, scope)
}

// firstPassExpr recurses only far enough to open any nested scopes a call's
// arguments or a binary operand might itself contain (none do, in the
// current grammar); typecheck performs the real per-expression walk.
func (a *Analyzer) firstPassExpr(id ast.NodeID, scope symbols.ScopeID) {
	n := a.Tree.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindCall:
		a.firstPassExpr(n.Left, scope)
		for _, arg := range n.Children {
			a.firstPassExpr(arg, scope)
		}
	case ast.KindBinaryOp, ast.KindAssign:
		a.firstPassExpr(n.Left, scope)
		a.firstPassExpr(n.Right, scope)
	case ast.KindIfExpr:
		a.firstPassStmt(id, scope)
	}
	n.State.Advance(ast.Scoped)
}

func (a *Analyzer) declare(scope symbols.ScopeID, rec symbols.Record) (symbols.RecordID, error) {
	id, err := a.Symbols.Declare(scope, rec)
	if err != nil {
		return symbols.NoRecordID, err
	}
	return id, nil
}

func asDuplicate(err error, target **symbols.DuplicateSymbolError) bool {
	d, ok := err.(*symbols.DuplicateSymbolError)
	if ok {
		*target = d
	}
	return ok
}

