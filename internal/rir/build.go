package rir

import (
	"errors"
	"fmt"

	"refu/internal/analyzer"
	"refu/internal/ast"
	"refu/internal/source"
	"refu/internal/symbols"
	"refu/internal/types"
)

// ErrBlocked is returned by Build when the module carries an unresolved
// semantic error — spec.md §7's "the RIR builder treats any pre-existing
// semantic error on a module as a hard stop."
var ErrBlocked = errors.New("rir: module has unresolved semantic errors")

// rirCtx is spec.md §4.7's RIR context, trimmed per spec.md §9's redesign
// note: the last-assignment-LHS and last-returned object fields are gone
// (every lowering function returns its Obj directly instead), leaving only
// genuinely contextual state — current function/block, the label and
// expression-id counters (reset per function), and the back-end-handle map
// from a symbol record to the stack-slot address that realizes it.
type rirCtx struct {
	fn         *Func
	block      *Block
	labelIdx   int
	exprIdx    int
	locals     map[symbols.RecordID]string
	returnAddr string
}

func newCtx(name string) *rirCtx {
	return &rirCtx{fn: &Func{Name: name}, locals: make(map[symbols.RecordID]string)}
}

func (c *rirCtx) allocBlock() *Block {
	b := &Block{ID: BlockID(c.labelIdx + 1), Label: fmt.Sprintf("L%d", c.labelIdx)}
	c.labelIdx++
	return b
}

func (c *rirCtx) appendBlock(b *Block) {
	c.fn.Blocks = append(c.fn.Blocks, b)
}

func (c *rirCtx) newBlock() *Block {
	b := c.allocBlock()
	c.appendBlock(b)
	return b
}

func (c *rirCtx) newReg() string {
	r := fmt.Sprintf("%%%d", c.exprIdx)
	c.exprIdx++
	return r
}

func (c *rirCtx) emitAlloca(t TypeUID) string {
	reg := c.newReg()
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrAlloca, Result: reg, AllocaType: t})
	return reg
}

func (c *rirCtx) emitStore(val, dst string) {
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrStore, Value: val, Dst: dst})
}

func (c *rirCtx) emitLoad(src string) string {
	reg := c.newReg()
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrLoad, Result: reg, Src: src})
	return reg
}

func (c *rirCtx) emitGEP(base string, indices []int) string {
	reg := c.newReg()
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrGEP, Result: reg, Base: base, Indices: indices})
	return reg
}

func (c *rirCtx) emitBinOp(op, left, right string) string {
	reg := c.newReg()
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrBinOp, Result: reg, Op: op, Left: left, Right: right})
	return reg
}

func (c *rirCtx) emitCmp(op, left, right string) string {
	reg := c.newReg()
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrCmp, Result: reg, Op: op, Left: left, Right: right})
	return reg
}

func (c *rirCtx) emitCall(callee string, args []string) string {
	reg := c.newReg()
	c.block.Instrs = append(c.block.Instrs, Instr{Kind: InstrCall, Result: reg, Callee: callee, Args: args})
	return reg
}

// materialize turns an Obj into a usable operand, inserting the load a
// consumer needs when the producer only handed back an address (spec.md
// §4.7: "loads are inserted by the consumer when a value, not an address,
// is required").
func (c *rirCtx) materialize(o Obj) string {
	switch o.Kind {
	case ObjAddress:
		return c.emitLoad(o.Reg)
	case ObjValue:
		return o.Reg
	default:
		return ""
	}
}

// Build lowers every function implementation of an already-analyzed module
// into a RIR Module, per spec.md §4.7.
func Build(an *analyzer.Analyzer, strs *source.Table) (*Module, error) {
	if an.HaveSemanticErr() {
		return nil, ErrBlocked
	}
	tl := BuildTypeList(an.Types, strs)
	mod := &Module{Types: tl}
	root := an.Tree.Node(an.Tree.Root)
	if root == nil {
		return mod, nil
	}
	for _, item := range root.Children {
		n := an.Tree.Node(item)
		if n == nil || n.Kind != ast.KindFuncImpl || !n.Right.IsValid() {
			continue
		}
		fn, err := buildFunc(an, tl, strs, item, n)
		if err != nil {
			return nil, err
		}
		mod.Funcs = append(mod.Funcs, fn)
	}
	return mod, nil
}

// buildFunc implements spec.md §4.7's function-lowering steps 1-4: resolve
// the signature, open the entry block, alloca+store each argument, alloca
// the return slot, lower the body, then close with a dedicated trailing
// block that loads the return slot (if any) and returns.
func buildFunc(an *analyzer.Analyzer, tl *TypeList, strs *source.Table, fnID ast.NodeID, fnNode *ast.Node) (*Func, error) {
	rec, ok := an.Symbols.Lookup(an.Root, fnNode.Name)
	if !ok {
		return nil, fmt.Errorf("rir: no declared record for function %q", strs.MustGet(fnNode.Name))
	}
	sig, ok := an.FuncSig(rec)
	if !ok {
		return nil, fmt.Errorf("rir: no signature recorded for function %q", strs.MustGet(fnNode.Name))
	}

	ctx := newCtx(strs.MustGet(fnNode.Name))
	entry := ctx.newBlock()
	ctx.block = entry
	ctx.fn.Entry = entry.ID

	argTypeNames := make([]string, 0, len(sig.Params))
	for i, prec := range sig.Params {
		prm := an.Symbols.Record(prec)
		uid, _ := tl.Lookup(prm.Type)
		argTypeNames = append(argTypeNames, tl.Name(uid))
		addr := ctx.emitAlloca(uid)
		ctx.emitStore(fmt.Sprintf("%%arg%d", i), addr)
		ctx.locals[prec] = addr
	}
	ctx.fn.ArgTypeNames = argTypeNames

	nilT := an.Types.Elementary(types.ElemNil)
	retUID, _ := tl.Lookup(sig.RetT)
	ctx.fn.RetType = retUID
	if sig.RetT != nilT {
		ctx.returnAddr = ctx.emitAlloca(retUID)
	}

	bodyScope := an.ScopeOf(fnNode.Right)
	bodyResult := lowerBlockBody(ctx, an, tl, strs, bodyScope, fnNode.Right)

	final := ctx.allocBlock()
	if !ctx.block.Terminated() {
		if ctx.returnAddr != "" && bodyResult.Kind != ObjNothing {
			ctx.emitStore(ctx.materialize(bodyResult), ctx.returnAddr)
		}
		ctx.block.Term = &Terminator{Kind: TermBranch, Target: final.Label}
	}
	ctx.appendBlock(final)
	ctx.block = final
	if ctx.returnAddr != "" {
		final.Term = &Terminator{Kind: TermReturn, HasValue: true, Value: ctx.emitLoad(ctx.returnAddr)}
	} else {
		final.Term = &Terminator{Kind: TermReturn}
	}
	return ctx.fn, nil
}
