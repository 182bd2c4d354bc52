package rir

import (
	"fmt"
	"strings"
)

// ToString renders mod in the byte-stable textual form of spec.md §6: one
// typedef line per non-elementary RIR type, then one fndef block per
// function with 2-space-indented block labels and 4-space-indented
// instructions/terminators beneath them.
func (m *Module) ToString() string {
	var b strings.Builder
	for _, e := range m.Types.Entries() {
		if e.Category == CatElementary {
			continue
		}
		writeTypedef(&b, m.Types, e)
	}
	for _, fn := range m.Funcs {
		writeFunc(&b, m.Types, fn)
	}
	return b.String()
}

func writeTypedef(b *strings.Builder, tl *TypeList, e TypeEntry) {
	fmt.Fprintf(b, "typedef %s { ", e.Name)
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s:%s", f.Name, tl.Name(f.Type))
	}
	b.WriteString(" }\n")
}

func writeFunc(b *strings.Builder, tl *TypeList, fn *Func) {
	fmt.Fprintf(b, "fndef(%s; %s; %s)\n", fn.Name, strings.Join(fn.ArgTypeNames, ","), tl.Name(fn.RetType))
	for _, blk := range fn.Blocks {
		fmt.Fprintf(b, "  %s:\n", blk.Label)
		for _, ins := range blk.Instrs {
			fmt.Fprintf(b, "    %s\n", formatInstr(tl, ins))
		}
		if blk.Term != nil {
			fmt.Fprintf(b, "    %s\n", formatTerm(blk.Term))
		}
	}
}

func formatInstr(tl *TypeList, ins Instr) string {
	switch ins.Kind {
	case InstrAlloca:
		return fmt.Sprintf("%s = alloca %s", ins.Result, tl.Name(ins.AllocaType))
	case InstrStore:
		return fmt.Sprintf("store %s into %s", ins.Value, ins.Dst)
	case InstrGEP:
		idx := make([]string, len(ins.Indices))
		for i, n := range ins.Indices {
			idx[i] = fmt.Sprintf("%d", n)
		}
		return fmt.Sprintf("%s = GEP(%s, %s)", ins.Result, ins.Base, strings.Join(idx, ", "))
	case InstrLoad:
		return fmt.Sprintf("%s = load %s", ins.Result, ins.Src)
	case InstrBinOp:
		return fmt.Sprintf("%s = %s %s %s", ins.Result, ins.Left, ins.Op, ins.Right)
	case InstrCmp:
		return fmt.Sprintf("%s = cmp %s %s %s", ins.Result, ins.Left, ins.Op, ins.Right)
	case InstrCall:
		return fmt.Sprintf("%s = call %s(%s)", ins.Result, ins.Callee, strings.Join(ins.Args, ", "))
	case InstrConvert:
		return fmt.Sprintf("%s = convert %s to %s", ins.Result, ins.Operand, tl.Name(ins.To))
	default:
		return "?"
	}
}

func formatTerm(t *Terminator) string {
	switch t.Kind {
	case TermBranch:
		return fmt.Sprintf("branch %s", t.Target)
	case TermCondBranch:
		return fmt.Sprintf("cond_branch(%s, %s, %s)", t.Cond, t.Then, t.Else)
	case TermReturn:
		if t.HasValue {
			return fmt.Sprintf("return %s", t.Value)
		}
		return "return"
	default:
		return "unreachable"
	}
}
