package parser

import (
	"testing"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/source"
)

func parse(t *testing.T, src string) (*ast.Tree, *source.Table) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.rf", src)
	f := fs.Get(id)
	strs := source.NewTable()
	bag := &diag.Bag{}
	tree, ok := ParseFile(f, strs, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse failed for %q: %+v", src, bag.Items())
	}
	return tree, strs
}

func TestParseArithmeticFunction(t *testing.T) {
	tree, strs := parse(t, "fn add(a:i32, b:i32) -> i32 { a + b }")
	mod := tree.Node(tree.Root)
	if mod.Kind != ast.KindModule || len(mod.Children) != 1 {
		t.Fatalf("expected one top-level item, got %+v", mod)
	}
	fn := tree.Node(mod.Children[0])
	if fn.Kind != ast.KindFuncImpl {
		t.Fatalf("expected KindFuncImpl, got %v", fn.Kind)
	}
	if strs.MustGet(fn.Name) != "add" {
		t.Fatalf("expected name add, got %q", strs.MustGet(fn.Name))
	}
	if len(fn.Children) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Children))
	}
	retType := tree.Node(fn.Left)
	if retType.Kind != ast.KindTypeRef || strs.MustGet(retType.Name) != "i32" {
		t.Fatalf("expected return type i32, got %+v", retType)
	}
	body := tree.Node(fn.Right)
	if body.Kind != ast.KindBlock || len(body.Children) != 1 {
		t.Fatalf("expected one statement in body, got %+v", body)
	}
	expr := tree.Node(body.Children[0])
	if expr.Kind != ast.KindBinaryOp || expr.Op != ast.OpAdd {
		t.Fatalf("expected a+b binary op, got %+v", expr)
	}
}

func TestParseSumTypeAndConstructorCall(t *testing.T) {
	tree, strs := parse(t, `type Shape { radius:f32 | width:f32, height:f32 }
fn main() -> nil { let s = Shape(3.0, 4.0) }`)
	mod := tree.Node(tree.Root)
	if len(mod.Children) != 2 {
		t.Fatalf("expected 2 items, got %d", len(mod.Children))
	}
	typeDecl := tree.Node(mod.Children[0])
	if typeDecl.Kind != ast.KindTypeDecl || strs.MustGet(typeDecl.Name) != "Shape" {
		t.Fatalf("expected Shape type decl, got %+v", typeDecl)
	}
	body := tree.Node(typeDecl.Left)
	if body.Kind != ast.KindTypeSum {
		t.Fatalf("expected sum type body, got %v", body.Kind)
	}

	fn := tree.Node(mod.Children[1])
	block := tree.Node(fn.Right)
	letDecl := tree.Node(block.Children[0])
	if letDecl.Kind != ast.KindVarDecl || letDecl.Bool {
		t.Fatalf("expected immutable let decl, got %+v", letDecl)
	}
	call := tree.Node(letDecl.Right)
	if call.Kind != ast.KindCall || len(call.Children) != 2 {
		t.Fatalf("expected constructor call with 2 args, got %+v", call)
	}
	callee := tree.Node(call.Left)
	if callee.Kind != ast.KindIdent || strs.MustGet(callee.Name) != "Shape" {
		t.Fatalf("expected callee Shape, got %+v", callee)
	}
}

func TestParseIfExpression(t *testing.T) {
	tree, _ := parse(t, "fn f() -> nil { if a == 42 { do_sth() } }")
	fn := tree.Node(tree.Root)
	block := tree.Node(tree.Node(fn.Children[0]).Right)
	ifExpr := tree.Node(block.Children[0])
	if ifExpr.Kind != ast.KindIfExpr {
		t.Fatalf("expected if expression, got %v", ifExpr.Kind)
	}
	if ifExpr.Else.IsValid() {
		t.Fatalf("expected no else branch")
	}
	cond := tree.Node(ifExpr.Left)
	if cond.Kind != ast.KindBinaryOp || cond.Op != ast.OpEq {
		t.Fatalf("expected == condition, got %+v", cond)
	}
}

func TestParseElifChain(t *testing.T) {
	tree, _ := parse(t, `fn f() -> nil {
if a == 42 { X() } elif (a == 50 && is_good()) { Y() } else { Z() }
}`)
	fn := tree.Node(tree.Root)
	block := tree.Node(tree.Node(fn.Children[0]).Right)
	outer := tree.Node(block.Children[0])
	if outer.Kind != ast.KindIfExpr {
		t.Fatalf("expected outer if, got %v", outer.Kind)
	}
	if !outer.Else.IsValid() {
		t.Fatalf("expected an elif branch in Else slot")
	}
	elif := tree.Node(outer.Else)
	if elif.Kind != ast.KindIfExpr {
		t.Fatalf("expected nested if-expression for elif, got %v", elif.Kind)
	}
	if !elif.Else.IsValid() || tree.Node(elif.Else).Kind != ast.KindBlock {
		t.Fatalf("expected final else block")
	}
}

func TestParseDuplicateParamNamesParsesButDoesNotDeduplicate(t *testing.T) {
	tree, strs := parse(t, "fn f(x:i32, x:i32) -> i32 { x }")
	fn := tree.Node(tree.Root)
	fnImpl := tree.Node(fn.Children[0])
	if len(fnImpl.Children) != 2 {
		t.Fatalf("expected both duplicate params to parse, got %d", len(fnImpl.Children))
	}
	for _, pid := range fnImpl.Children {
		param := tree.Node(pid)
		if strs.MustGet(param.Name) != "x" {
			t.Fatalf("expected param name x, got %q", strs.MustGet(param.Name))
		}
	}
}
