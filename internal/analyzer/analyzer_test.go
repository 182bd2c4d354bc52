package analyzer

import (
	"context"
	"testing"

	"refu/internal/ast"
	"refu/internal/diag"
	"refu/internal/parser"
	"refu/internal/source"
	"refu/internal/types"
)

func analyze(t *testing.T, src string) (*Analyzer, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.rf", src)
	f := fs.Get(id)
	strs := source.NewTable()
	bag := &diag.Bag{}
	tree, ok := parser.ParseFile(f, strs, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse failed for %q: %+v", src, bag.Items())
	}
	a := New(tree, strs, diag.BagReporter{Bag: bag})
	_ = a.Analyze(context.Background())
	return a, bag
}

func TestDuplicateParamsReportsSemanticError(t *testing.T) {
	a, bag := analyze(t, "fn f(x:i32, x:i32) -> i32 { x }")
	if !a.HaveSemanticErr() {
		t.Fatalf("expected a semantic error for duplicate parameters")
	}
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.CodeDuplicateSymbol && d.Severity == diag.SevSemanticError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate-symbol semantic error, got %+v", bag.Items())
	}
}

func TestArithmeticFunctionResolvesTypes(t *testing.T) {
	a, bag := analyze(t, "fn add(a:i32, b:i32) -> i32 { a + b }")
	if a.HaveSemanticErr() {
		t.Fatalf("unexpected semantic errors: %+v", bag.Items())
	}
	mod := a.Tree.Node(a.Tree.Root)
	fn := a.Tree.Node(mod.Children[0])
	body := a.Tree.Node(fn.Right)
	expr := a.Tree.Node(body.Children[0])
	i32 := a.Types.Elementary(types.ElemI32)
	if expr.ResolvedType != i32 {
		t.Fatalf("expected a+b to resolve to i32, got %v", expr.ResolvedType)
	}
	if expr.State != ast.Typed {
		t.Fatalf("expected expression state Typed, got %v", expr.State)
	}
}

func TestSumConstructorCallResolvesVariant(t *testing.T) {
	a, bag := analyze(t, `type Shape { radius:f32 | width:f32, height:f32 }
fn main() -> nil { let s = Shape(3.0, 4.0) }`)
	if a.HaveSemanticErr() {
		t.Fatalf("unexpected semantic errors: %+v", bag.Items())
	}
	mod := a.Tree.Node(a.Tree.Root)
	fn := a.Tree.Node(mod.Children[1])
	body := a.Tree.Node(fn.Right)
	letDecl := a.Tree.Node(body.Children[0])
	callID := letDecl.Right
	call := a.Tree.Node(callID)

	info, ok := a.CallInfo[callID]
	if !ok {
		t.Fatalf("expected CallInfo recorded for the constructor call")
	}
	if info.Kind != CallConstructorSum {
		t.Fatalf("expected CallConstructorSum, got %v", info.Kind)
	}
	if info.VariantIndex != 1 {
		t.Fatalf("expected variant index 1 (width,height), got %d", info.VariantIndex)
	}
	if call.ResolvedType == types.NoTypeID {
		t.Fatalf("expected the call to resolve to the Shape type")
	}
}

func TestIfExpressionUnifiesBranchTypes(t *testing.T) {
	a, bag := analyze(t, `fn f(a:i32) -> i32 {
if a == 42 { a } else { a }
}`)
	if a.HaveSemanticErr() {
		t.Fatalf("unexpected semantic errors: %+v", bag.Items())
	}
	mod := a.Tree.Node(a.Tree.Root)
	fn := a.Tree.Node(mod.Children[0])
	body := a.Tree.Node(fn.Right)
	ifExpr := a.Tree.Node(body.Children[0])
	i32 := a.Types.Elementary(types.ElemI32)
	if ifExpr.ResolvedType != i32 {
		t.Fatalf("expected unified branch type i32, got %v", ifExpr.ResolvedType)
	}
}

func TestNonBoolConditionReportsSemanticError(t *testing.T) {
	a, _ := analyze(t, `fn f(a:i32) -> nil {
if a { a } else { a }
}`)
	if !a.HaveSemanticErr() {
		t.Fatalf("expected a semantic error for a non-bool if-condition")
	}
}

// Modules participating in the same compilation share one identifier table
// (spec.md §4.6 implies cross-module name resolution; a Merge that copies a
// defined type's Name as a bare source.StringID only makes sense when both
// sets were built against the same table), so this test builds the
// dependency and the main module against one shared *source.Table.
func TestFinalizeStampsRirEndAndMergesDependency(t *testing.T) {
	fs := source.NewFileSet()
	strs := source.NewTable()
	bag := &diag.Bag{}
	r := diag.BagReporter{Bag: bag}

	depFile := fs.Get(fs.Add("dep.rf", "type Point { x:i32, y:i32 }"))
	depTree, ok := parser.ParseFile(depFile, strs, r)
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	dep := New(depTree, strs, r)
	if err := dep.Analyze(context.Background()); err != nil {
		t.Fatalf("dep.Analyze: %v", err)
	}

	mainFile := fs.Get(fs.Add("main.rf", "fn f() -> nil { }"))
	mainTree, ok := parser.ParseFile(mainFile, strs, r)
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	main := New(mainTree, strs, r)
	if err := main.Analyze(context.Background()); err != nil {
		t.Fatalf("main.Analyze: %v", err)
	}

	if _, err := main.Finalize(context.Background(), []*types.Set{dep.Types}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	pointID, _, err := strs.Add("Point")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, ok := main.Types.DefinedByName(pointID); !ok {
		t.Fatalf("expected Point to be merged into main's type set")
	}
	main.Tree.Walk(main.Tree.Root, func(_ ast.NodeID, n *ast.Node) {
		if n.State != ast.RirEnd {
			t.Fatalf("expected every node to reach RirEnd after Finalize, got %v", n.State)
		}
	})
}
