package rir

import (
	"context"
	"strings"
	"testing"

	"refu/internal/analyzer"
	"refu/internal/diag"
	"refu/internal/parser"
	"refu/internal/source"
)

func build(t *testing.T, src string) *Module {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.Add("test.rf", src))
	strs := source.NewTable()
	bag := &diag.Bag{}
	tree, ok := parser.ParseFile(f, strs, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse failed for %q: %+v", src, bag.Items())
	}
	an := analyzer.New(tree, strs, diag.BagReporter{Bag: bag})
	if err := an.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze: %v (%+v)", err, bag.Items())
	}
	if _, err := an.Finalize(context.Background(), nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	mod, err := Build(an, strs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return mod
}

// Scenario 2 of spec.md §8: an arithmetic function.
func TestArithmeticFunctionLowering(t *testing.T) {
	mod := build(t, "fn add(a:i32, b:i32) -> i32 { a + b }")
	out := mod.ToString()

	if !strings.Contains(out, "fndef(add; i32,i32; i32)") {
		t.Fatalf("expected exact fndef header, got:\n%s", out)
	}
	if n := strings.Count(out, "= alloca i32"); n != 3 {
		t.Fatalf("expected 3 i32 allocas (2 args + 1 return), got %d:\n%s", n, out)
	}
	if n := strings.Count(out, "store %arg"); n != 2 {
		t.Fatalf("expected 2 incoming-argument stores, got %d:\n%s", n, out)
	}
	addAt := strings.Index(out, " + ")
	if addAt < 0 {
		t.Fatalf("expected an add, got:\n%s", out)
	}
	if n := strings.Count(out[:addAt], "= load "); n != 2 {
		t.Fatalf("expected 2 loads before the add, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, " + "); n != 1 {
		t.Fatalf("expected exactly one add, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "return %") {
		t.Fatalf("expected a valued return, got:\n%s", out)
	}
}

// Scenario 3 of spec.md §8: a sum constructor call with a computed
// variant selector (not hard-coded to 1, per spec.md §9's note — here it
// happens to resolve to 1 since width,height is the second variant).
func TestSumConstructorLowering(t *testing.T) {
	mod := build(t, `type Shape { radius:f32 | width:f32, height:f32 }
fn main() -> nil { let s = Shape(3.0, 4.0) }`)
	out := mod.ToString()

	if !strings.Contains(out, "alloca Shape") {
		t.Fatalf("expected an alloca of Shape, got:\n%s", out)
	}
	if n := strings.Count(out, "alloca internal_struct"); n != 1 {
		t.Fatalf("expected exactly one variant-payload alloca (the chosen width,height variant), got %d:\n%s", n, out)
	}
	if n := strings.Count(out, "typedef internal_struct"); n != 2 {
		t.Fatalf("expected both variants' payload typedefs (radius; width,height) even though only one is instantiated, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "store 3.0 into") || !strings.Contains(out, "store 4.0 into") {
		t.Fatalf("expected stores of both constructor arguments, got:\n%s", out)
	}
	if !strings.Contains(out, "store 1 into") {
		t.Fatalf("expected the selector store of the computed variant index 1, got:\n%s", out)
	}
	if n := strings.Count(out, "= GEP("); n < 4 {
		t.Fatalf("expected at least 4 GEPs (2 field stores + copy + selector), got %d:\n%s", n, out)
	}
}

// Scenario 4 of spec.md §8: an if-expression with no else arm lowers to
// exactly three blocks (current, then, merge); the function adds its own
// trailing return block, so f has four.
func TestIfExpressionLowering(t *testing.T) {
	mod := build(t, `fn do_sth() -> nil { }
fn f(a:i32) -> nil {
if a == 42 { do_sth() }
}`)
	var out string
	for _, fn := range mod.Funcs {
		if fn.Name == "f" {
			out = funcText(mod.Types, fn)
		}
	}
	if n := strings.Count(out, "cond_branch("); n != 1 {
		t.Fatalf("expected exactly one cond_branch, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, "  L"); n != 4 {
		t.Fatalf("expected exactly 4 blocks (current, then, merge, function return), got %d:\n%s", n, out)
	}
}

// Scenario 5 of spec.md §8: an elif chain lowers one cond_branch per arm,
// all arms reconverging at a single shared merge block.
func TestElifChainLowering(t *testing.T) {
	mod := build(t, `fn is_good() -> bool { true }
fn f(a:i32) -> nil {
if a == 42 { a } elif (a == 50 && is_good()) { a } else { a }
}`)
	var out string
	for _, fn := range mod.Funcs {
		if fn.Name == "f" {
			out = funcText(mod.Types, fn)
		}
	}
	if n := strings.Count(out, "cond_branch("); n != 2 {
		t.Fatalf("expected exactly 2 cond_branch (if arm + elif arm), got %d:\n%s", n, out)
	}
	// current, then(X), else-slot-doubling-as-elif-cond, then(Y), else(Z),
	// merge: 6 blocks for the chain, plus the function's trailing return
	// block: 7 blocks total.
	if n := strings.Count(out, "  L"); n != 7 {
		t.Fatalf("expected exactly 7 blocks, got %d:\n%s", n, out)
	}
}

func funcText(tl *TypeList, fn *Func) string {
	var b strings.Builder
	writeFunc(&b, tl, fn)
	return b.String()
}

// spec.md §8's RIR-UID-uniqueness property: every entry of a built
// TypeList (elementary and composite alike) has a distinct UID.
func TestTypeListUIDsAreUnique(t *testing.T) {
	mod := build(t, `type Shape { radius:f32 | width:f32, height:f32 }
fn main() -> nil { let s = Shape(3.0, 4.0) }`)

	seen := make(map[TypeUID]string)
	for _, e := range mod.Types.Entries() {
		if prior, dup := seen[e.UID]; dup {
			t.Fatalf("UID %d reused by both %q and %q", e.UID, prior, e.Name)
		}
		seen[e.UID] = e.Name
	}
}

// spec.md §8's block-well-formedness property: every block of every
// lowered function ends with exactly one terminator and no instructions
// after it (Block.Term is set exactly once, never appended past).
func TestEveryBlockHasExactlyOneTerminator(t *testing.T) {
	mod := build(t, `fn is_good() -> bool { true }
fn f(a:i32) -> nil {
if a == 42 { a } elif (a == 50 && is_good()) { a } else { a }
}`)

	for _, fn := range mod.Funcs {
		for _, b := range fn.Blocks {
			if b.Term == nil {
				t.Fatalf("function %s block %s has no terminator", fn.Name, b.Label)
			}
		}
	}
}
