package ast

import "testing"

func TestStateAdvanceNeverRegresses(t *testing.T) {
	var s State
	s.Advance(Typed)
	if s != Typed {
		t.Fatalf("expected Typed, got %v", s)
	}
	s.Advance(Scoped)
	if s != Typed {
		t.Fatalf("Advance must never move state backward, got %v", s)
	}
	s.Advance(RirEnd)
	if s != RirEnd {
		t.Fatalf("expected RirEnd, got %v", s)
	}
}

func TestWalkVisitsChildrenInSourceOrder(t *testing.T) {
	tree := NewTree()
	a := tree.New(Node{Kind: KindIntConst, IntVal: 1})
	b := tree.New(Node{Kind: KindIntConst, IntVal: 2})
	c := tree.New(Node{Kind: KindIntConst, IntVal: 3})
	block := tree.New(Node{Kind: KindBlock, Children: []NodeID{a, b, c}})

	var seen []int64
	tree.Walk(block, func(_ NodeID, n *Node) {
		if n.Kind == KindIntConst {
			seen = append(seen, n.IntVal)
		}
	})
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 3 {
		t.Fatalf("expected [1 2 3] in source order, got %v", seen)
	}
}

func TestTreeNodeRejectsInvalidID(t *testing.T) {
	tree := NewTree()
	if tree.Node(NoNodeID) != nil {
		t.Fatalf("expected nil for NoNodeID")
	}
	if tree.Node(NodeID(999)) != nil {
		t.Fatalf("expected nil for out-of-range id")
	}
}
