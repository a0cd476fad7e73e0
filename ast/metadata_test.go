package ast

import (
	"reflect"
	"testing"

	"github.com/nihei9/declex/arena"
)

// buildClassicTree constructs the textbook Aho-Sethi-Ullman example
// (a|b)*abb augmented with a trailing '#', and returns the tree plus the
// arena positions of its six leaves in source order (a, b, a, b, b, #).
func buildClassicTree(t *Tree) (root arena.Position, leaves [6]arena.Position) {
	leaves[0] = t.NewCharacter('a')
	leaves[1] = t.NewCharacter('b')
	union := t.NewUnion(leaves[0], leaves[1])
	star := t.NewStar(union)
	leaves[2] = t.NewCharacter('a')
	c1 := t.NewConcat(star, leaves[2])
	leaves[3] = t.NewCharacter('b')
	c2 := t.NewConcat(c1, leaves[3])
	leaves[4] = t.NewCharacter('b')
	c3 := t.NewConcat(c2, leaves[4])
	leaves[5] = t.NewCharacter(EndMarker)
	root = t.NewConcat(c3, leaves[5])
	return root, leaves
}

func TestComputeMetadataLeafInvariants(t *testing.T) {
	tr := NewTree()
	root, leaves := buildClassicTree(tr)
	ComputeMetadata(tr, root)

	for _, p := range leaves {
		m := tr.Meta.Get(p)
		if m.Nullable {
			t.Errorf("leaf %v: Nullable = true, want false", p)
		}
		if !reflect.DeepEqual(m.FirstPos.Positions(), []arena.Position{p}) {
			t.Errorf("leaf %v: firstpos = %v, want {%v}", p, m.FirstPos.Positions(), p)
		}
		if !reflect.DeepEqual(m.LastPos.Positions(), []arena.Position{p}) {
			t.Errorf("leaf %v: lastpos = %v, want {%v}", p, m.LastPos.Positions(), p)
		}
	}
}

func TestComputeMetadataRootNullableAndPositions(t *testing.T) {
	tr := NewTree()
	root, leaves := buildClassicTree(tr)
	ComputeMetadata(tr, root)

	rootMeta := tr.Meta.Get(root)
	if rootMeta.Nullable {
		t.Errorf("root Nullable = true, want false (the regex always consumes at least abb#)")
	}

	// firstpos/lastpos of every node must be a subset of its own leaves.
	var walk func(arena.Position)
	allLeaves := map[arena.Position]bool{}
	for _, p := range leaves {
		allLeaves[p] = true
	}
	walk = func(p arena.Position) {
		n := tr.Get(p)
		m := tr.Meta.Get(p)
		subtreeLeaves := map[arena.Position]bool{}
		for _, lp := range tr.Leaves(p) {
			subtreeLeaves[lp] = true
		}
		for _, fp := range m.FirstPos.Positions() {
			if !subtreeLeaves[fp] {
				t.Errorf("firstpos(%v) contains %v, not among that node's leaves", p, fp)
			}
		}
		for _, lp := range m.LastPos.Positions() {
			if !subtreeLeaves[lp] {
				t.Errorf("lastpos(%v) contains %v, not among that node's leaves", p, lp)
			}
		}
		if !n.IsLeaf() {
			walk(n.Left)
			if n.Right != arena.PositionNil {
				walk(n.Right)
			}
		}
	}
	walk(root)
}
